package worksheet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// LiteralNumber coerces a decoded document literal (predicate value, persisted cell)
// to a float.
func LiteralNumber(raw any) (float64, bool) {
	switch t := raw.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	case Number:
		return float64(t), true
	case Text:
		return Numeric(t)
	default:
		return 0, false
	}
}

// LiteralText renders a decoded literal the way values are compared as text.
func LiteralText(raw any) string {
	switch t := raw.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return FormatNumber(t)
	case int:
		return strconv.Itoa(t)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case Value:
		return TextOf(t)
	default:
		return fmt.Sprint(t)
	}
}
