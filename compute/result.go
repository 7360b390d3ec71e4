package compute

import (
	"math"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/reoring/worksheet"
)

// Placeholder is the display form of an unresolved result.
const Placeholder = "—"

// DefaultPrecision is the number of decimals shown when a computed field sets none.
const DefaultPrecision = 2

// Result is the outcome of a computed field. An unresolved result carries no number;
// it is a normal state for half-completed forms, not an error.
type Result struct {
	Resolved  bool
	Value     float64
	Precision int
	// Rows holds the per-row outcome of difference and percentage_change.
	Rows []Result
	// Groups holds per-group aggregates when the field declares groupBy.
	Groups []Group
}

// Group is the aggregate over the rows sharing one groupBy key.
type Group struct {
	Key    string `json:"key"`
	Result Result `json:"result"`
}

// Unresolved returns the sentinel result.
func Unresolved() Result { return Result{Precision: DefaultPrecision} }

func resolved(v float64, precision int) Result {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Result{Precision: precision}
	}
	return Result{Resolved: true, Value: v, Precision: precision}
}

// Display renders the result rounded to its precision, or the placeholder.
func (r Result) Display() string {
	if !r.Resolved {
		return Placeholder
	}
	p := math.Pow(10, float64(r.Precision))
	v := math.Round(r.Value*p) / p
	if math.IsInf(v, 0) || math.IsNaN(v) {
		// scaling overflowed; values this large carry no fractional digits
		return strconv.FormatFloat(r.Value, 'f', -1, 64)
	}
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// MarshalJSON writes value as null when unresolved so exporters never see NaN.
func (r Result) MarshalJSON() ([]byte, error) {
	type out struct {
		Value   *float64 `json:"value"`
		Display string   `json:"display"`
		Rows    []Result `json:"rows,omitempty"`
		Groups  []Group  `json:"groups,omitempty"`
	}
	o := out{Display: r.Display(), Rows: r.Rows, Groups: r.Groups}
	if r.Resolved {
		v := r.Value
		o.Value = &v
	}
	return json.Marshal(o)
}

// Number returns the result as a store value, or nil when unresolved.
func (r Result) Number() worksheet.Value {
	if !r.Resolved {
		return nil
	}
	return worksheet.Number(r.Value)
}
