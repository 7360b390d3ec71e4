package rules

import (
	"strings"

	"github.com/reoring/worksheet"
)

// Eval applies a predicate to the current value of its field. It never fails:
// comparisons that cannot be made are false.
func Eval(p *worksheet.Predicate, v worksheet.Value) bool {
	if p == nil {
		return true
	}
	switch p.Operator {
	case worksheet.OpEmpty:
		return empty(p, v)
	case worksheet.OpNotEmpty:
		return !empty(p, v)
	case worksheet.OpEquals:
		return equals(v, p.Value)
	case worksheet.OpNotEquals:
		return !equals(v, p.Value)
	case worksheet.OpContains:
		return contains(v, p.Value)
	case worksheet.OpGreaterThan, worksheet.OpLessThan:
		a, ok := worksheet.Numeric(v)
		if !ok {
			return false
		}
		b, ok := worksheet.LiteralNumber(p.Value)
		if !ok {
			return false
		}
		if p.Operator == worksheet.OpGreaterThan {
			return a > b
		}
		return a < b
	default:
		return false
	}
}

func empty(p *worksheet.Predicate, v worksheet.Value) bool {
	if p.IgnoreBlankRows {
		return worksheet.IsUnanswered(v)
	}
	return worksheet.IsBlank(v)
}

// equals compares numerically when both sides are numeric and by text otherwise.
// Text comparison is case-sensitive.
func equals(v worksheet.Value, want any) bool {
	if l, ok := v.(worksheet.List); ok {
		if items, ok := want.([]any); ok {
			if len(items) != len(l) {
				return false
			}
			for i, it := range items {
				if worksheet.LiteralText(it) != l[i] {
					return false
				}
			}
			return true
		}
		return len(l) == 1 && l[0] == worksheet.LiteralText(want)
	}
	if a, ok := worksheet.Numeric(v); ok {
		if b, ok := worksheet.LiteralNumber(want); ok {
			return a == b
		}
	}
	switch v.(type) {
	case worksheet.Text, worksheet.Number:
		return worksheet.TextOf(v) == worksheet.LiteralText(want)
	case nil:
		return want == nil || worksheet.LiteralText(want) == ""
	default:
		return false
	}
}

// contains is substring search on scalars and membership on checklists.
func contains(v worksheet.Value, want any) bool {
	needle := worksheet.LiteralText(want)
	switch t := v.(type) {
	case worksheet.List:
		for _, it := range t {
			if it == needle {
				return true
			}
		}
		return false
	case worksheet.Text, worksheet.Number:
		return strings.Contains(worksheet.TextOf(t), needle)
	default:
		return false
	}
}
