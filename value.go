package worksheet

import (
	"sort"
	"strconv"
	"strings"
)

// ValueKind discriminates the Value variants.
type ValueKind int

const (
	KindText ValueKind = iota
	KindNumber
	KindList
	KindRows
	KindEntries
	KindNodes
)

func (k ValueKind) String() string {
	switch k {
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindList:
		return "list"
	case KindRows:
		return "rows"
	case KindEntries:
		return "entries"
	case KindNodes:
		return "nodes"
	default:
		return "unknown"
	}
}

// Value is the closed sum type of stored values.
type Value interface {
	Kind() ValueKind
	isValue()
}

// Text is a string value: text, textarea, date, time and select fields, and blank numbers.
type Text string

// Number is a numeric value: number and likert fields.
type Number float64

// List is a checklist selection.
type List []string

// Row maps column (or sub-field) ids to scalar cells.
type Row map[string]Value

// Rows is a table value.
type Rows []Row

// Entry maps group ids to the sub-field cells of that group.
type Entry map[string]Row

// Entries is a record value.
type Entries []Entry

// Nodes maps formulation node ids to the text of their fields.
type Nodes map[string]map[string]string

func (Text) Kind() ValueKind    { return KindText }
func (Number) Kind() ValueKind  { return KindNumber }
func (List) Kind() ValueKind    { return KindList }
func (Rows) Kind() ValueKind    { return KindRows }
func (Entries) Kind() ValueKind { return KindEntries }
func (Nodes) Kind() ValueKind   { return KindNodes }

func (Text) isValue()    {}
func (Number) isValue()  {}
func (List) isValue()    {}
func (Rows) isValue()    {}
func (Entries) isValue() {}
func (Nodes) isValue()   {}

// Numeric coerces a scalar to a float. Blank and non-numeric text, and every
// non-scalar value, are not numeric.
func Numeric(v Value) (float64, bool) {
	switch t := v.(type) {
	case Number:
		return float64(t), true
	case Text:
		s := strings.TrimSpace(string(t))
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// FormatNumber renders a float without trailing zeros.
func FormatNumber(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

// TextOf returns the text form of a scalar, or "" for structured values.
func TextOf(v Value) string {
	switch t := v.(type) {
	case Text:
		return string(t)
	case Number:
		return FormatNumber(float64(t))
	case List:
		return strings.Join(t, ", ")
	default:
		return ""
	}
}

// IsBlank is the type-specific emptiness test: blank text, empty list, zero rows or
// entries, or a diagram whose fields are all blank. A nil value is blank.
func IsBlank(v Value) bool {
	switch t := v.(type) {
	case nil:
		return true
	case Text:
		return strings.TrimSpace(string(t)) == ""
	case Number:
		return false
	case List:
		return len(t) == 0
	case Rows:
		return len(t) == 0
	case Entries:
		return len(t) == 0
	case Nodes:
		for _, fields := range t {
			for _, s := range fields {
				if strings.TrimSpace(s) != "" {
					return false
				}
			}
		}
		return true
	default:
		return true
	}
}

// IsUnanswered extends IsBlank so that tables and records count as empty when none of
// their rows or entries has a filled cell.
func IsUnanswered(v Value) bool {
	switch t := v.(type) {
	case Rows:
		for _, r := range t {
			if !rowBlank(r) {
				return false
			}
		}
		return true
	case Entries:
		for _, e := range t {
			for _, r := range e {
				if !rowBlank(r) {
					return false
				}
			}
		}
		return true
	default:
		return IsBlank(v)
	}
}

func rowBlank(r Row) bool {
	for _, c := range r {
		if !IsBlank(c) {
			return false
		}
	}
	return true
}

// Equal compares two values structurally.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}
	switch x := a.(type) {
	case Text:
		return x == b.(Text)
	case Number:
		return x == b.(Number)
	case List:
		y := b.(List)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if x[i] != y[i] {
				return false
			}
		}
		return true
	case Rows:
		y := b.(Rows)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if !rowEqual(x[i], y[i]) {
				return false
			}
		}
		return true
	case Entries:
		y := b.(Entries)
		if len(x) != len(y) {
			return false
		}
		for i := range x {
			if len(x[i]) != len(y[i]) {
				return false
			}
			for g, r := range x[i] {
				if !rowEqual(r, y[i][g]) {
					return false
				}
			}
		}
		return true
	case Nodes:
		y := b.(Nodes)
		if len(x) != len(y) {
			return false
		}
		for id, fx := range x {
			fy, ok := y[id]
			if !ok || len(fx) != len(fy) {
				return false
			}
			for k, s := range fx {
				if t, ok := fy[k]; !ok || s != t {
					return false
				}
			}
		}
		return true
	default:
		return false
	}
}

func rowEqual(a, b Row) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		w, ok := b[k]
		if !ok || !Equal(v, w) {
			return false
		}
	}
	return true
}

// Clone deep-copies a value so stores never share mutable backing arrays or maps.
// nil slices and maps stay nil.
func Clone(v Value) Value {
	switch t := v.(type) {
	case List:
		if t == nil {
			return t
		}
		return append(make(List, 0, len(t)), t...)
	case Rows:
		if t == nil {
			return t
		}
		out := make(Rows, len(t))
		for i, r := range t {
			out[i] = cloneRow(r)
		}
		return out
	case Entries:
		if t == nil {
			return t
		}
		out := make(Entries, len(t))
		for i, e := range t {
			out[i] = cloneEntry(e)
		}
		return out
	case Nodes:
		if t == nil {
			return t
		}
		out := make(Nodes, len(t))
		for id, fields := range t {
			cp := make(map[string]string, len(fields))
			for k, s := range fields {
				cp[k] = s
			}
			out[id] = cp
		}
		return out
	default:
		return v
	}
}

func cloneRow(r Row) Row {
	out := make(Row, len(r))
	for k, c := range r {
		out[k] = Clone(c)
	}
	return out
}

func cloneEntry(e Entry) Entry {
	out := make(Entry, len(e))
	for g, r := range e {
		out[g] = cloneRow(r)
	}
	return out
}

// sortedKeys returns map keys in lexical order for deterministic iteration.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
