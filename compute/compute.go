// Package compute evaluates computed fields against a value store.
//
// sum and average skip blank and non-numeric cells; count counts rows regardless of
// content. difference and percentage_change pair row i of fieldA with row i of
// fieldB: each pair yields a row result, and the field value aggregates the pairs
// where both sides are numeric (ΣB − ΣA, and (ΣB − ΣA) / ΣA × 100). A zero
// denominator or an empty pairing is Unresolved.
package compute

import (
	"github.com/reoring/worksheet"
)

// Resolve evaluates every computed field of c in dependency order.
func Resolve(c *worksheet.Compiled, s *worksheet.Store) map[string]Result {
	out := make(map[string]Result)
	for _, id := range c.ComputedOrder() {
		out[id] = Field(c, s, id)
	}
	return out
}

// Field evaluates a single computed field. Unknown or non-computed ids are Unresolved.
func Field(c *worksheet.Compiled, s *worksheet.Store, id string) Result {
	f, ok := c.Field(id)
	if !ok {
		return Unresolved()
	}
	cf, ok := f.(*worksheet.ComputedField)
	if !ok {
		return Unresolved()
	}
	refs, _ := c.Refs(id)
	precision := DefaultPrecision
	if cf.Precision != nil {
		precision = *cf.Precision
	}
	switch cf.Operation {
	case worksheet.Sum, worksheet.Average, worksheet.Count:
		v, _ := s.Get(refs.Field.Field)
		cells := refs.Field.Cells(v)
		r := aggregate(cf.Operation, cells, precision)
		if refs.GroupBy.Raw != "" {
			r.Groups = groups(cf.Operation, cells, refs.GroupBy.Cells(v), precision)
		}
		return r
	case worksheet.Difference, worksheet.PercentageChange:
		va, _ := s.Get(refs.A.Field)
		vb, _ := s.Get(refs.B.Field)
		return pairwise(cf.Operation, refs.A.Cells(va), refs.B.Cells(vb), precision)
	default:
		return Unresolved()
	}
}

func aggregate(op worksheet.Operation, cells []worksheet.Value, precision int) Result {
	if op == worksheet.Count {
		return resolved(float64(len(cells)), precision)
	}
	var sum float64
	n := 0
	for _, c := range cells {
		if f, ok := worksheet.Numeric(c); ok {
			sum += f
			n++
		}
	}
	if op == worksheet.Average {
		if n == 0 {
			return Result{Precision: precision}
		}
		return resolved(sum/float64(n), precision)
	}
	return resolved(sum, precision)
}

// groups partitions cells by the text of the key cell in the same row, keeping keys
// in order of first appearance.
func groups(op worksheet.Operation, cells, keys []worksheet.Value, precision int) []Group {
	var order []string
	buckets := map[string][]worksheet.Value{}
	for i, c := range cells {
		var k string
		if i < len(keys) {
			k = worksheet.TextOf(keys[i])
		}
		if _, ok := buckets[k]; !ok {
			order = append(order, k)
		}
		buckets[k] = append(buckets[k], c)
	}
	out := make([]Group, 0, len(order))
	for _, k := range order {
		out = append(out, Group{Key: k, Result: aggregate(op, buckets[k], precision)})
	}
	return out
}

func pairwise(op worksheet.Operation, as, bs []worksheet.Value, precision int) Result {
	n := min(len(as), len(bs))
	rows := make([]Result, n)
	var sumA, sumB float64
	pairs := 0
	for i := 0; i < n; i++ {
		a, okA := worksheet.Numeric(as[i])
		b, okB := worksheet.Numeric(bs[i])
		if !okA || !okB {
			rows[i] = Result{Precision: precision}
			continue
		}
		rows[i] = change(op, a, b, precision)
		sumA += a
		sumB += b
		pairs++
	}
	r := Result{Precision: precision}
	if pairs > 0 {
		r = change(op, sumA, sumB, precision)
	}
	r.Rows = rows
	return r
}

func change(op worksheet.Operation, a, b float64, precision int) Result {
	if op == worksheet.Difference {
		return resolved(b-a, precision)
	}
	if a == 0 {
		return Result{Precision: precision}
	}
	return resolved((b-a)/a*100, precision)
}
