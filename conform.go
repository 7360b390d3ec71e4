package worksheet

import (
	"fmt"
	"math"

	"github.com/reoring/worksheet/codec"
	"github.com/reoring/worksheet/formulation"
)

// cellSpec describes the scalar shape accepted by a field, column or sub-field.
type cellSpec struct {
	typ     FieldType
	options []string
	min     *float64
	max     *float64
}

func specOfColumn(c Column) cellSpec { return cellSpec{typ: c.Type, options: c.Options} }

func specOfSubField(sf SubField) cellSpec {
	return cellSpec{typ: sf.Type, options: sf.Options, min: sf.Min, max: sf.Max}
}

func (cs cellSpec) blank() Value {
	switch cs.typ {
	case TypeLikert:
		if cs.min != nil {
			return Number(*cs.min)
		}
		return Number(0)
	case TypeChecklist:
		return List{}
	default:
		return Text("")
	}
}

// conformCell checks a scalar against the cell shape. Blank text is accepted for every
// text-like and number cell so inputs can be cleared.
func (cs cellSpec) conformCell(p PathRef, id string, v Value) Issues {
	shape := func(want string) Issues {
		return Issues{p.Issue(id, CodeInvalidType, fmt.Sprintf("expected %s, got %s", want, kindOf(v)),
			"expected", want, "got", kindOf(v))}
	}
	switch cs.typ {
	case TypeText, TypeTextarea:
		if _, ok := v.(Text); !ok {
			return shape("text")
		}
	case TypeNumber:
		switch t := v.(type) {
		case Number:
			return cs.checkNumber(p, id, float64(t), false)
		case Text:
			if !IsBlank(t) {
				return shape("number")
			}
		default:
			return shape("number")
		}
	case TypeLikert:
		n, ok := v.(Number)
		if !ok {
			return shape("number")
		}
		return cs.checkNumber(p, id, float64(n), true)
	case TypeDate, TypeTime:
		t, ok := v.(Text)
		if !ok {
			return shape("text")
		}
		if IsBlank(t) {
			return nil
		}
		c := codec.Date()
		if cs.typ == TypeTime {
			c = codec.Clock()
		}
		if _, err := c.Decode(string(t)); err != nil {
			return Issues{{FieldID: id, Path: p.Pointer(), Code: CodeInvalidFormat,
				Message: fmt.Sprintf("%q is not a valid %s", string(t), cs.typ), Cause: err}}
		}
	case TypeSelect:
		t, ok := v.(Text)
		if !ok {
			return shape("text")
		}
		if !IsBlank(t) && !contains(cs.options, string(t)) {
			return Issues{p.Issue(id, CodeInvalidEnum, fmt.Sprintf("%q is not one of the options", string(t)),
				"options", cs.options)}
		}
	case TypeChecklist:
		l, ok := v.(List)
		if !ok {
			return shape("list")
		}
		var out Issues
		seen := map[string]bool{}
		for i, item := range l {
			if !contains(cs.options, item) {
				out = append(out, p.Index(i).Issue(id, CodeInvalidEnum, fmt.Sprintf("%q is not one of the options", item),
					"options", cs.options))
			}
			if seen[item] {
				out = append(out, p.Index(i).Issue(id, CodeDuplicateID, fmt.Sprintf("%q is checked twice", item)))
			}
			seen[item] = true
		}
		return out
	default:
		return shape(string(cs.typ))
	}
	return nil
}

func (cs cellSpec) checkNumber(p PathRef, id string, f float64, integral bool) Issues {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Issues{p.Issue(id, CodeOutOfRange, "number must be finite")}
	}
	if integral && f != math.Trunc(f) {
		return Issues{p.Issue(id, CodeOutOfRange, fmt.Sprintf("%s is not a point of the scale", FormatNumber(f)))}
	}
	if (cs.min != nil && f < *cs.min) || (cs.max != nil && f > *cs.max) {
		return Issues{p.Issue(id, CodeOutOfRange, fmt.Sprintf("%s is outside the allowed range", FormatNumber(f)),
			"min", cs.min, "max", cs.max, "got", f)}
	}
	return nil
}

func kindOf(v Value) string {
	if v == nil {
		return "null"
	}
	return v.Kind().String()
}

func contains(list []string, s string) bool {
	for _, it := range list {
		if it == s {
			return true
		}
	}
	return false
}

// cellValue copies a conformed cell. A nil List becomes an empty one so it encodes as [].
func cellValue(v Value) Value {
	if l, ok := v.(List); ok && l == nil {
		return List{}
	}
	return Clone(v)
}

func floatPtr(f float64) *float64 { return &f }

// conform checks v against the field and returns it normalized: rows, entries and
// diagrams get every declared cell, missing ones filled with blanks.
func conform(f Field, v Value, p PathRef) (Value, Issues) {
	id := f.Base().ID
	if v == nil {
		return nil, Issues{p.Issue(id, CodeInvalidType, "value is null")}
	}
	switch t := f.(type) {
	case *TextField, *TextareaField, *DateField, *TimeField:
		return v, cellSpec{typ: f.Type()}.conformCell(p, id, v)
	case *NumberField:
		return v, cellSpec{typ: TypeNumber, min: t.Min, max: t.Max}.conformCell(p, id, v)
	case *SelectField:
		return v, cellSpec{typ: TypeSelect, options: t.Options}.conformCell(p, id, v)
	case *ChecklistField:
		return cellValue(v), cellSpec{typ: TypeChecklist, options: t.Options}.conformCell(p, id, v)
	case *LikertField:
		return v, cellSpec{typ: TypeLikert, min: floatPtr(float64(t.Min)), max: floatPtr(float64(t.Max))}.conformCell(p, id, v)
	case *TableField:
		rows, ok := v.(Rows)
		if !ok {
			return nil, Issues{p.Issue(id, CodeInvalidType, fmt.Sprintf("expected rows, got %s", kindOf(v)))}
		}
		iss := checkCount(p, id, len(rows), t.MinRows, t.MaxRows)
		out := make(Rows, len(rows))
		for i, r := range rows {
			var ri Issues
			out[i], ri = conformTableRow(t, r, p.Index(i))
			iss = append(iss, ri...)
		}
		return out, iss
	case *RecordField:
		entries, ok := v.(Entries)
		if !ok {
			return nil, Issues{p.Issue(id, CodeInvalidType, fmt.Sprintf("expected entries, got %s", kindOf(v)))}
		}
		iss := checkCount(p, id, len(entries), t.MinRecords, t.MaxRecords)
		out := make(Entries, len(entries))
		for i, e := range entries {
			var ei Issues
			out[i], ei = conformEntry(t, e, p.Index(i))
			iss = append(iss, ei...)
		}
		return out, iss
	case *FormulationField:
		nodes, ok := v.(Nodes)
		if !ok {
			return nil, Issues{p.Issue(id, CodeInvalidType, fmt.Sprintf("expected nodes, got %s", kindOf(v)))}
		}
		return conformNodes(t, nodes, p)
	case *ComputedField:
		return nil, Issues{p.Issue(id, CodeReadOnly, "computed fields are derived and cannot be set")}
	default:
		return nil, Issues{p.Issue(id, CodeInvalidType, fmt.Sprintf("field type %q holds no value", f.Type()))}
	}
}

func checkCount(p PathRef, id string, n, lo, hi int) Issues {
	if n < lo {
		return Issues{p.Issue(id, CodeTooFew, fmt.Sprintf("at least %d required, got %d", lo, n), "min", lo, "got", n)}
	}
	if hi > 0 && n > hi {
		return Issues{p.Issue(id, CodeTooMany, fmt.Sprintf("at most %d allowed, got %d", hi, n), "max", hi, "got", n)}
	}
	return nil
}

func conformTableRow(t *TableField, r Row, p PathRef) (Row, Issues) {
	var iss Issues
	out := blankTableRow(t)
	for _, k := range sortedKeys(r) {
		col, ok := t.Column(k)
		if !ok {
			iss = append(iss, p.Field(k).Issue(t.ID, CodeUnknownKey, fmt.Sprintf("table has no column %q", k)))
			continue
		}
		iss = append(iss, specOfColumn(col).conformCell(p.Field(k), t.ID, r[k])...)
		out[k] = cellValue(r[k])
	}
	return out, iss
}

func conformEntry(t *RecordField, e Entry, p PathRef) (Entry, Issues) {
	var iss Issues
	out := blankEntry(t)
	for _, gid := range sortedKeys(e) {
		g, ok := t.Group(gid)
		if !ok {
			iss = append(iss, p.Field(gid).Issue(t.ID, CodeUnknownKey, fmt.Sprintf("record has no group %q", gid)))
			continue
		}
		for _, sid := range sortedKeys(e[gid]) {
			sf, ok := g.SubField(sid)
			cp := p.Field(gid).Field(sid)
			if !ok {
				iss = append(iss, cp.Issue(t.ID, CodeUnknownKey, fmt.Sprintf("group %q has no sub-field %q", gid, sid)))
				continue
			}
			iss = append(iss, specOfSubField(sf).conformCell(cp, t.ID, e[gid][sid])...)
			out[gid][sid] = cellValue(e[gid][sid])
		}
	}
	return out, iss
}

func conformNodes(t *FormulationField, nodes Nodes, p PathRef) (Value, Issues) {
	var iss Issues
	out := blankNodes(t)
	for _, nid := range sortedKeys(nodes) {
		n, ok := t.Node(nid)
		if !ok {
			iss = append(iss, p.Field(nid).Issue(t.ID, CodeUnknownKey, fmt.Sprintf("diagram has no node %q", nid)))
			continue
		}
		for _, fid := range sortedKeys(nodes[nid]) {
			if !nodeHasField(n.Fields, fid) {
				iss = append(iss, p.Field(nid).Field(fid).Issue(t.ID, CodeUnknownKey,
					fmt.Sprintf("node %q has no field %q", nid, fid)))
				continue
			}
			out[nid][fid] = nodes[nid][fid]
		}
	}
	return out, iss
}

func blankTableRow(t *TableField) Row {
	r := make(Row, len(t.Columns))
	for _, c := range t.Columns {
		r[c.ID] = specOfColumn(c).blank()
	}
	return r
}

func blankEntry(t *RecordField) Entry {
	e := make(Entry, len(t.Groups))
	for _, g := range t.Groups {
		r := make(Row, len(g.Fields))
		for _, sf := range g.Fields {
			r[sf.ID] = specOfSubField(sf).blank()
		}
		e[g.ID] = r
	}
	return e
}

func blankNodes(t *FormulationField) Nodes {
	out := make(Nodes, len(t.Nodes))
	for _, n := range t.Nodes {
		fields := make(map[string]string, len(n.Fields))
		for _, f := range n.Fields {
			fields[f.ID] = ""
		}
		out[n.ID] = fields
	}
	return out
}

func nodeHasField(fields []formulation.NodeField, id string) bool {
	for _, f := range fields {
		if f.ID == id {
			return true
		}
	}
	return false
}
