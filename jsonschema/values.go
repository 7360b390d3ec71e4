package jsonschema

import (
	"github.com/reoring/worksheet"
)

const (
	datePattern  = `^\d{4}-\d{2}-\d{2}$`
	clockPattern = `^\d{2}:\d{2}(:\d{2})?$`
)

// ForValues describes the value document of a worksheet: one property per input
// field, shaped like the store's JSON encoding. Computed fields are not stored and
// are omitted. Blank text is always allowed so partially completed documents pass.
func ForValues(s *worksheet.Schema) *Schema {
	out := &Schema{
		SchemaURI:            Draft,
		Title:                s.Title,
		Type:                 "object",
		Properties:           map[string]*Schema{},
		AdditionalProperties: false,
	}
	for _, f := range s.Fields() {
		if p := forField(f); p != nil {
			out.Properties[f.Base().ID] = p
		}
	}
	return out
}

func forField(f worksheet.Field) *Schema {
	var out *Schema
	switch t := f.(type) {
	case *worksheet.TextField, *worksheet.TextareaField:
		out = &Schema{Type: "string"}
	case *worksheet.NumberField:
		out = blankOr(&Schema{Type: "number", Minimum: t.Min, Maximum: t.Max})
	case *worksheet.DateField:
		out = blankOr(&Schema{Type: "string", Format: "date", Pattern: datePattern})
	case *worksheet.TimeField:
		out = blankOr(&Schema{Type: "string", Pattern: clockPattern})
	case *worksheet.SelectField:
		out = &Schema{Type: "string", Enum: enum(t.Options, true)}
	case *worksheet.LikertField:
		lo, hi := float64(t.Min), float64(t.Max)
		out = &Schema{Type: "integer", Minimum: &lo, Maximum: &hi}
	case *worksheet.ChecklistField:
		out = &Schema{Type: "array", Items: &Schema{Type: "string", Enum: enum(t.Options, false)}, UniqueItems: true}
	case *worksheet.TableField:
		row := &Schema{Type: "object", Properties: map[string]*Schema{}, AdditionalProperties: false}
		for _, c := range t.Columns {
			row.Properties[c.ID] = forCell(c.Type, c.Options, nil, nil)
		}
		out = &Schema{Type: "array", Items: row, MinItems: bound(t.MinRows), MaxItems: bound(t.MaxRows)}
	case *worksheet.RecordField:
		entry := &Schema{Type: "object", Properties: map[string]*Schema{}, AdditionalProperties: false}
		for _, g := range t.Groups {
			gs := &Schema{Type: "object", Title: g.Label, Properties: map[string]*Schema{}, AdditionalProperties: false}
			for _, sf := range g.Fields {
				gs.Properties[sf.ID] = forCell(sf.Type, sf.Options, sf.Min, sf.Max)
			}
			entry.Properties[g.ID] = gs
		}
		out = &Schema{Type: "array", Items: entry, MinItems: bound(t.MinRecords), MaxItems: bound(t.MaxRecords)}
	case *worksheet.FormulationField:
		nodes := &Schema{Type: "object", Properties: map[string]*Schema{}, AdditionalProperties: false}
		for _, n := range t.Nodes {
			ns := &Schema{Type: "object", Title: n.Label, Properties: map[string]*Schema{}, AdditionalProperties: false}
			for _, nf := range n.Fields {
				ns.Properties[nf.ID] = &Schema{Type: "string", Title: nf.Label}
			}
			nodes.Properties[n.ID] = ns
		}
		out = nodes
	default:
		return nil
	}
	b := f.Base()
	if out.Title == "" {
		out.Title = b.Label
	}
	out.Description = b.Description
	return out
}

func forCell(t worksheet.FieldType, options []string, lo, hi *float64) *Schema {
	switch t {
	case worksheet.TypeNumber:
		return blankOr(&Schema{Type: "number", Minimum: lo, Maximum: hi})
	case worksheet.TypeLikert:
		return &Schema{Type: "integer", Minimum: lo, Maximum: hi}
	case worksheet.TypeSelect:
		return &Schema{Type: "string", Enum: enum(options, true)}
	case worksheet.TypeChecklist:
		return &Schema{Type: "array", Items: &Schema{Type: "string", Enum: enum(options, false)}, UniqueItems: true}
	case worksheet.TypeDate:
		return blankOr(&Schema{Type: "string", Format: "date", Pattern: datePattern})
	case worksheet.TypeTime:
		return blankOr(&Schema{Type: "string", Pattern: clockPattern})
	default:
		return &Schema{Type: "string"}
	}
}

// blankOr accepts s or the empty string.
func blankOr(s *Schema) *Schema {
	return &Schema{OneOf: []*Schema{s, {Type: "string", Enum: []any{""}}}}
}

func enum(options []string, blank bool) []any {
	out := make([]any, 0, len(options)+1)
	if blank {
		out = append(out, "")
	}
	for _, o := range options {
		out = append(out, o)
	}
	return out
}

func bound(n int) *int {
	if n <= 0 {
		return nil
	}
	return &n
}
