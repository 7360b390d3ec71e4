package worksheet

import (
	"fmt"
	"strings"
)

// PathReference is a parsed "<table-or-record>.<column-or-subfield>" reference.
// Records also accept "<record>.<group>.<subfield>"; after compilation Group is always
// set for record references.
type PathReference struct {
	Raw   string
	Field string
	Group string
	Key   string
}

func (p PathReference) String() string { return p.Raw }

// ParsePath parses a path reference. It only checks syntax; resolution against a
// schema happens during validation.
func ParsePath(raw string) (PathReference, error) {
	parts := strings.Split(raw, ".")
	for _, p := range parts {
		if strings.TrimSpace(p) == "" {
			return PathReference{}, fmt.Errorf("path %q has an empty segment", raw)
		}
	}
	switch len(parts) {
	case 2:
		return PathReference{Raw: raw, Field: parts[0], Key: parts[1]}, nil
	case 3:
		return PathReference{Raw: raw, Field: parts[0], Group: parts[1], Key: parts[2]}, nil
	default:
		return PathReference{}, fmt.Errorf("path %q must have the form field.column or record.group.subfield", raw)
	}
}

// resolvePath checks a parsed reference against a table or record field and fills Group
// for two-part record references. The returned string explains a failure.
func resolvePath(fields map[string]Field, ref PathReference) (PathReference, FieldType, string) {
	f, ok := fields[ref.Field]
	if !ok {
		return ref, "", fmt.Sprintf("field %q does not exist", ref.Field)
	}
	switch t := f.(type) {
	case *TableField:
		if ref.Group != "" {
			return ref, "", fmt.Sprintf("table %q has no groups; use %s.<column>", ref.Field, ref.Field)
		}
		col, ok := t.Column(ref.Key)
		if !ok {
			return ref, "", fmt.Sprintf("table %q has no column %q", ref.Field, ref.Key)
		}
		return ref, col.Type, ""
	case *RecordField:
		if ref.Group != "" {
			g, ok := t.Group(ref.Group)
			if !ok {
				return ref, "", fmt.Sprintf("record %q has no group %q", ref.Field, ref.Group)
			}
			sf, ok := g.SubField(ref.Key)
			if !ok {
				return ref, "", fmt.Sprintf("group %q of record %q has no sub-field %q", ref.Group, ref.Field, ref.Key)
			}
			return ref, sf.Type, ""
		}
		var found []string
		var typ FieldType
		for _, g := range t.Groups {
			if sf, ok := g.SubField(ref.Key); ok {
				found = append(found, g.ID)
				typ = sf.Type
			}
		}
		switch len(found) {
		case 0:
			return ref, "", fmt.Sprintf("record %q has no sub-field %q", ref.Field, ref.Key)
		case 1:
			ref.Group = found[0]
			return ref, typ, ""
		default:
			return ref, "", fmt.Sprintf("sub-field %q is ambiguous in record %q (groups %s); use %s.<group>.%s",
				ref.Key, ref.Field, strings.Join(found, ", "), ref.Field, ref.Key)
		}
	case *ComputedField:
		return ref, "", fmt.Sprintf("computed field %q cannot be referenced", ref.Field)
	default:
		return ref, "", fmt.Sprintf("field %q is a %s; only table and record fields can be referenced", ref.Field, f.Type())
	}
}

// Cells returns the cell addressed by the reference in each row or entry of a table
// or record value, in order. A missing cell is reported as nil.
func (p PathReference) Cells(v Value) []Value {
	switch t := v.(type) {
	case Rows:
		out := make([]Value, len(t))
		for i, r := range t {
			out[i] = r[p.Key]
		}
		return out
	case Entries:
		out := make([]Value, len(t))
		for i, e := range t {
			if g, ok := e[p.Group]; ok {
				out[i] = g[p.Key]
			}
		}
		return out
	default:
		return nil
	}
}
