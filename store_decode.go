package worksheet

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// UnmarshalValues decodes a JSON object keyed by field id into a store. Numbers are
// kept as json.Number until they reach a typed cell.
func UnmarshalValues(c *Compiled, data []byte) (*Store, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, Issues{{Path: "/", Code: CodeInvalidFormat, Message: "values must be a JSON object", Cause: err}}
	}
	return DecodeValues(c, doc)
}

// DecodeValues converts a generic document (as produced by a JSON or YAML decoder)
// into a store. Absent fields keep their defaults. Every problem is collected; on
// failure no store is returned.
func DecodeValues(c *Compiled, doc map[string]any) (*Store, error) {
	s := NewStore(c)
	var iss Issues
	for _, id := range sortedKeys(doc) {
		f, err := s.input(id)
		if err != nil {
			iss = append(iss, err.(Issues)...)
			continue
		}
		p := Root().Field(id)
		v, ci := valueFromAny(f, doc[id], p)
		if len(ci) > 0 {
			iss = append(iss, ci...)
			continue
		}
		norm, ci := conform(f, v, p)
		if len(ci) > 0 {
			iss = append(iss, ci...)
			continue
		}
		s.values[id] = norm
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return s, nil
}

func valueFromAny(f Field, raw any, p PathRef) (Value, Issues) {
	id := f.Base().ID
	bad := func(p PathRef, want string) Issues {
		return Issues{p.Issue(id, CodeInvalidType, fmt.Sprintf("expected %s, got %T", want, raw), "expected", want)}
	}
	switch f.(type) {
	case *TableField:
		items, ok := raw.([]any)
		if !ok {
			return nil, bad(p, "array of rows")
		}
		rows := make(Rows, 0, len(items))
		var iss Issues
		for i, it := range items {
			r, ri := rowFromAny(id, it, p.Index(i))
			iss = append(iss, ri...)
			rows = append(rows, r)
		}
		return rows, iss
	case *RecordField:
		items, ok := raw.([]any)
		if !ok {
			return nil, bad(p, "array of entries")
		}
		entries := make(Entries, 0, len(items))
		var iss Issues
		for i, it := range items {
			obj, ok := asObject(it)
			if !ok {
				iss = append(iss, p.Index(i).Issue(id, CodeInvalidType, "entry must be an object"))
				continue
			}
			e := make(Entry, len(obj))
			for _, gid := range sortedKeys(obj) {
				r, ri := rowFromAny(id, obj[gid], p.Index(i).Field(gid))
				iss = append(iss, ri...)
				e[gid] = r
			}
			entries = append(entries, e)
		}
		return entries, iss
	case *FormulationField:
		obj, ok := asObject(raw)
		if !ok {
			return nil, bad(p, "object of nodes")
		}
		nodes := make(Nodes, len(obj))
		var iss Issues
		for _, nid := range sortedKeys(obj) {
			fields, ok := asObject(obj[nid])
			if !ok {
				iss = append(iss, p.Field(nid).Issue(id, CodeInvalidType, "node must be an object"))
				continue
			}
			m := make(map[string]string, len(fields))
			for _, k := range sortedKeys(fields) {
				s, ok := fields[k].(string)
				if !ok {
					iss = append(iss, p.Field(nid).Field(k).Issue(id, CodeInvalidType, "node fields hold text"))
					continue
				}
				m[k] = s
			}
			nodes[nid] = m
		}
		return nodes, iss
	default:
		v, ok := cellFromAny(raw)
		if !ok {
			return nil, bad(p, string(f.Type()))
		}
		return v, nil
	}
}

func rowFromAny(id string, raw any, p PathRef) (Row, Issues) {
	obj, ok := asObject(raw)
	if !ok {
		return nil, Issues{p.Issue(id, CodeInvalidType, "row must be an object")}
	}
	r := make(Row, len(obj))
	var iss Issues
	for _, k := range sortedKeys(obj) {
		v, ok := cellFromAny(obj[k])
		if !ok {
			iss = append(iss, p.Field(k).Issue(id, CodeInvalidType, fmt.Sprintf("unsupported cell value %T", obj[k])))
			continue
		}
		r[k] = v
	}
	return r, iss
}

// cellFromAny maps a decoded scalar onto a Value. null becomes blank text.
func cellFromAny(raw any) (Value, bool) {
	switch t := raw.(type) {
	case nil:
		return Text(""), true
	case string:
		return Text(t), true
	case []any:
		l := make(List, 0, len(t))
		for _, it := range t {
			s, ok := it.(string)
			if !ok {
				return nil, false
			}
			l = append(l, s)
		}
		return l, true
	case []string:
		return append(List(nil), t...), true
	}
	if f, ok := LiteralNumber(raw); ok {
		return Number(f), true
	}
	return nil, false
}

func asObject(raw any) (map[string]any, bool) {
	switch t := raw.(type) {
	case map[string]any:
		return t, true
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, v := range t {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = v
		}
		return out, true
	default:
		return nil, false
	}
}
