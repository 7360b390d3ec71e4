package worksheet

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
)

// FieldList is an ordered list of fields encoded as a JSON array of objects
// discriminated by "type".
type FieldList []Field

// UnmarshalJSON decodes each element into the variant named by its "type".
// Unknown types decode into UnknownField rather than failing.
func (fl *FieldList) UnmarshalJSON(b []byte) error {
	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return err
	}
	out := make(FieldList, 0, len(raws))
	for i, raw := range raws {
		var head struct {
			Type string `json:"type"`
		}
		if err := json.Unmarshal(raw, &head); err != nil {
			return fmt.Errorf("field %d: %w", i, err)
		}
		f := newField(FieldType(head.Type))
		if err := json.Unmarshal(raw, f); err != nil {
			return fmt.Errorf("field %d (%s): %w", i, head.Type, err)
		}
		out = append(out, f)
	}
	*fl = out
	return nil
}

// MarshalJSON encodes every field with its "type" discriminator first.
func (fl FieldList) MarshalJSON() ([]byte, error) {
	buf := &bytes.Buffer{}
	buf.WriteByte('[')
	for i, f := range fl {
		if i > 0 {
			buf.WriteByte(',')
		}
		b, err := MarshalField(f)
		if err != nil {
			return nil, err
		}
		buf.Write(b)
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalField encodes a single field, splicing the discriminator into the object.
func MarshalField(f Field) ([]byte, error) {
	if f == nil {
		return []byte("null"), nil
	}
	body, err := json.Marshal(f)
	if err != nil {
		return nil, err
	}
	typ, err := json.Marshal(string(f.Type()))
	if err != nil {
		return nil, err
	}
	buf := &bytes.Buffer{}
	buf.WriteString(`{"type":`)
	buf.Write(typ)
	if len(body) > 2 {
		buf.WriteByte(',')
		buf.Write(body[1:])
	} else {
		buf.WriteByte('}')
	}
	return buf.Bytes(), nil
}

// UnmarshalSchema decodes a JSON schema document.
func UnmarshalSchema(data []byte) (*Schema, error) {
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("worksheet: decode schema: %w", err)
	}
	return &s, nil
}
