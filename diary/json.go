package diary

import (
	"bytes"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/reoring/worksheet"
	"github.com/reoring/worksheet/codec"
)

type entryDoc struct {
	ID          string          `json:"id"`
	StartedAt   string          `json:"startedAt"`
	CompletedAt string          `json:"completedAt,omitempty"`
	Values      json.RawMessage `json:"values"`
}

type envelopeDoc struct {
	Schema  string     `json:"schema,omitempty"`
	Version int        `json:"version"`
	Entries []entryDoc `json:"entries"`
}

// MarshalJSON writes the envelope with RFC3339 UTC timestamps.
func (e *Envelope) MarshalJSON() ([]byte, error) {
	ts := codec.Timestamp()
	doc := envelopeDoc{Schema: e.c.Schema().ID, Version: e.c.Schema().Version, Entries: make([]entryDoc, 0, len(e.entries))}
	for _, en := range e.entries {
		started, err := ts.Encode(en.StartedAt)
		if err != nil {
			return nil, fmt.Errorf("diary: entry %s: %w", en.ID, err)
		}
		d := entryDoc{ID: en.ID.String(), StartedAt: started}
		if en.Completed() {
			if d.CompletedAt, err = ts.Encode(en.CompletedAt); err != nil {
				return nil, fmt.Errorf("diary: entry %s: %w", en.ID, err)
			}
		}
		if d.Values, err = en.Values.MarshalJSON(); err != nil {
			return nil, fmt.Errorf("diary: entry %s: %w", en.ID, err)
		}
		doc.Entries = append(doc.Entries, d)
	}
	return json.Marshal(doc)
}

// Unmarshal reads an envelope written by MarshalJSON. The document must have been
// written for the same schema version; values are checked against c.
func Unmarshal(c *worksheet.Compiled, data []byte) (*Envelope, error) {
	if !c.Schema().Repeatable {
		return nil, ErrNotRepeatable
	}
	var doc envelopeDoc
	if err := json.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("diary: decode: %w", err)
	}
	if doc.Version != c.Schema().Version {
		return nil, worksheet.Issues{{Path: "/version", Code: worksheet.CodeInvalidVersion,
			Message: fmt.Sprintf("diary was written for version %d, schema is version %d", doc.Version, c.Schema().Version)}}
	}
	if limit := c.Schema().MaxEntries; limit > 0 && len(doc.Entries) > limit {
		return nil, worksheet.Issues{{Path: "/entries", Code: worksheet.CodeTooMany,
			Message: fmt.Sprintf("diary holds %d entries, at most %d allowed", len(doc.Entries), limit)}}
	}
	ts := codec.Timestamp()
	env := &Envelope{c: c}
	var iss worksheet.Issues
	for i, d := range doc.Entries {
		p := worksheet.Root().Field("entries").Index(i)
		id, err := uuid.Parse(d.ID)
		if err != nil {
			iss = append(iss, worksheet.Issue{Path: p.Field("id").Pointer(), Code: worksheet.CodeInvalidFormat,
				Message: "entry id is not a UUID", Cause: err})
			continue
		}
		en := Entry{ID: id}
		if en.StartedAt, err = ts.Decode(d.StartedAt); err != nil {
			iss = append(iss, worksheet.Issue{Path: p.Field("startedAt").Pointer(), Code: worksheet.CodeInvalidFormat,
				Message: err.Error(), Cause: err})
			continue
		}
		if d.CompletedAt != "" {
			if en.CompletedAt, err = ts.Decode(d.CompletedAt); err != nil {
				iss = append(iss, worksheet.Issue{Path: p.Field("completedAt").Pointer(), Code: worksheet.CodeInvalidFormat,
					Message: err.Error(), Cause: err})
				continue
			}
		}
		values := d.Values
		if len(values) == 0 || string(values) == "null" {
			values = []byte("{}")
		}
		s, err := worksheet.UnmarshalValues(c, values)
		if err != nil {
			if vi, ok := worksheet.AsIssues(err); ok {
				base := p.Field("values").Pointer()
				for _, it := range vi {
					if it.Path == "/" {
						it.Path = base
					} else {
						it.Path = base + it.Path
					}
					iss = append(iss, it)
				}
				continue
			}
			return nil, err
		}
		en.Values = s
		env.entries = append(env.entries, en)
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return env, nil
}
