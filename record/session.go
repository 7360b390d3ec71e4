// Package record manages paginated editing of a record field: a list of entries
// with a single focused entry. Sessions are values; every transition returns a new
// Session and leaves the receiver usable.
package record

import (
	"fmt"

	"github.com/reoring/worksheet"
)

// Session focuses one entry of a record field inside a store.
type Session struct {
	store   *worksheet.Store
	field   *worksheet.RecordField
	current int
}

// Open starts a session on a record field with focus on the first entry.
func Open(s *worksheet.Store, fieldID string) (Session, error) {
	f, ok := s.Compiled().Field(fieldID)
	if !ok {
		return Session{}, worksheet.Issues{worksheet.Root().Field(fieldID).Issue(fieldID, worksheet.CodeUnknownField,
			fmt.Sprintf("schema has no field %q", fieldID))}
	}
	rf, ok := f.(*worksheet.RecordField)
	if !ok {
		return Session{}, worksheet.Issues{worksheet.Root().Field(fieldID).Issue(fieldID, worksheet.CodeInvalidType,
			fmt.Sprintf("field %q is a %s, not a record", fieldID, f.Type()))}
	}
	return Session{store: s, field: rf}, nil
}

// Store returns the store the session currently edits.
func (s Session) Store() *worksheet.Store { return s.store }

// FieldID returns the id of the record field.
func (s Session) FieldID() string { return s.field.ID }

// Len returns the number of entries.
func (s Session) Len() int { return s.store.Len(s.field.ID) }

// CurrentIndex returns the focused entry index. It is 0 when the record is empty.
func (s Session) CurrentIndex() int { return s.current }

// Current returns a copy of the focused entry, or false when there are no entries.
func (s Session) Current() (worksheet.Entry, bool) {
	v, _ := s.store.Get(s.field.ID)
	entries, _ := v.(worksheet.Entries)
	if s.current < 0 || s.current >= len(entries) {
		return nil, false
	}
	return entries[s.current], true
}

// CanAdd reports whether another entry fits under MaxRecords.
func (s Session) CanAdd() bool {
	return s.field.MaxRecords == 0 || s.Len() < s.field.MaxRecords
}

// CanRemove reports whether an entry can be removed without going below MinRecords.
func (s Session) CanRemove() bool {
	return s.Len() > 0 && s.Len() > s.field.MinRecords
}

// AddEntry appends a blank entry and focuses it.
func (s Session) AddEntry() (Session, error) {
	next, err := s.store.AddEntry(s.field.ID)
	if err != nil {
		return s, err
	}
	s.store = next
	s.current = next.Len(s.field.ID) - 1
	return s, nil
}

// RemoveEntry deletes entry i. Focus follows the entry it was on; when that entry is
// the one removed, focus stays on the same index, clamped to the new last entry.
func (s Session) RemoveEntry(i int) (Session, error) {
	next, err := s.store.RemoveEntry(s.field.ID, i)
	if err != nil {
		return s, err
	}
	s.store = next
	if i < s.current {
		s.current--
	}
	s.current = max(0, min(s.current, next.Len(s.field.ID)-1))
	return s, nil
}

// SetCurrentIndex moves the focus.
func (s Session) SetCurrentIndex(i int) (Session, error) {
	if i < 0 || i >= s.Len() {
		return s, worksheet.Issues{worksheet.Root().Field(s.field.ID).Index(i).Issue(s.field.ID, worksheet.CodeIndex,
			fmt.Sprintf("entry %d does not exist", i), "len", s.Len())}
	}
	s.current = i
	return s, nil
}

// SetSubfieldValue writes one sub-field of entry i.
func (s Session) SetSubfieldValue(entry int, group, subfield string, v worksheet.Value) (Session, error) {
	next, err := s.store.SetSubfield(s.field.ID, entry, group, subfield, v)
	if err != nil {
		return s, err
	}
	s.store = next
	return s, nil
}

// SetCurrent writes one sub-field of the focused entry.
func (s Session) SetCurrent(group, subfield string, v worksheet.Value) (Session, error) {
	return s.SetSubfieldValue(s.current, group, subfield, v)
}
