package worksheet

import (
	"fmt"

	"github.com/goccy/go-json"
)

// Store maps field ids to their current values. It is immutable: every transition
// returns a new Store and leaves the receiver untouched, so a caller can keep the
// previous generation around for diffing or undo. Computed fields never appear.
type Store struct {
	c      *Compiled
	values map[string]Value
}

// NewStore builds the initial store for a compiled schema. Every input field gets its
// blank default: empty text, the scale minimum for likert, an empty list for
// checklists, MinRows blank rows, MinRecords blank entries and a blank diagram.
func NewStore(c *Compiled) *Store {
	vals := make(map[string]Value, len(c.fieldOrder))
	for _, f := range c.Fields() {
		if d, ok := defaultValue(f); ok {
			vals[f.Base().ID] = d
		}
	}
	return &Store{c: c, values: vals}
}

func defaultValue(f Field) (Value, bool) {
	switch t := f.(type) {
	case *TextField, *TextareaField, *NumberField, *DateField, *TimeField, *SelectField:
		return Text(""), true
	case *LikertField:
		return Number(t.Min), true
	case *ChecklistField:
		return List{}, true
	case *TableField:
		rows := make(Rows, t.MinRows)
		for i := range rows {
			rows[i] = blankTableRow(t)
		}
		return rows, true
	case *RecordField:
		entries := make(Entries, t.MinRecords)
		for i := range entries {
			entries[i] = blankEntry(t)
		}
		return entries, true
	case *FormulationField:
		return blankNodes(t), true
	default:
		return nil, false
	}
}

// Compiled returns the schema the store conforms to.
func (s *Store) Compiled() *Compiled { return s.c }

// Get returns a copy of the value of an input field.
func (s *Store) Get(id string) (Value, bool) {
	v, ok := s.values[id]
	if !ok {
		return nil, false
	}
	return Clone(v), true
}

// Values returns a deep copy of every stored value keyed by field id.
func (s *Store) Values() map[string]Value {
	out := make(map[string]Value, len(s.values))
	for k, v := range s.values {
		out[k] = Clone(v)
	}
	return out
}

// Len reports the number of rows of a table, entries of a record or items of a
// checklist. Other fields report 0.
func (s *Store) Len(id string) int {
	switch t := s.values[id].(type) {
	case Rows:
		return len(t)
	case Entries:
		return len(t)
	case List:
		return len(t)
	default:
		return 0
	}
}

// Set replaces the value of a field. The value must conform to the field; on failure
// the error is an Issues list and the receiver is the only valid store.
func (s *Store) Set(id string, v Value) (*Store, error) {
	f, err := s.input(id)
	if err != nil {
		return nil, err
	}
	norm, iss := conform(f, v, Root().Field(id))
	if len(iss) > 0 {
		return nil, iss
	}
	return s.with(id, norm), nil
}

// SetCell sets one cell of a table row.
func (s *Store) SetCell(id string, row int, column string, v Value) (*Store, error) {
	t, rows, err := s.table(id)
	if err != nil {
		return nil, err
	}
	p := Root().Field(id)
	if row < 0 || row >= len(rows) {
		return nil, valueIssue(p.Index(row), id, CodeIndex, fmt.Sprintf("row %d does not exist", row), "len", len(rows))
	}
	col, ok := t.Column(column)
	if !ok {
		return nil, valueIssue(p.Index(row).Field(column), id, CodeUnknownKey, fmt.Sprintf("table has no column %q", column))
	}
	if v == nil {
		return nil, valueIssue(p.Index(row).Field(column), id, CodeInvalidType, "value is null")
	}
	if iss := specOfColumn(col).conformCell(p.Index(row).Field(column), id, v); len(iss) > 0 {
		return nil, iss
	}
	next := Clone(rows).(Rows)
	next[row][column] = cellValue(v)
	return s.with(id, next), nil
}

// AddRow appends a blank row to a table. It fails with too_many at MaxRows.
func (s *Store) AddRow(id string) (*Store, error) {
	t, rows, err := s.table(id)
	if err != nil {
		return nil, err
	}
	if t.MaxRows > 0 && len(rows) >= t.MaxRows {
		return nil, valueIssue(Root().Field(id), id, CodeTooMany,
			fmt.Sprintf("table already has the maximum of %d rows", t.MaxRows), "max", t.MaxRows)
	}
	next := append(Clone(rows).(Rows), blankTableRow(t))
	return s.with(id, next), nil
}

// RemoveRow deletes the row at index i. It fails with too_few at MinRows.
func (s *Store) RemoveRow(id string, i int) (*Store, error) {
	t, rows, err := s.table(id)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(rows) {
		return nil, valueIssue(Root().Field(id).Index(i), id, CodeIndex, fmt.Sprintf("row %d does not exist", i), "len", len(rows))
	}
	if len(rows) <= t.MinRows {
		return nil, valueIssue(Root().Field(id), id, CodeTooFew,
			fmt.Sprintf("table needs at least %d rows", t.MinRows), "min", t.MinRows)
	}
	next := Clone(rows).(Rows)
	next = append(next[:i], next[i+1:]...)
	return s.with(id, next), nil
}

// AddEntry appends a blank entry to a record. It fails with too_many at MaxRecords.
func (s *Store) AddEntry(id string) (*Store, error) {
	t, entries, err := s.record(id)
	if err != nil {
		return nil, err
	}
	if t.MaxRecords > 0 && len(entries) >= t.MaxRecords {
		return nil, valueIssue(Root().Field(id), id, CodeTooMany,
			fmt.Sprintf("record already has the maximum of %d entries", t.MaxRecords), "max", t.MaxRecords)
	}
	next := append(Clone(entries).(Entries), blankEntry(t))
	return s.with(id, next), nil
}

// RemoveEntry deletes the entry at index i. It fails with too_few at MinRecords.
func (s *Store) RemoveEntry(id string, i int) (*Store, error) {
	t, entries, err := s.record(id)
	if err != nil {
		return nil, err
	}
	if i < 0 || i >= len(entries) {
		return nil, valueIssue(Root().Field(id).Index(i), id, CodeIndex, fmt.Sprintf("entry %d does not exist", i), "len", len(entries))
	}
	if len(entries) <= t.MinRecords {
		return nil, valueIssue(Root().Field(id), id, CodeTooFew,
			fmt.Sprintf("record needs at least %d entries", t.MinRecords), "min", t.MinRecords)
	}
	next := Clone(entries).(Entries)
	next = append(next[:i], next[i+1:]...)
	return s.with(id, next), nil
}

// SetSubfield sets one sub-field of one group of a record entry.
func (s *Store) SetSubfield(id string, entry int, group, sub string, v Value) (*Store, error) {
	t, entries, err := s.record(id)
	if err != nil {
		return nil, err
	}
	p := Root().Field(id)
	if entry < 0 || entry >= len(entries) {
		return nil, valueIssue(p.Index(entry), id, CodeIndex, fmt.Sprintf("entry %d does not exist", entry), "len", len(entries))
	}
	g, ok := t.Group(group)
	if !ok {
		return nil, valueIssue(p.Index(entry).Field(group), id, CodeUnknownKey, fmt.Sprintf("record has no group %q", group))
	}
	sf, ok := g.SubField(sub)
	cp := p.Index(entry).Field(group).Field(sub)
	if !ok {
		return nil, valueIssue(cp, id, CodeUnknownKey, fmt.Sprintf("group %q has no sub-field %q", group, sub))
	}
	if v == nil {
		return nil, valueIssue(cp, id, CodeInvalidType, "value is null")
	}
	if iss := specOfSubField(sf).conformCell(cp, id, v); len(iss) > 0 {
		return nil, iss
	}
	next := Clone(entries).(Entries)
	if next[entry][group] == nil {
		next[entry][group] = Row{}
	}
	next[entry][group][sub] = cellValue(v)
	return s.with(id, next), nil
}

// SetNodeField sets the text of one input inside a formulation node.
func (s *Store) SetNodeField(id, node, field, text string) (*Store, error) {
	f, err := s.input(id)
	if err != nil {
		return nil, err
	}
	t, ok := f.(*FormulationField)
	p := Root().Field(id)
	if !ok {
		return nil, valueIssue(p, id, CodeInvalidType, fmt.Sprintf("field %q is a %s, not a formulation", id, f.Type()))
	}
	n, ok := t.Node(node)
	if !ok {
		return nil, valueIssue(p.Field(node), id, CodeUnknownKey, fmt.Sprintf("diagram has no node %q", node))
	}
	if !nodeHasField(n.Fields, field) {
		return nil, valueIssue(p.Field(node).Field(field), id, CodeUnknownKey, fmt.Sprintf("node %q has no field %q", node, field))
	}
	next := Clone(s.values[id]).(Nodes)
	if next[node] == nil {
		next[node] = map[string]string{}
	}
	next[node][field] = text
	return s.with(id, next), nil
}

// Diff returns, in declaration order, the ids of input fields whose values differ
// between a and b. Both stores must share a compiled schema.
func Diff(a, b *Store) []string {
	var out []string
	for _, id := range a.c.fieldOrder {
		va, oka := a.values[id]
		vb, okb := b.values[id]
		if oka != okb || (oka && !Equal(va, vb)) {
			out = append(out, id)
		}
	}
	return out
}

// MarshalJSON writes the store as a JSON object keyed by field id.
func (s *Store) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.values)
}

func (s *Store) with(id string, v Value) *Store {
	vals := make(map[string]Value, len(s.values))
	for k, old := range s.values {
		vals[k] = old
	}
	vals[id] = v
	return &Store{c: s.c, values: vals}
}

func (s *Store) input(id string) (Field, error) {
	f, ok := s.c.Field(id)
	if !ok {
		it := Root().Field(id).Issue(id, CodeUnknownField, fmt.Sprintf("schema has no field %q", id))
		it.Hint = didYouMean(id, s.c.fieldOrder)
		return nil, Issues{it}
	}
	if f.Type() == TypeComputed {
		return nil, valueIssue(Root().Field(id), id, CodeReadOnly, "computed fields are derived and cannot be set")
	}
	return f, nil
}

func (s *Store) table(id string) (*TableField, Rows, error) {
	f, err := s.input(id)
	if err != nil {
		return nil, nil, err
	}
	t, ok := f.(*TableField)
	if !ok {
		return nil, nil, valueIssue(Root().Field(id), id, CodeInvalidType, fmt.Sprintf("field %q is a %s, not a table", id, f.Type()))
	}
	rows, _ := s.values[id].(Rows)
	return t, rows, nil
}

func (s *Store) record(id string) (*RecordField, Entries, error) {
	f, err := s.input(id)
	if err != nil {
		return nil, nil, err
	}
	t, ok := f.(*RecordField)
	if !ok {
		return nil, nil, valueIssue(Root().Field(id), id, CodeInvalidType, fmt.Sprintf("field %q is a %s, not a record", id, f.Type()))
	}
	entries, _ := s.values[id].(Entries)
	return t, entries, nil
}
