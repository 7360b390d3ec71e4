package worksheet

// Schema is the root of a worksheet definition.
// Version increases with every edit; an assignment pins the version it was started with.
type Schema struct {
	ID         string     `json:"id,omitempty"`
	Title      string     `json:"title,omitempty"`
	Version    int        `json:"version"`
	Repeatable bool       `json:"repeatable,omitempty"`
	MaxEntries int        `json:"maxEntries,omitempty"` // Required (>= 1) when Repeatable.
	Sections   []*Section `json:"sections"`
}

// Section groups fields under a title. A section with no visible fields is not rendered,
// but its values are kept.
type Section struct {
	ID          string     `json:"id"`
	Title       string     `json:"title,omitempty"`
	Description string     `json:"description,omitempty"`
	ShowWhen    *Predicate `json:"showWhen,omitempty"`
	Fields      FieldList  `json:"fields"`
}

// Operator is a visibility predicate operator.
type Operator string

const (
	OpEquals      Operator = "equals"
	OpNotEquals   Operator = "not_equals"
	OpGreaterThan Operator = "greater_than"
	OpLessThan    Operator = "less_than"
	OpNotEmpty    Operator = "not_empty"
	OpEmpty       Operator = "empty"
	OpContains    Operator = "contains"
)

// Valid reports whether op is a known operator.
func (op Operator) Valid() bool {
	switch op {
	case OpEquals, OpNotEquals, OpGreaterThan, OpLessThan, OpNotEmpty, OpEmpty, OpContains:
		return true
	default:
		return false
	}
}

// NeedsValue reports whether the operator compares against Predicate.Value.
func (op Operator) NeedsValue() bool {
	switch op {
	case OpNotEmpty, OpEmpty:
		return false
	default:
		return true
	}
}

// Predicate is a single-field visibility rule.
type Predicate struct {
	Field    string   `json:"field"`
	Operator Operator `json:"operator"`
	Value    any      `json:"value,omitempty"`
	// IgnoreBlankRows makes empty/not_empty treat tables and records whose rows are all
	// blank as empty. By default structural rows count as present.
	IgnoreBlankRows bool `json:"ignoreBlankRows,omitempty"`
}

// Fields iterates over every field of the schema in declaration order.
func (s *Schema) Fields() []Field {
	var out []Field
	for _, sec := range s.Sections {
		if sec == nil {
			continue
		}
		for _, f := range sec.Fields {
			if f != nil {
				out = append(out, f)
			}
		}
	}
	return out
}

// Field looks up a field by its schema-global id.
func (s *Schema) Field(id string) (Field, bool) {
	for _, f := range s.Fields() {
		if f.Base().ID == id {
			return f, true
		}
	}
	return nil, false
}

// Section looks up a section by id.
func (s *Schema) Section(id string) (*Section, bool) {
	for _, sec := range s.Sections {
		if sec != nil && sec.ID == id {
			return sec, true
		}
	}
	return nil, false
}
