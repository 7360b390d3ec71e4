package worksheet

import "github.com/reoring/worksheet/formulation"

// FieldType discriminates the field variants.
type FieldType string

const (
	TypeText        FieldType = "text"
	TypeTextarea    FieldType = "textarea"
	TypeNumber      FieldType = "number"
	TypeDate        FieldType = "date"
	TypeTime        FieldType = "time"
	TypeSelect      FieldType = "select"
	TypeLikert      FieldType = "likert"
	TypeChecklist   FieldType = "checklist"
	TypeTable       FieldType = "table"
	TypeRecord      FieldType = "record"
	TypeFormulation FieldType = "formulation"
	TypeComputed    FieldType = "computed"
)

// FieldTypes lists the closed set of field variants.
func FieldTypes() []FieldType {
	return []FieldType{
		TypeText, TypeTextarea, TypeNumber, TypeDate, TypeTime, TypeSelect,
		TypeLikert, TypeChecklist, TypeTable, TypeRecord, TypeFormulation, TypeComputed,
	}
}

// Field is the closed sum type of field variants. The unexported marker keeps the set
// closed to this package; evaluators type-switch over the concrete variants.
type Field interface {
	Base() *FieldBase
	Type() FieldType
	isField()
}

// FieldBase carries the attributes shared by every variant.
type FieldBase struct {
	ID          string     `json:"id"`
	Label       string     `json:"label,omitempty"`
	Description string     `json:"description,omitempty"`
	Required    bool       `json:"required,omitempty"`
	ShowWhen    *Predicate `json:"showWhen,omitempty"`
}

func (b *FieldBase) Base() *FieldBase { return b }
func (*FieldBase) isField()           {}

// TextField is a single-line free-text input.
type TextField struct {
	FieldBase
	Placeholder string `json:"placeholder,omitempty"`
}

// TextareaField is a multi-line free-text input.
type TextareaField struct {
	FieldBase
	Placeholder string `json:"placeholder,omitempty"`
}

// NumberField holds a float; Min/Max are inclusive when set.
type NumberField struct {
	FieldBase
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Unit string   `json:"unit,omitempty"`
}

// DateField holds a calendar date (YYYY-MM-DD).
type DateField struct{ FieldBase }

// TimeField holds a wall-clock time (HH:MM).
type TimeField struct{ FieldBase }

// SelectField holds exactly one of Options.
type SelectField struct {
	FieldBase
	Options []string `json:"options"`
}

// LikertField is an integer rating scale. Anchors label selected points; keys are the
// decimal form of a point in [Min, Max].
type LikertField struct {
	FieldBase
	Min     int               `json:"min"`
	Max     int               `json:"max"`
	Anchors map[string]string `json:"anchors,omitempty"`
}

// ChecklistField holds any subset of Options.
type ChecklistField struct {
	FieldBase
	Options []string `json:"options"`
}

// Column is a table column. Type is limited to scalar variants.
type Column struct {
	ID      string    `json:"id"`
	Label   string    `json:"label,omitempty"`
	Type    FieldType `json:"type"`
	Options []string  `json:"options,omitempty"`
}

// TableField is a bounded list of rows sharing Columns. MaxRows 0 means unbounded.
type TableField struct {
	FieldBase
	Columns []Column `json:"columns"`
	MinRows int      `json:"minRows,omitempty"`
	MaxRows int      `json:"maxRows,omitempty"`
}

// SubField is an input inside a record group.
type SubField struct {
	ID      string            `json:"id"`
	Label   string            `json:"label,omitempty"`
	Type    FieldType         `json:"type"`
	Options []string          `json:"options,omitempty"`
	Min     *float64          `json:"min,omitempty"`
	Max     *float64          `json:"max,omitempty"`
	Anchors map[string]string `json:"anchors,omitempty"`
}

// Group is a named column of sub-fields inside a record entry.
type Group struct {
	ID     string     `json:"id"`
	Label  string     `json:"label,omitempty"`
	Fields []SubField `json:"fields"`
}

// RecordField is a paginated, bounded list of structurally identical entries
// (for example a thought record). MaxRecords 0 means unbounded.
type RecordField struct {
	FieldBase
	Groups     []Group `json:"groups"`
	MinRecords int     `json:"minRecords,omitempty"`
	MaxRecords int     `json:"maxRecords,omitempty"`
}

// FormulationField is a spatial diagram following one of the fixed layouts.
type FormulationField struct {
	FieldBase
	Layout      formulation.Layout       `json:"layout"`
	Nodes       []formulation.Node       `json:"nodes"`
	Connections []formulation.Connection `json:"connections,omitempty"`
}

// Operation is a computed-field operation.
type Operation string

const (
	Sum              Operation = "sum"
	Average          Operation = "average"
	Count            Operation = "count"
	Difference       Operation = "difference"
	PercentageChange Operation = "percentage_change"
)

// Valid reports whether op is a known operation.
func (op Operation) Valid() bool {
	switch op {
	case Sum, Average, Count, Difference, PercentageChange:
		return true
	default:
		return false
	}
}

// Binary reports whether the operation reads FieldA and FieldB instead of Field.
func (op Operation) Binary() bool { return op == Difference || op == PercentageChange }

// ComputedField is a read-only projection over table or record values.
// Field, FieldA, FieldB and GroupBy are path references ("table.column").
type ComputedField struct {
	FieldBase
	Operation Operation `json:"operation"`
	Field     string    `json:"field,omitempty"`
	FieldA    string    `json:"fieldA,omitempty"`
	FieldB    string    `json:"fieldB,omitempty"`
	GroupBy   string    `json:"groupBy,omitempty"`
	Precision *int      `json:"precision,omitempty"` // Display decimals; 2 when unset.
}

// UnknownField keeps a field whose type is outside the vocabulary so that
// validation can report it together with every other problem.
type UnknownField struct {
	FieldBase
	TypeName string `json:"-"`
}

func (*TextField) Type() FieldType        { return TypeText }
func (*TextareaField) Type() FieldType    { return TypeTextarea }
func (*NumberField) Type() FieldType      { return TypeNumber }
func (*DateField) Type() FieldType        { return TypeDate }
func (*TimeField) Type() FieldType        { return TypeTime }
func (*SelectField) Type() FieldType      { return TypeSelect }
func (*LikertField) Type() FieldType      { return TypeLikert }
func (*ChecklistField) Type() FieldType   { return TypeChecklist }
func (*TableField) Type() FieldType       { return TypeTable }
func (*RecordField) Type() FieldType      { return TypeRecord }
func (*FormulationField) Type() FieldType { return TypeFormulation }
func (*ComputedField) Type() FieldType    { return TypeComputed }
func (f *UnknownField) Type() FieldType   { return FieldType(f.TypeName) }

// newField returns an empty variant for the discriminator.
func newField(t FieldType) Field {
	switch t {
	case TypeText:
		return &TextField{}
	case TypeTextarea:
		return &TextareaField{}
	case TypeNumber:
		return &NumberField{}
	case TypeDate:
		return &DateField{}
	case TypeTime:
		return &TimeField{}
	case TypeSelect:
		return &SelectField{}
	case TypeLikert:
		return &LikertField{}
	case TypeChecklist:
		return &ChecklistField{}
	case TypeTable:
		return &TableField{}
	case TypeRecord:
		return &RecordField{}
	case TypeFormulation:
		return &FormulationField{}
	case TypeComputed:
		return &ComputedField{}
	default:
		return &UnknownField{TypeName: string(t)}
	}
}

// Column looks up a column by id.
func (f *TableField) Column(id string) (Column, bool) {
	for _, c := range f.Columns {
		if c.ID == id {
			return c, true
		}
	}
	return Column{}, false
}

// Group looks up a group by id.
func (f *RecordField) Group(id string) (Group, bool) {
	for _, g := range f.Groups {
		if g.ID == id {
			return g, true
		}
	}
	return Group{}, false
}

// SubField looks up a sub-field inside a group.
func (g Group) SubField(id string) (SubField, bool) {
	for _, sf := range g.Fields {
		if sf.ID == id {
			return sf, true
		}
	}
	return SubField{}, false
}

// Node looks up a diagram node by id.
func (f *FormulationField) Node(id string) (formulation.Node, bool) {
	for _, n := range f.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return formulation.Node{}, false
}
