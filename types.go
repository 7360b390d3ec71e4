package worksheet

// ValidateOpt bundles validation options.
type ValidateOpt struct {
	// FailFast reports only the first issue. Builders normally leave it off so every
	// problem can be highlighted at once.
	FailFast bool
}

// Column and sub-field vocabularies.
var (
	columnTypes   = []FieldType{TypeText, TypeNumber, TypeSelect, TypeDate, TypeTime}
	subFieldTypes = []FieldType{TypeText, TypeNumber, TypeLikert, TypeChecklist, TypeSelect}
)

func allowedType(t FieldType, allowed []FieldType) bool {
	for _, a := range allowed {
		if a == t {
			return true
		}
	}
	return false
}
