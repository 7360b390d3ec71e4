package worksheet

import (
	"errors"
	"fmt"
	"strings"
)

// Issue codes (exported consts for IDE completion and type safety by convention)
const (
	// Structural (schema) codes
	CodeRequired            = "required"
	CodeDuplicateID         = "duplicate_id"
	CodeUnknownType         = "unknown_type"
	CodeUnknownOperation    = "unknown_operation"
	CodeUnknownOperator     = "unknown_operator"
	CodeUnknownLayout       = "unknown_layout"
	CodeInvalidSlot         = "invalid_slot"
	CodeMissingSlot         = "missing_slot"
	CodeInvalidReference    = "invalid_reference"
	CodeUnresolvedReference = "unresolved_reference"
	CodeInvalidRange        = "invalid_range"
	CodeInvalidAnchor       = "invalid_anchor"
	CodeInvalidPredicate    = "invalid_predicate"
	CodeInvalidVersion      = "invalid_version"
	CodeCycle               = "cycle"
	// Value (store) codes
	CodeInvalidType   = "invalid_type"
	CodeUnknownField  = "unknown_field"
	CodeUnknownKey    = "unknown_key"
	CodeReadOnly      = "read_only"
	CodeInvalidEnum   = "invalid_enum"
	CodeInvalidFormat = "invalid_format"
	CodeOutOfRange    = "out_of_range"
	CodeTooFew        = "too_few"
	CodeTooMany       = "too_many"
	CodeIndex         = "index_out_of_range"
	// Document codes
	CodeDuplicateKey = "duplicate_key"
	CodeParse        = "parse_error"
	// Submission codes
	CodeUnanswered = "unanswered"
)

// Issue represents a single validation entry.
type Issue struct {
	FieldID string // Schema-global id of the field or section concerned (empty for schema-level issues).
	Path    string // JSON Pointer into the schema or value document (for example: /sections/0/fields/2).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional: remediation hints, allowed values, etc.
	Cause   error  // Optional: underlying error.
	// Params carries structured parameters (e.g., {"min":1, "max":10, "got":42})
	// for i18n and for builders that highlight offending values.
	Params map[string]any
}

// Issues is a collection of validation errors that implements error.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	n := len(iss)
	lim := n
	if lim > maxShown {
		lim = maxShown
	}
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		// e.g. duplicate_id at /sections/1/fields/0 (mood)
		fmt.Fprintf(b, "%s at %s", it.Code, it.Path)
		if it.FieldID != "" {
			fmt.Fprintf(b, " (%s)", it.FieldID)
		}
	}
	if n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Codes lists the issue codes in order, mostly for tests and logging.
func (iss Issues) Codes() []string {
	out := make([]string, 0, len(iss))
	for _, it := range iss {
		out = append(out, it.Code)
	}
	return out
}

// ForField returns the issues attributed to the given field or section id.
func (iss Issues) ForField(id string) Issues {
	var out Issues
	for _, it := range iss {
		if it.FieldID == id {
			out = append(out, it)
		}
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	dst = append(dst, more...)
	return dst
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries an Issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}
