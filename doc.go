// Package worksheet provides:
//
// - A versioned, declarative worksheet schema (sections, fields, tables, paginated records,
//   formulation diagrams and computed values) expressed as a closed set of field variants
// - A collect-all validator reporting every structural problem as Issues (JSON Pointer, code, message)
// - A dependency graph over computed references and visibility predicates, compiled once per schema
// - An immutable value store whose Set/AddRow/AddEntry transitions return new stores
//
// Design policy:
// - Keep the schema model, validation and the value store in the root package.
// - Put evaluators in subpackages: computed fields under compute/, visibility under rules/,
//   the resolved view under eval/, record pagination under record/, diagram topology under
//   formulation/ and repeated completions under diary/.
// - Prefer black-box testing against public APIs.
//
// Typical usage:
//
//	c, err := source.LoadSchema("worksheet.yaml") // or worksheet.Compile(schema)
//	st := worksheet.NewStore(c)
//	st, err = st.Set("mood", worksheet.Number(6))
//	v := eval.Resolve(c, st)
package worksheet
