package worksheet

import "github.com/reoring/worksheet/internal/graph"

// Compiled is a validated schema together with its cached dependency order. It is
// immutable and safe to share between stores, diary entries and concurrent readers.
type Compiled struct {
	schema     *Schema
	fields     map[string]Field
	fieldOrder []string
	sectionOf  map[string]string
	refs       map[string]ComputedRefs
	graph      *graph.Graph
	order      []string
}

// Compile validates s and caches its dependency order. A schema that fails validation
// is never compiled; the returned error is the full Issues list.
func Compile(s *Schema) (*Compiled, error) {
	c, iss := analyze(s)
	if len(iss) > 0 {
		return nil, iss
	}
	return c, nil
}

// MustCompile is Compile for schemas known to be valid, such as test fixtures.
func MustCompile(s *Schema) *Compiled {
	c, err := Compile(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Schema returns the underlying schema. Callers must not modify it.
func (c *Compiled) Schema() *Schema { return c.schema }

// Field looks up a field by id.
func (c *Compiled) Field(id string) (Field, bool) {
	f, ok := c.fields[id]
	return f, ok
}

// Fields returns every field in declaration order.
func (c *Compiled) Fields() []Field {
	out := make([]Field, 0, len(c.fieldOrder))
	for _, id := range c.fieldOrder {
		out = append(out, c.fields[id])
	}
	return out
}

// SectionOf returns the id of the section declaring a field.
func (c *Compiled) SectionOf(fieldID string) string { return c.sectionOf[fieldID] }

// Order returns every section and field id so that each comes after everything it reads.
func (c *Compiled) Order() []string { return append([]string(nil), c.order...) }

// ComputedOrder returns the computed field ids in dependency order.
func (c *Compiled) ComputedOrder() []string {
	var out []string
	for _, id := range c.order {
		if f, ok := c.fields[id]; ok && f.Type() == TypeComputed {
			out = append(out, id)
		}
	}
	return out
}

// Refs returns the resolved references of a computed field.
func (c *Compiled) Refs(id string) (ComputedRefs, bool) {
	r, ok := c.refs[id]
	return r, ok
}

// Reads returns the ids a section or field reads directly.
func (c *Compiled) Reads(id string) []string { return c.graph.Reads(id) }

// Dependents returns every section and field whose visibility or computed value
// transitively reads any of ids.
func (c *Compiled) Dependents(ids ...string) []string { return c.graph.Readers(ids...) }
