// Package rules evaluates showWhen predicates and resolves the visibility of every
// section and field of a worksheet.
package rules

import (
	"github.com/reoring/worksheet"
)

// Condition composes predicates. The zero Condition always holds.
type Condition struct {
	pred *worksheet.Predicate
	all  []Condition // composite AND
	any  []Condition // composite OR
}

// If wraps a single predicate. A nil predicate always holds.
func If(p *worksheet.Predicate) Condition { return Condition{pred: p} }

// IfAll builds a condition that requires all conditions to hold.
func IfAll(conds ...Condition) Condition { return Condition{all: conds} }

// IfAny builds a condition that requires any condition to hold.
func IfAny(conds ...Condition) Condition { return Condition{any: conds} }

// And combines the receiver with additional conditions using logical AND.
func (c Condition) And(others ...Condition) Condition {
	return IfAll(append([]Condition{c}, others...)...)
}

// Or combines the receiver with additional conditions using logical OR.
func (c Condition) Or(others ...Condition) Condition {
	return IfAny(append([]Condition{c}, others...)...)
}

// Holds evaluates the condition against the values of s.
func (c Condition) Holds(s *worksheet.Store) bool {
	if len(c.all) > 0 {
		for _, it := range c.all {
			if !it.Holds(s) {
				return false
			}
		}
		return true
	}
	if len(c.any) > 0 {
		for _, it := range c.any {
			if it.Holds(s) {
				return true
			}
		}
		return false
	}
	if c.pred == nil {
		return true
	}
	v, _ := s.Get(c.pred.Field)
	return Eval(c.pred, v)
}

// Visibility resolves every section and field id. Sections and fields without a
// predicate are visible; a field is visible when its section and its own predicate
// both hold; a section with no visible field is hidden. Values are never touched.
func Visibility(c *worksheet.Compiled, s *worksheet.Store) map[string]bool {
	out := make(map[string]bool)
	for _, sec := range c.Schema().Sections {
		if sec == nil {
			continue
		}
		secOn := If(sec.ShowWhen).Holds(s)
		shown := false
		for _, f := range sec.Fields {
			if f == nil {
				continue
			}
			on := secOn && If(f.Base().ShowWhen).Holds(s)
			out[f.Base().ID] = on
			shown = shown || on
		}
		out[sec.ID] = secOn && shown
	}
	return out
}

// FieldCondition returns the condition deciding whether a field is shown.
func FieldCondition(c *worksheet.Compiled, id string) Condition {
	f, ok := c.Field(id)
	if !ok {
		return Condition{}
	}
	sec, _ := c.Schema().Section(c.SectionOf(id))
	if sec == nil {
		return If(f.Base().ShowWhen)
	}
	return If(sec.ShowWhen).And(If(f.Base().ShowWhen))
}
