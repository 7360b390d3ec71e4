package eval

import (
	"github.com/reoring/worksheet"
	"github.com/reoring/worksheet/i18n"
)

// HiddenPolicy decides whether required fields that are currently hidden must be
// answered before submission.
type HiddenPolicy int

const (
	// SkipHidden ignores hidden required fields.
	SkipHidden HiddenPolicy = iota
	// EnforceHidden requires an answer regardless of visibility.
	EnforceHidden
)

// CheckOpt configures submit validation.
type CheckOpt struct {
	HiddenRequired HiddenPolicy
	FailFast       bool
}

// Check reports every required field that has no answer. Tables and records whose
// rows are all blank count as unanswered.
func Check(c *worksheet.Compiled, s *worksheet.Store, v View, opt CheckOpt) worksheet.Issues {
	var out worksheet.Issues
	for _, f := range c.Fields() {
		b := f.Base()
		if !b.Required || f.Type() == worksheet.TypeComputed {
			continue
		}
		if opt.HiddenRequired == SkipHidden && !v.Visible(b.ID) {
			continue
		}
		val, _ := s.Get(b.ID)
		if !worksheet.IsUnanswered(val) {
			continue
		}
		out = append(out, worksheet.Root().Field(b.ID).Issue(b.ID, worksheet.CodeUnanswered,
			i18n.T(worksheet.CodeUnanswered, map[string]string{"field": b.ID})))
		if opt.FailFast {
			return out
		}
	}
	return out
}
