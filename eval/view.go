// Package eval produces the resolved view of a worksheet: the stored values, the
// visibility of every section and field, and every computed result. Visibility is
// always resolved before computed fields.
package eval

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/reoring/worksheet"
	"github.com/reoring/worksheet/compute"
	"github.com/reoring/worksheet/i18n"
	"github.com/reoring/worksheet/rules"
)

// View is the read-only state handed to renderers and exporters.
type View struct {
	Values     map[string]worksheet.Value `json:"values"`
	Visibility map[string]bool            `json:"visibility"`
	Computed   map[string]compute.Result  `json:"computed"`
}

// Resolve derives a fresh view from a store.
func Resolve(c *worksheet.Compiled, s *worksheet.Store) View {
	vis := rules.Visibility(c, s)
	return View{
		Values:     s.Values(),
		Visibility: vis,
		Computed:   compute.Resolve(c, s),
	}
}

// Visible reports the visibility of a section or field. Unknown ids are hidden.
func (v View) Visible(id string) bool { return v.Visibility[id] }

// Display renders a field for presentation. Unresolved computed results and
// unanswered inputs use the localized placeholders.
func (v View) Display(id string) string {
	if r, ok := v.Computed[id]; ok {
		if !r.Resolved {
			return i18n.T(i18n.KeyUnresolved, nil)
		}
		return r.Display()
	}
	val, ok := v.Values[id]
	if !ok || worksheet.IsUnanswered(val) {
		return i18n.T(i18n.KeyNotAnswered, nil)
	}
	switch t := val.(type) {
	case worksheet.Rows:
		return plural(len(t), "row")
	case worksheet.Entries:
		return plural(len(t), "entry")
	case worksheet.Nodes:
		var parts []string
		for _, node := range slices.Sorted(maps.Keys(t)) {
			for _, f := range slices.Sorted(maps.Keys(t[node])) {
				if s := strings.TrimSpace(t[node][f]); s != "" {
					parts = append(parts, s)
				}
			}
		}
		return strings.Join(parts, "; ")
	default:
		return worksheet.TextOf(val)
	}
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	if strings.HasSuffix(noun, "y") {
		return fmt.Sprintf("%d %sies", n, strings.TrimSuffix(noun, "y"))
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
