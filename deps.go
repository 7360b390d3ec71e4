package worksheet

import (
	"fmt"
	"strings"

	"github.com/reoring/worksheet/internal/graph"
)

// ComputedRefs holds the parsed, resolved references of a computed field. A reference
// whose Raw is empty is absent.
type ComputedRefs struct {
	Field   PathReference
	A       PathReference
	B       PathReference
	GroupBy PathReference
}

// buildGraph creates the "reads" graph: computed fields read the tables and records they
// reference, and any section or field with a predicate reads the predicate's field.
func buildGraph(s *Schema, fields map[string]Field, refs map[string]ComputedRefs) *graph.Graph {
	g := graph.New()
	for _, sec := range s.Sections {
		if sec == nil {
			continue
		}
		if sec.ID != "" {
			g.AddNode(sec.ID)
			if p := sec.ShowWhen; p != nil {
				if _, ok := fields[p.Field]; ok {
					g.AddEdge(sec.ID, p.Field)
				}
			}
		}
		for _, f := range sec.Fields {
			if f == nil || f.Base().ID == "" {
				continue
			}
			id := f.Base().ID
			g.AddNode(id)
			if r, ok := refs[id]; ok {
				for _, ref := range []PathReference{r.Field, r.A, r.B, r.GroupBy} {
					if ref.Raw != "" {
						if _, ok := fields[ref.Field]; ok {
							g.AddEdge(id, ref.Field)
						}
					}
				}
			}
			if p := f.Base().ShowWhen; p != nil {
				if _, ok := fields[p.Field]; ok {
					g.AddEdge(id, p.Field)
				}
			}
		}
	}
	return g
}

// cycleIssues converts graph cycles into structural issues.
func cycleIssues(g *graph.Graph, locs map[string]PathRef) Issues {
	var out Issues
	for _, cyc := range g.Cycles() {
		head := cyc[0]
		loc, ok := locs[head]
		if !ok {
			loc = Root()
		}
		out = append(out, loc.Issue(head, CodeCycle,
			fmt.Sprintf("dependency cycle: %s", strings.Join(cyc, " -> ")),
			"cycle", cyc))
	}
	return out
}
