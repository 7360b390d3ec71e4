package eval

import (
	"log/slog"
	"maps"
	"slices"

	"github.com/reoring/worksheet"
	"github.com/reoring/worksheet/compute"
	"github.com/reoring/worksheet/rules"
)

// Options configures an Engine.
type Options struct {
	// Logger receives debug records about each refresh. nil discards them.
	Logger *slog.Logger
}

// Engine resolves views for one compiled schema and refreshes them incrementally
// after a store transition.
type Engine struct {
	c   *worksheet.Compiled
	log *slog.Logger
}

// New returns an engine for c.
func New(c *worksheet.Compiled, opt Options) *Engine {
	log := opt.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	return &Engine{c: c, log: log.With("schema", c.Schema().ID, "version", c.Schema().Version)}
}

// Compiled returns the schema the engine evaluates.
func (e *Engine) Compiled() *worksheet.Compiled { return e.c }

// Resolve derives a full view.
func (e *Engine) Resolve(s *worksheet.Store) View {
	v := Resolve(e.c, s)
	e.log.Debug("resolved view", "fields", len(v.Values), "computed", len(v.Computed))
	return v
}

// Refresh updates prev, the view of old, to the view of next. Only sections and
// fields that transitively read a changed value are re-evaluated; visibility is
// refreshed before computed results.
func (e *Engine) Refresh(prev View, old, next *worksheet.Store) View {
	changed := worksheet.Diff(old, next)
	out := View{
		Values:     next.Values(),
		Visibility: maps.Clone(prev.Visibility),
		Computed:   maps.Clone(prev.Computed),
	}
	if out.Visibility == nil {
		out.Visibility = map[string]bool{}
	}
	if out.Computed == nil {
		out.Computed = map[string]compute.Result{}
	}
	if len(changed) == 0 {
		return out
	}
	deps := e.c.Dependents(changed...)

	sections := map[string]bool{}
	for _, id := range deps {
		if _, ok := e.c.Schema().Section(id); ok {
			sections[id] = true
		} else if f, ok := e.c.Field(id); ok && f.Base().ShowWhen != nil {
			sections[e.c.SectionOf(id)] = true
		}
	}
	for _, sec := range e.c.Schema().Sections {
		if sec == nil || !sections[sec.ID] {
			continue
		}
		secOn := rules.If(sec.ShowWhen).Holds(next)
		shown := false
		for _, f := range sec.Fields {
			if f == nil {
				continue
			}
			on := secOn && rules.If(f.Base().ShowWhen).Holds(next)
			out.Visibility[f.Base().ID] = on
			shown = shown || on
		}
		out.Visibility[sec.ID] = secOn && shown
	}

	var recomputed []string
	for _, id := range e.c.ComputedOrder() {
		if slices.Contains(deps, id) {
			out.Computed[id] = compute.Field(e.c, next, id)
			recomputed = append(recomputed, id)
		}
	}
	e.log.Debug("refreshed view", "changed", changed, "sections", len(sections), "computed", recomputed)
	return out
}
