// Package diary wraps a repeatable worksheet into an envelope of independent entries
// that share one compiled schema. Each entry owns its own value store.
package diary

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/reoring/worksheet"
	"github.com/reoring/worksheet/eval"
)

// ErrNotRepeatable is returned when a diary is opened on a single-entry schema.
var ErrNotRepeatable = errors.New("diary: schema is not repeatable")

// Entry is one completion of the worksheet.
type Entry struct {
	ID          uuid.UUID
	StartedAt   time.Time
	CompletedAt time.Time // zero until completed
	Values      *worksheet.Store
}

// Completed reports whether the entry has been marked complete.
func (e Entry) Completed() bool { return !e.CompletedAt.IsZero() }

// Envelope is an ordered, bounded list of entries. Transitions return a new envelope.
type Envelope struct {
	c       *worksheet.Compiled
	entries []Entry
}

// New opens an envelope. With seed the envelope starts with one blank entry.
func New(c *worksheet.Compiled, seed bool) (*Envelope, error) {
	if !c.Schema().Repeatable {
		return nil, ErrNotRepeatable
	}
	env := &Envelope{c: c}
	if seed {
		return env.Add(time.Now())
	}
	return env, nil
}

// Compiled returns the shared schema.
func (e *Envelope) Compiled() *worksheet.Compiled { return e.c }

// MaxEntries returns the entry limit of the schema.
func (e *Envelope) MaxEntries() int { return e.c.Schema().MaxEntries }

// Len returns the number of entries.
func (e *Envelope) Len() int { return len(e.entries) }

// Entries returns the entries in order.
func (e *Envelope) Entries() []Entry { return append([]Entry(nil), e.entries...) }

// Entry returns entry i.
func (e *Envelope) Entry(i int) (Entry, bool) {
	if i < 0 || i >= len(e.entries) {
		return Entry{}, false
	}
	return e.entries[i], true
}

// Add appends a blank entry started at now. It fails with too_many once the
// envelope holds MaxEntries entries.
func (e *Envelope) Add(now time.Time) (*Envelope, error) {
	if limit := e.MaxEntries(); limit > 0 && len(e.entries) >= limit {
		return nil, worksheet.Issues{worksheet.Root().Field("entries").Issue("", worksheet.CodeTooMany,
			fmt.Sprintf("diary already holds the maximum of %d entries", limit), "max", limit)}
	}
	entry := Entry{ID: uuid.New(), StartedAt: now.UTC(), Values: worksheet.NewStore(e.c)}
	return e.with(append(e.Entries(), entry)), nil
}

// Remove deletes entry i.
func (e *Envelope) Remove(i int) (*Envelope, error) {
	if err := e.check(i); err != nil {
		return nil, err
	}
	next := e.Entries()
	return e.with(append(next[:i], next[i+1:]...)), nil
}

// Update replaces the values of entry i. The store must belong to the same schema.
func (e *Envelope) Update(i int, s *worksheet.Store) (*Envelope, error) {
	if err := e.check(i); err != nil {
		return nil, err
	}
	if s == nil || s.Compiled() != e.c {
		return nil, worksheet.Issues{worksheet.Root().Field("entries").Index(i).Issue("", worksheet.CodeInvalidType,
			"store belongs to a different schema")}
	}
	next := e.Entries()
	next[i].Values = s
	return e.with(next), nil
}

// Complete stamps entry i as completed at now.
func (e *Envelope) Complete(i int, now time.Time) (*Envelope, error) {
	if err := e.check(i); err != nil {
		return nil, err
	}
	next := e.Entries()
	next[i].CompletedAt = now.UTC()
	return e.with(next), nil
}

// ResolveAll resolves the view of every entry. Entries own disjoint stores and the
// compiled schema is immutable, so they are evaluated concurrently.
func ResolveAll(ctx context.Context, e *Envelope) ([]eval.View, error) {
	views := make([]eval.View, len(e.entries))
	g, ctx := errgroup.WithContext(ctx)
	for i, entry := range e.entries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			views[i] = eval.Resolve(e.c, entry.Values)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return views, nil
}

func (e *Envelope) with(entries []Entry) *Envelope {
	return &Envelope{c: e.c, entries: entries}
}

func (e *Envelope) check(i int) error {
	if i < 0 || i >= len(e.entries) {
		return worksheet.Issues{worksheet.Root().Field("entries").Index(i).Issue("", worksheet.CodeIndex,
			fmt.Sprintf("entry %d does not exist", i), "len", len(e.entries))}
	}
	return nil
}
