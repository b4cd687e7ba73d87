// Package override records which parts of a dependent quotation were edited
// directly and must no longer follow the source quotation.
package override

import (
	"encoding/json"
	"maps"
	"slices"

	"github.com/diewo77/go-quotations/internal/models"
)

// State is the override bookkeeping of one dependent.
type State struct {
	Fields map[string]bool `json:"fields"`
	Items  bool            `json:"items"`
}

// Synced reports whether nothing is overridden.
func (s State) Synced() bool {
	return len(s.Fields) == 0 && !s.Items
}

// FieldNames returns the overridden field names, sorted.
func (s State) FieldNames() []string {
	return slices.Sorted(maps.Keys(s.Fields))
}

// Tracker holds the override state of every dependent. It is plain
// bookkeeping; callers decide what an override means.
type Tracker struct {
	deps map[models.EntityID]State
}

// NewTracker returns a tracker with every dependent synced.
func NewTracker(dependents ...models.EntityID) *Tracker {
	t := &Tracker{deps: make(map[models.EntityID]State, len(dependents))}
	for _, id := range dependents {
		t.deps[id] = State{Fields: map[string]bool{}}
	}
	return t
}

// Known reports whether id is a tracked dependent.
func (t *Tracker) Known(id models.EntityID) bool {
	_, ok := t.deps[id]
	return ok
}

// MarkFieldOverridden records a direct edit of a customer field.
func (t *Tracker) MarkFieldOverridden(id models.EntityID, field string) {
	st, ok := t.deps[id]
	if !ok {
		return
	}
	st.Fields[field] = true
}

// MarkItemsOverridden records a direct edit of the item collection.
func (t *Tracker) MarkItemsOverridden(id models.EntityID) {
	st, ok := t.deps[id]
	if !ok {
		return
	}
	st.Items = true
	t.deps[id] = st
}

func (t *Tracker) IsFieldOverridden(id models.EntityID, field string) bool {
	return t.deps[id].Fields[field]
}

func (t *Tracker) IsItemsOverridden(id models.EntityID) bool {
	return t.deps[id].Items
}

// Reset returns every concern of one dependent to synced.
func (t *Tracker) Reset(id models.EntityID) {
	if _, ok := t.deps[id]; !ok {
		return
	}
	t.deps[id] = State{Fields: map[string]bool{}}
}

// ResetAll resets every dependent.
func (t *Tracker) ResetAll() {
	for id := range t.deps {
		t.Reset(id)
	}
}

// State returns a copy of one dependent's state.
func (t *Tracker) State(id models.EntityID) State {
	st := t.deps[id]
	return State{Fields: maps.Clone(st.Fields), Items: st.Items}
}

// Clone returns an independent copy of the tracker.
func (t *Tracker) Clone() *Tracker {
	c := &Tracker{deps: make(map[models.EntityID]State, len(t.deps))}
	for id := range t.deps {
		c.deps[id] = t.State(id)
	}
	return c
}

// MarshalJSON writes the per-dependent states keyed by dependent id.
func (t *Tracker) MarshalJSON() ([]byte, error) {
	out := make(map[models.EntityID]State, len(t.deps))
	for id := range t.deps {
		out[id] = t.State(id)
	}
	return json.Marshal(out)
}
