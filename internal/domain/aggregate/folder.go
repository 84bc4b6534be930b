package aggregate

import (
	"fmt"
	"sync"

	"github.com/louisbranch/trackspace/internal/domain/event"
)

// Folder folds events into aggregate state.
//
// The folder is where the domain boundary stays deterministic: each event
// type updates exactly one kind's sub-state and is replayed identically
// whether during request execution or historical reconstruction. Named
// "Folder" (not "Applier") to distinguish pure state folds from
// projection.Applier, which performs side-effecting writes to read views.
//
// Dispatch is declarative: foldEntries() defines the mapping from event
// types to fold functions in fold_registry.go.
type Folder struct {
	// foldIndex is lazily built on first Fold.
	foldOnce  sync.Once
	foldIndex map[event.Type]foldEntry
}

func (f *Folder) initFoldIndex() {
	f.foldOnce.Do(func() {
		f.foldIndex = make(map[event.Type]foldEntry)
		for _, entry := range foldEntries() {
			for _, t := range entry.types() {
				f.foldIndex[t] = entry
			}
		}
	})
}

// FoldDispatchedTypes returns the union of all event types wired into the
// fold dispatch index, so registration tests can verify that every
// registered event type actually reaches a fold function at runtime.
func (f *Folder) FoldDispatchedTypes() []event.Type {
	f.initFoldIndex()
	types := make([]event.Type, 0, len(f.foldIndex))
	for t := range f.foldIndex {
		types = append(types, t)
	}
	return types
}

// Fold applies a single event to aggregate state. The first event pins the
// stream's kind; later events of a different kind are a storage-layer fault
// and surface as an error rather than corrupting the union.
func (f *Folder) Fold(state State, evt event.Event) (State, error) {
	f.initFoldIndex()

	entry, ok := f.foldIndex[evt.Type]
	if !ok {
		// Unknown event types fold as no-ops so journals written by newer
		// builds still replay.
		return state, nil
	}
	if evt.Kind != "" && evt.Kind != entry.kind {
		return state, fmt.Errorf("event %s carries kind %q, want %q", evt.Type, evt.Kind, entry.kind)
	}
	if state.Kind == "" {
		state.Kind = entry.kind
	} else if state.Kind != entry.kind {
		return state, fmt.Errorf("event %s for kind %q folded into %q stream", evt.Type, entry.kind, state.Kind)
	}
	entry.fold(&state, evt)
	return state, nil
}
