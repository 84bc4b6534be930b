package aggregate

import (
	"github.com/louisbranch/trackspace/internal/domain/event"
	"github.com/louisbranch/trackspace/internal/domain/project"
	"github.com/louisbranch/trackspace/internal/domain/task"
	"github.com/louisbranch/trackspace/internal/domain/user"
	"github.com/louisbranch/trackspace/internal/domain/workspace"
)

// foldEntry describes how the event types of one aggregate kind map to the
// fold function that updates that kind's slice of the state union.
type foldEntry struct {
	// kind is the aggregate kind owning the entry's event types.
	kind event.Kind
	// types returns the event types handled by this fold entry.
	types func() []event.Type
	// fold applies a single event to the kind's sub-state and writes the
	// result back into the union.
	fold func(state *State, evt event.Event)
}

// foldEntries returns the declarative fold dispatch table. Adding a new
// aggregate kind requires only adding an entry here.
func foldEntries() []foldEntry {
	return []foldEntry{
		{
			kind:  event.KindWorkspace,
			types: workspace.EmittableEventTypes,
			fold: func(state *State, evt event.Event) {
				state.Workspace = workspace.Fold(state.Workspace, evt)
			},
		},
		{
			kind:  event.KindProject,
			types: project.EmittableEventTypes,
			fold: func(state *State, evt event.Event) {
				state.Project = project.Fold(state.Project, evt)
			},
		},
		{
			kind:  event.KindTask,
			types: task.EmittableEventTypes,
			fold: func(state *State, evt event.Event) {
				state.Task = task.Fold(state.Task, evt)
			},
		},
		{
			kind:  event.KindUser,
			types: user.EmittableEventTypes,
			fold: func(state *State, evt event.Event) {
				state.User = user.Fold(state.User, evt)
			},
		},
	}
}
