package aggregate

import (
	"github.com/louisbranch/trackspace/internal/domain/event"
	"github.com/louisbranch/trackspace/internal/domain/project"
	"github.com/louisbranch/trackspace/internal/domain/task"
	"github.com/louisbranch/trackspace/internal/domain/user"
	"github.com/louisbranch/trackspace/internal/domain/workspace"
)

// State captures the replayed state of a single aggregate stream. Exactly
// one of the per-kind sub-states is meaningful, selected by Kind; the
// others stay at their zero value. Kind is set by the first folded event
// and never changes afterwards.
type State struct {
	Kind      event.Kind
	Workspace workspace.State
	Project   project.State
	Task      task.State
	User      user.State
}

// Exists reports whether the stream produced a created aggregate of its kind.
func (s State) Exists() bool {
	switch s.Kind {
	case event.KindWorkspace:
		return s.Workspace.Created
	case event.KindProject:
		return s.Project.Created
	case event.KindTask:
		return s.Task.Created
	case event.KindUser:
		return s.User.Created
	default:
		return false
	}
}
