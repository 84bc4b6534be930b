package aggregate

import (
	"fmt"
	"time"

	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/event"
	"github.com/louisbranch/trackspace/internal/domain/project"
	"github.com/louisbranch/trackspace/internal/domain/task"
	"github.com/louisbranch/trackspace/internal/domain/user"
	"github.com/louisbranch/trackspace/internal/domain/workspace"
)

// Decide routes a validated command to the decider of its aggregate kind.
// The returned zero Decision means the kind's decider does not handle the
// command type; callers translate that into an unsupported-command
// rejection rather than appending nothing silently.
func Decide(state State, cmd command.Command, now func() time.Time) (command.Decision, error) {
	if now == nil {
		now = time.Now
	}
	if state.Kind != "" && state.Kind != cmd.Kind {
		return command.Decision{}, fmt.Errorf("command %s targets kind %q but stream holds %q", cmd.Type, cmd.Kind, state.Kind)
	}
	switch cmd.Kind {
	case event.KindWorkspace:
		return workspace.Decide(state.Workspace, cmd, now), nil
	case event.KindProject:
		return project.Decide(state.Project, cmd, now), nil
	case event.KindTask:
		return task.Decide(state.Task, cmd, now), nil
	case event.KindUser:
		return user.Decide(state.User, cmd, now), nil
	default:
		return command.Decision{}, fmt.Errorf("unknown aggregate kind %q", cmd.Kind)
	}
}
