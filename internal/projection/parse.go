package projection

import (
	"strings"

	"github.com/louisbranch/trackspace/internal/domain/project"
	"github.com/louisbranch/trackspace/internal/domain/task"
	"github.com/louisbranch/trackspace/internal/domain/user"
)

// Events reaching the projection layer already passed decider validation, so
// the labels here are canonical. The parse helpers still normalize and reject
// unknowns so a corrupt payload degrades to a skipped field, not a bad row.

func parseProjectStatus(value string) (project.Status, bool) {
	switch project.Status(strings.ToUpper(strings.TrimSpace(value))) {
	case project.StatusPlanning:
		return project.StatusPlanning, true
	case project.StatusInProgress:
		return project.StatusInProgress, true
	case project.StatusCompleted:
		return project.StatusCompleted, true
	case project.StatusCancelled:
		return project.StatusCancelled, true
	default:
		return project.StatusUnspecified, false
	}
}

func parseTaskStatus(value string) (task.Status, bool) {
	switch task.Status(strings.ToUpper(strings.TrimSpace(value))) {
	case task.StatusPending:
		return task.StatusPending, true
	case task.StatusInProgress:
		return task.StatusInProgress, true
	case task.StatusCompleted:
		return task.StatusCompleted, true
	case task.StatusCancelled:
		return task.StatusCancelled, true
	default:
		return task.StatusUnspecified, false
	}
}

func parseTaskPriority(value string) (task.Priority, bool) {
	switch task.Priority(strings.ToUpper(strings.TrimSpace(value))) {
	case task.PriorityLow:
		return task.PriorityLow, true
	case task.PriorityMedium:
		return task.PriorityMedium, true
	case task.PriorityHigh:
		return task.PriorityHigh, true
	case task.PriorityUrgent:
		return task.PriorityUrgent, true
	default:
		return task.PriorityUnspecified, false
	}
}

func parseUserRole(value string) (user.Role, bool) {
	switch user.Role(strings.ToUpper(strings.TrimSpace(value))) {
	case user.RoleAdmin:
		return user.RoleAdmin, true
	case user.RoleMember:
		return user.RoleMember, true
	case user.RoleGuest:
		return user.RoleGuest, true
	default:
		return user.RoleUnspecified, false
	}
}
