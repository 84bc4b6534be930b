package projection

import (
	"context"

	"github.com/louisbranch/trackspace/internal/domain/event"
)

// NewRouter builds the router with a handler for every journal event type.
// Registration order groups by aggregate kind for readability; dispatch is by
// type, so order carries no behavior.
func NewRouter() *Router {
	r := &Router{handlers: make(map[event.Type]routeEntry)}

	Handle(r, "workspace.created", needWorkspace, Applier.applyWorkspaceCreated)
	Handle(r, "workspace.renamed", needWorkspace, Applier.applyWorkspaceRenamed)
	HandleRaw(r, "workspace.archived", needWorkspace, Applier.applyWorkspaceArchived)
	HandleRaw(r, "workspace.unarchived", needWorkspace, Applier.applyWorkspaceUnarchived)
	Handle(r, "workspace.member_added", needWorkspace, Applier.applyWorkspaceMemberAdded)
	Handle(r, "workspace.member_removed", needWorkspace, Applier.applyWorkspaceMemberRemoved)
	Handle(r, "workspace.ownership_transferred", needWorkspace, Applier.applyWorkspaceOwnershipTransferred)
	HandleRaw(r, "workspace.deleted", needWorkspace, Applier.applyWorkspaceDeleted)

	Handle(r, "project.created", needProject, Applier.applyProjectCreated)
	Handle(r, "project.updated", needProject, Applier.applyProjectUpdated)
	Handle(r, "project.status_changed", needProject, Applier.applyProjectStatusChanged)
	Handle(r, "project.owner_changed", needProject, Applier.applyProjectOwnerChanged)
	HandleRaw(r, "project.archived", needProject, Applier.applyProjectArchived)
	HandleRaw(r, "project.unarchived", needProject, Applier.applyProjectUnarchived)
	HandleRaw(r, "project.deleted", needProject, Applier.applyProjectDeleted)

	Handle(r, "task.created", needTask, Applier.applyTaskCreated)
	Handle(r, "task.updated", needTask, Applier.applyTaskUpdated)
	Handle(r, "task.assigned", needTask, Applier.applyTaskAssigned)
	HandleRaw(r, "task.assignee_removed", needTask, Applier.applyTaskAssigneeRemoved)
	Handle(r, "task.status_changed", needTask, Applier.applyTaskStatusChanged)
	HandleRaw(r, "task.completed", needTask, Applier.applyTaskCompleted)
	HandleRaw(r, "task.cancelled", needTask, Applier.applyTaskCancelled)
	Handle(r, "task.priority_set", needTask, Applier.applyTaskPrioritySet)
	Handle(r, "task.deadline_set", needTask, Applier.applyTaskDeadlineSet)
	Handle(r, "task.recurrence_set", needTask, Applier.applyTaskRecurrenceSet)
	Handle(r, "task.tag_added", needTask, Applier.applyTaskTagAdded)
	Handle(r, "task.tag_removed", needTask, Applier.applyTaskTagRemoved)
	Handle(r, "task.category_added", needTask, Applier.applyTaskCategoryAdded)
	Handle(r, "task.category_removed", needTask, Applier.applyTaskCategoryRemoved)
	Handle(r, "task.file_attached", needTask, Applier.applyTaskFileAttached)
	Handle(r, "task.file_removed", needTask, Applier.applyTaskFileRemoved)
	Handle(r, "task.comment_added", needTask, Applier.applyTaskCommentAdded)
	Handle(r, "task.comment_updated", needTask, Applier.applyTaskCommentUpdated)
	Handle(r, "task.comment_deleted", needTask, Applier.applyTaskCommentDeleted)
	HandleRaw(r, "task.deleted", needTask, Applier.applyTaskDeleted)

	Handle(r, "user.created", needUser, Applier.applyUserCreated)
	Handle(r, "user.name_updated", needUser, Applier.applyUserNameUpdated)
	Handle(r, "user.email_updated", needUser, Applier.applyUserEmailUpdated)
	Handle(r, "user.role_changed", needUser, Applier.applyUserRoleChanged)
	HandleRaw(r, "user.deactivated", needUser, Applier.applyUserDeactivated)
	HandleRaw(r, "user.activated", needUser, Applier.applyUserActivated)
	HandleRaw(r, "user.deleted", needUser, Applier.applyUserDeleted)

	return r
}

// Apply routes one event through the default router. Callers that dispatch
// many events should hold a Router and call Route directly.
func (a Applier) Apply(ctx context.Context, evt event.Event) error {
	return defaultRouter.Route(a, ctx, evt)
}

var defaultRouter = NewRouter()

// HandledTypes returns the journal event types the projection layer handles.
func HandledTypes() []event.Type {
	return defaultRouter.HandledTypes()
}
