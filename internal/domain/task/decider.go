package task

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/event"
)

const (
	commandTypeCreate         command.Type = "task.create"
	commandTypeUpdate         command.Type = "task.update"
	commandTypeAssign         command.Type = "task.assign"
	commandTypeRemoveAssignee command.Type = "task.remove_assignee"
	commandTypeUpdateStatus   command.Type = "task.update_status"
	commandTypeComplete       command.Type = "task.complete"
	commandTypeCancel         command.Type = "task.cancel"
	commandTypeSetPriority    command.Type = "task.set_priority"
	commandTypeSetDeadline    command.Type = "task.set_deadline"
	commandTypeSetRecurrence  command.Type = "task.set_recurrence"
	commandTypeAddTag         command.Type = "task.add_tag"
	commandTypeRemoveTag      command.Type = "task.remove_tag"
	commandTypeAddCategory    command.Type = "task.add_category"
	commandTypeRemoveCategory command.Type = "task.remove_category"
	commandTypeAttachFile     command.Type = "task.attach_file"
	commandTypeRemoveFile     command.Type = "task.remove_file"
	commandTypeAddComment     command.Type = "task.add_comment"
	commandTypeUpdateComment  command.Type = "task.update_comment"
	commandTypeDeleteComment  command.Type = "task.delete_comment"
	commandTypeDelete         command.Type = "task.delete"

	eventTypeCreated         event.Type = "task.created"
	eventTypeUpdated         event.Type = "task.updated"
	eventTypeAssigned        event.Type = "task.assigned"
	eventTypeAssigneeRemoved event.Type = "task.assignee_removed"
	eventTypeStatusChanged   event.Type = "task.status_changed"
	eventTypeCompleted       event.Type = "task.completed"
	eventTypeCancelled       event.Type = "task.cancelled"
	eventTypePrioritySet     event.Type = "task.priority_set"
	eventTypeDeadlineSet     event.Type = "task.deadline_set"
	eventTypeRecurrenceSet   event.Type = "task.recurrence_set"
	eventTypeTagAdded        event.Type = "task.tag_added"
	eventTypeTagRemoved      event.Type = "task.tag_removed"
	eventTypeCategoryAdded   event.Type = "task.category_added"
	eventTypeCategoryRemoved event.Type = "task.category_removed"
	eventTypeFileAttached    event.Type = "task.file_attached"
	eventTypeFileRemoved     event.Type = "task.file_removed"
	eventTypeCommentAdded    event.Type = "task.comment_added"
	eventTypeCommentUpdated  event.Type = "task.comment_updated"
	eventTypeCommentDeleted  event.Type = "task.comment_deleted"
	eventTypeDeleted         event.Type = "task.deleted"

	rejectionCodeAlreadyExists      = "TASK_ALREADY_EXISTS"
	rejectionCodeNotFound           = "TASK_NOT_FOUND"
	rejectionCodeDeleted            = "TASK_DELETED"
	rejectionCodeTitleEmpty         = "TASK_TITLE_EMPTY"
	rejectionCodeProjectRequired    = "TASK_PROJECT_REQUIRED"
	rejectionCodeWorkspaceRequired  = "TASK_WORKSPACE_REQUIRED"
	rejectionCodeAlreadyCompleted   = "TASK_ALREADY_COMPLETED"
	rejectionCodeNotAssigned        = "TASK_NOT_ASSIGNED"
	rejectionCodeAssigneeRequired   = "TASK_ASSIGNEE_REQUIRED"
	rejectionCodeStatusInvalid      = "TASK_INVALID_STATUS"
	rejectionCodePriorityInvalid    = "TASK_INVALID_PRIORITY"
	rejectionCodeDeadlineInvalid    = "TASK_INVALID_DEADLINE"
	rejectionCodeFileNotFound       = "TASK_FILE_NOT_FOUND"
	rejectionCodeFileIDRequired     = "TASK_FILE_ID_REQUIRED"
	rejectionCodeCommentNotFound    = "TASK_COMMENT_NOT_FOUND"
	rejectionCodeCommentEmpty       = "TASK_COMMENT_EMPTY"
	rejectionCodeTagRequired        = "TASK_TAG_REQUIRED"
	rejectionCodeCategoryRequired   = "TASK_CATEGORY_REQUIRED"
	rejectionCodeUpdateEmpty        = "TASK_UPDATE_EMPTY"
	rejectionCodeUpdateFieldInvalid = "TASK_UPDATE_FIELD_INVALID"
)

// Decide returns the decision for a task command against current state.
func Decide(state State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	if cmd.Type == commandTypeCreate {
		return decideCreate(state, cmd, now)
	}

	if !state.Created {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeNotFound,
			Message: "task does not exist",
		})
	}
	if state.Deleted {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeDeleted,
			Message: "task is deleted",
		})
	}

	switch cmd.Type {
	case commandTypeUpdate:
		return decideUpdate(state, cmd, now)
	case commandTypeAssign, commandTypeRemoveAssignee:
		return decideAssignment(state, cmd, now)
	case commandTypeUpdateStatus, commandTypeComplete, commandTypeCancel:
		return decideStatus(state, cmd, now)
	case commandTypeSetPriority, commandTypeSetDeadline, commandTypeSetRecurrence:
		return decideScheduling(state, cmd, now)
	case commandTypeAddTag, commandTypeRemoveTag, commandTypeAddCategory, commandTypeRemoveCategory:
		return decideLabels(state, cmd, now)
	case commandTypeAttachFile, commandTypeRemoveFile:
		return decideFiles(state, cmd, now)
	case commandTypeAddComment, commandTypeUpdateComment, commandTypeDeleteComment:
		return decideComments(state, cmd, now)
	case commandTypeDelete:
		return command.Accept(command.NewEvent(cmd, eventTypeDeleted, []byte("{}"), now().UTC()))
	}

	return command.Decision{}
}

func decideCreate(state State, cmd command.Command, now func() time.Time) command.Decision {
	if state.Created {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeAlreadyExists,
			Message: "task already exists",
		})
	}
	var payload CreatePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	payload.Title = strings.TrimSpace(payload.Title)
	if payload.Title == "" {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeTitleEmpty,
			Message: "task title is required",
		})
	}
	payload.WorkspaceID = strings.TrimSpace(payload.WorkspaceID)
	if payload.WorkspaceID == "" {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeWorkspaceRequired,
			Message: "task workspace is required",
		})
	}
	payload.ProjectID = strings.TrimSpace(payload.ProjectID)
	if payload.ProjectID == "" {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeProjectRequired,
			Message: "task project is required",
		})
	}
	priority := PriorityMedium
	if payload.Priority != "" {
		normalized, ok := normalizePriorityLabel(payload.Priority)
		if !ok {
			return command.Reject(command.Rejection{
				Code:    rejectionCodePriorityInvalid,
				Message: "task priority is invalid",
			})
		}
		priority = normalized
	}
	payload.Priority = string(priority)
	payload.Deadline = strings.TrimSpace(payload.Deadline)
	if payload.Deadline != "" {
		if _, err := time.Parse(time.RFC3339, payload.Deadline); err != nil {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeDeadlineInvalid,
				Message: "task deadline must be RFC 3339",
			})
		}
	}
	payloadJSON, _ := json.Marshal(payload)
	return command.Accept(command.NewEvent(cmd, eventTypeCreated, payloadJSON, now().UTC()))
}

func decideUpdate(state State, cmd command.Command, now func() time.Time) command.Decision {
	var payload UpdatePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	if len(payload.Fields) == 0 {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeUpdateEmpty,
			Message: "task update requires fields",
		})
	}
	normalizedFields := make(map[string]string, len(payload.Fields))
	for key, value := range payload.Fields {
		switch key {
		case "title":
			trimmed := strings.TrimSpace(value)
			if trimmed == "" {
				return command.Reject(command.Rejection{
					Code:    rejectionCodeTitleEmpty,
					Message: "task title is required",
				})
			}
			normalizedFields[key] = trimmed
		case "description":
			normalizedFields[key] = value
		default:
			return command.Reject(command.Rejection{
				Code:    rejectionCodeUpdateFieldInvalid,
				Message: "task update field is invalid",
			})
		}
	}
	payloadJSON, _ := json.Marshal(UpdatePayload{Fields: normalizedFields})
	return command.Accept(command.NewEvent(cmd, eventTypeUpdated, payloadJSON, now().UTC()))
}

func decideAssignment(state State, cmd command.Command, now func() time.Time) command.Decision {
	switch cmd.Type {
	case commandTypeAssign:
		var payload AssignPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.UserID = strings.TrimSpace(payload.UserID)
		if payload.UserID == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeAssigneeRequired,
				Message: "task assignee is required",
			})
		}
		if payload.UserID == state.AssignedUserID {
			return command.Accept()
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, eventTypeAssigned, payloadJSON, now().UTC()))

	case commandTypeRemoveAssignee:
		if state.AssignedUserID == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeNotAssigned,
				Message: "task has no assignee",
			})
		}
		return command.Accept(command.NewEvent(cmd, eventTypeAssigneeRemoved, []byte("{}"), now().UTC()))
	}
	return command.Decision{}
}

func decideStatus(state State, cmd command.Command, now func() time.Time) command.Decision {
	switch cmd.Type {
	case commandTypeUpdateStatus:
		var payload StatusPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		status, ok := normalizeStatusLabel(payload.Status)
		if !ok {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeStatusInvalid,
				Message: "task status is invalid",
			})
		}
		if status == state.Status {
			return command.Accept()
		}
		payloadJSON, _ := json.Marshal(StatusPayload{Status: string(status)})
		return command.Accept(command.NewEvent(cmd, eventTypeStatusChanged, payloadJSON, now().UTC()))

	case commandTypeComplete:
		if state.Status == StatusCompleted {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeAlreadyCompleted,
				Message: "task is already completed",
			})
		}
		return command.Accept(command.NewEvent(cmd, eventTypeCompleted, []byte("{}"), now().UTC()))

	case commandTypeCancel:
		if state.Status == StatusCancelled {
			return command.Accept()
		}
		return command.Accept(command.NewEvent(cmd, eventTypeCancelled, []byte("{}"), now().UTC()))
	}
	return command.Decision{}
}

func decideScheduling(state State, cmd command.Command, now func() time.Time) command.Decision {
	switch cmd.Type {
	case commandTypeSetPriority:
		var payload PriorityPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		priority, ok := normalizePriorityLabel(payload.Priority)
		if !ok {
			return command.Reject(command.Rejection{
				Code:    rejectionCodePriorityInvalid,
				Message: "task priority is invalid",
			})
		}
		if priority == state.Priority {
			return command.Accept()
		}
		payloadJSON, _ := json.Marshal(PriorityPayload{Priority: string(priority)})
		return command.Accept(command.NewEvent(cmd, eventTypePrioritySet, payloadJSON, now().UTC()))

	case commandTypeSetDeadline:
		var payload DeadlinePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Deadline = strings.TrimSpace(payload.Deadline)
		if payload.Deadline != "" {
			if _, err := time.Parse(time.RFC3339, payload.Deadline); err != nil {
				return command.Reject(command.Rejection{
					Code:    rejectionCodeDeadlineInvalid,
					Message: "task deadline must be RFC 3339",
				})
			}
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, eventTypeDeadlineSet, payloadJSON, now().UTC()))

	case commandTypeSetRecurrence:
		var payload RecurrencePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Rule = strings.TrimSpace(payload.Rule)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, eventTypeRecurrenceSet, payloadJSON, now().UTC()))
	}
	return command.Decision{}
}

func decideLabels(state State, cmd command.Command, now func() time.Time) command.Decision {
	var payload LabelPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	label := strings.TrimSpace(payload.Label)

	switch cmd.Type {
	case commandTypeAddTag, commandTypeRemoveTag:
		if label == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeTagRequired,
				Message: "task tag is required",
			})
		}
	case commandTypeAddCategory, commandTypeRemoveCategory:
		if label == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCategoryRequired,
				Message: "task category is required",
			})
		}
	}

	payloadJSON, _ := json.Marshal(LabelPayload{Label: label})
	switch cmd.Type {
	case commandTypeAddTag:
		if state.HasTag(label) {
			return command.Accept()
		}
		return command.Accept(command.NewEvent(cmd, eventTypeTagAdded, payloadJSON, now().UTC()))
	case commandTypeRemoveTag:
		if !state.HasTag(label) {
			return command.Accept()
		}
		return command.Accept(command.NewEvent(cmd, eventTypeTagRemoved, payloadJSON, now().UTC()))
	case commandTypeAddCategory:
		if state.HasCategory(label) {
			return command.Accept()
		}
		return command.Accept(command.NewEvent(cmd, eventTypeCategoryAdded, payloadJSON, now().UTC()))
	case commandTypeRemoveCategory:
		if !state.HasCategory(label) {
			return command.Accept()
		}
		return command.Accept(command.NewEvent(cmd, eventTypeCategoryRemoved, payloadJSON, now().UTC()))
	}
	return command.Decision{}
}

func decideFiles(state State, cmd command.Command, now func() time.Time) command.Decision {
	var payload FilePayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	payload.FileID = strings.TrimSpace(payload.FileID)
	if payload.FileID == "" {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeFileIDRequired,
			Message: "task file id is required",
		})
	}

	switch cmd.Type {
	case commandTypeAttachFile:
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, eventTypeFileAttached, payloadJSON, now().UTC()))
	case commandTypeRemoveFile:
		if _, ok := state.Attachments[payload.FileID]; !ok {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeFileNotFound,
				Message: "task file is not attached",
			})
		}
		payloadJSON, _ := json.Marshal(FilePayload{FileID: payload.FileID})
		return command.Accept(command.NewEvent(cmd, eventTypeFileRemoved, payloadJSON, now().UTC()))
	}
	return command.Decision{}
}

func decideComments(state State, cmd command.Command, now func() time.Time) command.Decision {
	var payload CommentPayload
	_ = json.Unmarshal(cmd.PayloadJSON, &payload)
	payload.CommentID = strings.TrimSpace(payload.CommentID)

	switch cmd.Type {
	case commandTypeAddComment:
		// The registry's normalize hook mints the comment id before the
		// decider runs; an empty id here means the command bypassed it.
		if payload.CommentID == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCommentNotFound,
				Message: "task comment id is required",
			})
		}
		if strings.TrimSpace(payload.Content) == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCommentEmpty,
				Message: "task comment content is required",
			})
		}
		if strings.TrimSpace(payload.AuthorID) == "" {
			payload.AuthorID = cmd.ActorID
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, eventTypeCommentAdded, payloadJSON, now().UTC()))

	case commandTypeUpdateComment:
		if _, ok := state.Comments[payload.CommentID]; !ok {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCommentNotFound,
				Message: "task comment does not exist",
			})
		}
		if strings.TrimSpace(payload.Content) == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCommentEmpty,
				Message: "task comment content is required",
			})
		}
		payloadJSON, _ := json.Marshal(CommentPayload{CommentID: payload.CommentID, Content: payload.Content})
		return command.Accept(command.NewEvent(cmd, eventTypeCommentUpdated, payloadJSON, now().UTC()))

	case commandTypeDeleteComment:
		if _, ok := state.Comments[payload.CommentID]; !ok {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeCommentNotFound,
				Message: "task comment does not exist",
			})
		}
		payloadJSON, _ := json.Marshal(CommentPayload{CommentID: payload.CommentID})
		return command.Accept(command.NewEvent(cmd, eventTypeCommentDeleted, payloadJSON, now().UTC()))
	}
	return command.Decision{}
}
