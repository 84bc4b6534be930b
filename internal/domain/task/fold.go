package task

import (
	"encoding/json"
	"strings"

	"github.com/louisbranch/trackspace/internal/domain/event"
)

// Fold applies an event to task state.
func Fold(state State, evt event.Event) State {
	switch evt.Type {
	case eventTypeCreated:
		var payload CreatePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state = State{
			Created:     true,
			Title:       strings.TrimSpace(payload.Title),
			Description: payload.Description,
			WorkspaceID: strings.TrimSpace(payload.WorkspaceID),
			ProjectID:   strings.TrimSpace(payload.ProjectID),
			Status:      StatusPending,
			Priority:    PriorityMedium,
			Deadline:    strings.TrimSpace(payload.Deadline),
		}
		if priority, ok := normalizePriorityLabel(payload.Priority); ok {
			state.Priority = priority
		}
	case eventTypeUpdated:
		var payload UpdatePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		for key, value := range payload.Fields {
			switch key {
			case "title":
				state.Title = strings.TrimSpace(value)
			case "description":
				state.Description = value
			}
		}
	case eventTypeAssigned:
		var payload AssignPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.AssignedUserID = strings.TrimSpace(payload.UserID)
	case eventTypeAssigneeRemoved:
		state.AssignedUserID = ""
	case eventTypeStatusChanged:
		var payload StatusPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if status, ok := normalizeStatusLabel(payload.Status); ok {
			state.Status = status
		}
	case eventTypeCompleted:
		state.Status = StatusCompleted
	case eventTypeCancelled:
		state.Status = StatusCancelled
	case eventTypePrioritySet:
		var payload PriorityPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if priority, ok := normalizePriorityLabel(payload.Priority); ok {
			state.Priority = priority
		}
	case eventTypeDeadlineSet:
		var payload DeadlinePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Deadline = strings.TrimSpace(payload.Deadline)
	case eventTypeRecurrenceSet:
		var payload RecurrencePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.RecurrenceRule = strings.TrimSpace(payload.Rule)
	case eventTypeTagAdded:
		var payload LabelPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Tags = addLabel(state.Tags, strings.TrimSpace(payload.Label))
	case eventTypeTagRemoved:
		var payload LabelPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Tags = removeLabel(state.Tags, strings.TrimSpace(payload.Label))
	case eventTypeCategoryAdded:
		var payload LabelPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Categories = addLabel(state.Categories, strings.TrimSpace(payload.Label))
	case eventTypeCategoryRemoved:
		var payload LabelPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Categories = removeLabel(state.Categories, strings.TrimSpace(payload.Label))
	case eventTypeFileAttached:
		var payload FilePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		fileID := strings.TrimSpace(payload.FileID)
		if fileID != "" {
			if state.Attachments == nil {
				state.Attachments = make(map[string]Attachment)
			} else {
				state.Attachments = cloneAttachments(state.Attachments)
			}
			state.Attachments[fileID] = Attachment{
				Name:       payload.Name,
				URL:        payload.URL,
				AttachedBy: evt.ActorID,
				AttachedAt: evt.Timestamp,
			}
		}
	case eventTypeFileRemoved:
		var payload FilePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		fileID := strings.TrimSpace(payload.FileID)
		if _, ok := state.Attachments[fileID]; ok {
			state.Attachments = cloneAttachments(state.Attachments)
			delete(state.Attachments, fileID)
		}
	case eventTypeCommentAdded, eventTypeCommentUpdated:
		var payload CommentPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		commentID := strings.TrimSpace(payload.CommentID)
		if commentID != "" {
			if state.Comments == nil {
				state.Comments = make(map[string]Comment)
			} else {
				state.Comments = cloneComments(state.Comments)
			}
			comment := state.Comments[commentID]
			if evt.Type == eventTypeCommentAdded {
				comment.AuthorID = strings.TrimSpace(payload.AuthorID)
			}
			comment.Content = payload.Content
			comment.Timestamp = evt.Timestamp
			state.Comments[commentID] = comment
		}
	case eventTypeCommentDeleted:
		var payload CommentPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		commentID := strings.TrimSpace(payload.CommentID)
		if _, ok := state.Comments[commentID]; ok {
			state.Comments = cloneComments(state.Comments)
			delete(state.Comments, commentID)
		}
	case eventTypeDeleted:
		state.Deleted = true
	}
	return state
}

// Folds copy the maps before mutating so earlier state snapshots stay intact.
func cloneAttachments(attachments map[string]Attachment) map[string]Attachment {
	clone := make(map[string]Attachment, len(attachments))
	for k, v := range attachments {
		clone[k] = v
	}
	return clone
}

func cloneComments(comments map[string]Comment) map[string]Comment {
	clone := make(map[string]Comment, len(comments))
	for k, v := range comments {
		clone[k] = v
	}
	return clone
}
