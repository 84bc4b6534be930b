package project

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/event"
)

const (
	commandTypeCreate       command.Type = "project.create"
	commandTypeUpdate       command.Type = "project.update"
	commandTypeUpdateStatus command.Type = "project.update_status"
	commandTypeChangeOwner  command.Type = "project.change_owner"
	commandTypeArchive      command.Type = "project.archive"
	commandTypeUnarchive    command.Type = "project.unarchive"
	commandTypeDelete       command.Type = "project.delete"

	eventTypeCreated       event.Type = "project.created"
	eventTypeUpdated       event.Type = "project.updated"
	eventTypeStatusChanged event.Type = "project.status_changed"
	eventTypeOwnerChanged  event.Type = "project.owner_changed"
	eventTypeArchived      event.Type = "project.archived"
	eventTypeUnarchived    event.Type = "project.unarchived"
	eventTypeDeleted       event.Type = "project.deleted"

	rejectionCodeAlreadyExists      = "PROJECT_ALREADY_EXISTS"
	rejectionCodeNotFound           = "PROJECT_NOT_FOUND"
	rejectionCodeDeleted            = "PROJECT_DELETED"
	rejectionCodeArchived           = "PROJECT_ARCHIVED"
	rejectionCodeNotArchived        = "PROJECT_NOT_ARCHIVED"
	rejectionCodeTitleEmpty         = "PROJECT_TITLE_EMPTY"
	rejectionCodeWorkspaceRequired  = "PROJECT_WORKSPACE_REQUIRED"
	rejectionCodeOwnerRequired      = "PROJECT_OWNER_REQUIRED"
	rejectionCodeStatusInvalid      = "PROJECT_INVALID_STATUS"
	rejectionCodeStatusTransition   = "PROJECT_INVALID_STATUS_TRANSITION"
	rejectionCodeUpdateEmpty        = "PROJECT_UPDATE_EMPTY"
	rejectionCodeUpdateFieldInvalid = "PROJECT_UPDATE_FIELD_INVALID"
)

// Decide returns the decision for a project command against current state.
func Decide(state State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	if cmd.Type == commandTypeCreate {
		if state.Created {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeAlreadyExists,
				Message: "project already exists",
			})
		}
		var payload CreatePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Title = strings.TrimSpace(payload.Title)
		if payload.Title == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeTitleEmpty,
				Message: "project title is required",
			})
		}
		payload.WorkspaceID = strings.TrimSpace(payload.WorkspaceID)
		if payload.WorkspaceID == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeWorkspaceRequired,
				Message: "project workspace is required",
			})
		}
		payload.OwnerID = strings.TrimSpace(payload.OwnerID)
		if payload.OwnerID == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeOwnerRequired,
				Message: "project owner is required",
			})
		}
		status := StatusPlanning
		if payload.Status != "" {
			normalized, ok := normalizeStatusLabel(payload.Status)
			if !ok {
				return command.Reject(command.Rejection{
					Code:    rejectionCodeStatusInvalid,
					Message: "project status is invalid",
				})
			}
			status = normalized
		}
		payload.Status = string(status)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, eventTypeCreated, payloadJSON, now().UTC()))
	}

	if !state.Created {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeNotFound,
			Message: "project does not exist",
		})
	}
	if state.Deleted {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeDeleted,
			Message: "project is deleted",
		})
	}
	// Archived projects are immutable except for unarchive.
	if state.Archived && cmd.Type != commandTypeUnarchive {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeArchived,
			Message: "project is archived",
		})
	}

	switch cmd.Type {
	case commandTypeUpdate:
		var payload UpdatePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		if len(payload.Fields) == 0 {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeUpdateEmpty,
				Message: "project update requires fields",
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
						Message: "project title is required",
					})
				}
				normalizedFields[key] = trimmed
			case "description":
				normalizedFields[key] = value
			default:
				return command.Reject(command.Rejection{
					Code:    rejectionCodeUpdateFieldInvalid,
					Message: "project update field is invalid",
				})
			}
		}
		payloadJSON, _ := json.Marshal(UpdatePayload{Fields: normalizedFields})
		return command.Accept(command.NewEvent(cmd, eventTypeUpdated, payloadJSON, now().UTC()))

	case commandTypeUpdateStatus:
		var payload StatusPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		status, ok := normalizeStatusLabel(payload.Status)
		if !ok {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeStatusInvalid,
				Message: "project status is invalid",
			})
		}
		if status == state.Status {
			return command.Accept()
		}
		if !isStatusTransitionAllowed(state.Status, status) {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeStatusTransition,
				Message: "project status transition is not allowed",
			})
		}
		payloadJSON, _ := json.Marshal(StatusPayload{Status: string(status)})
		return command.Accept(command.NewEvent(cmd, eventTypeStatusChanged, payloadJSON, now().UTC()))

	case commandTypeChangeOwner:
		var payload OwnerPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.OwnerID = strings.TrimSpace(payload.OwnerID)
		if payload.OwnerID == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeOwnerRequired,
				Message: "project owner is required",
			})
		}
		if payload.OwnerID == state.OwnerID {
			return command.Accept()
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, eventTypeOwnerChanged, payloadJSON, now().UTC()))

	case commandTypeArchive:
		return command.Accept(command.NewEvent(cmd, eventTypeArchived, []byte("{}"), now().UTC()))

	case commandTypeUnarchive:
		if !state.Archived {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeNotArchived,
				Message: "project is not archived",
			})
		}
		return command.Accept(command.NewEvent(cmd, eventTypeUnarchived, []byte("{}"), now().UTC()))

	case commandTypeDelete:
		return command.Accept(command.NewEvent(cmd, eventTypeDeleted, []byte("{}"), now().UTC()))
	}

	return command.Decision{}
}
