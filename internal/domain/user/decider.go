package user

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/event"
)

const (
	commandTypeCreate      command.Type = "user.create"
	commandTypeUpdateName  command.Type = "user.update_name"
	commandTypeUpdateEmail command.Type = "user.update_email"
	commandTypeChangeRole  command.Type = "user.change_role"
	commandTypeDeactivate  command.Type = "user.deactivate"
	commandTypeActivate    command.Type = "user.activate"
	commandTypeDelete      command.Type = "user.delete"

	eventTypeCreated      event.Type = "user.created"
	eventTypeNameUpdated  event.Type = "user.name_updated"
	eventTypeEmailUpdated event.Type = "user.email_updated"
	eventTypeRoleChanged  event.Type = "user.role_changed"
	eventTypeDeactivated  event.Type = "user.deactivated"
	eventTypeActivated    event.Type = "user.activated"
	eventTypeDeleted      event.Type = "user.deleted"

	rejectionCodeAlreadyExists   = "USER_ALREADY_EXISTS"
	rejectionCodeNotFound        = "USER_NOT_FOUND"
	rejectionCodeDeleted         = "USER_DELETED"
	rejectionCodeNameEmpty       = "USER_NAME_EMPTY"
	rejectionCodeEmailEmpty      = "USER_EMAIL_EMPTY"
	rejectionCodeEmailInvalid    = "USER_EMAIL_INVALID"
	rejectionCodeRoleInvalid     = "USER_INVALID_ROLE"
	rejectionCodeInactive        = "USER_INACTIVE"
	rejectionCodeAlreadyInactive = "USER_ALREADY_INACTIVE"
	rejectionCodeAlreadyActive   = "USER_ALREADY_ACTIVE"
)

// Decide returns the decision for a user command against current state.
func Decide(state State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	if cmd.Type == commandTypeCreate {
		if state.Created {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeAlreadyExists,
				Message: "user already exists",
			})
		}
		var payload CreatePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Name = strings.TrimSpace(payload.Name)
		if payload.Name == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeNameEmpty,
				Message: "user name is required",
			})
		}
		payload.Email = strings.TrimSpace(payload.Email)
		if payload.Email == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeEmailEmpty,
				Message: "user email is required",
			})
		}
		if !isEmailPlausible(payload.Email) {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeEmailInvalid,
				Message: "user email is invalid",
			})
		}
		role := RoleMember
		if payload.Role != "" {
			normalized, ok := normalizeRoleLabel(payload.Role)
			if !ok {
				return command.Reject(command.Rejection{
					Code:    rejectionCodeRoleInvalid,
					Message: "user role is invalid",
				})
			}
			role = normalized
		}
		payload.Role = string(role)
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, eventTypeCreated, payloadJSON, now().UTC()))
	}

	if !state.Created {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeNotFound,
			Message: "user does not exist",
		})
	}
	if state.Deleted {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeDeleted,
			Message: "user is deleted",
		})
	}
	// An inactive user only accepts activation state changes.
	if !state.Active && cmd.Type != commandTypeActivate && cmd.Type != commandTypeDeactivate {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeInactive,
			Message: "user is inactive",
		})
	}

	switch cmd.Type {
	case commandTypeUpdateName:
		var payload NamePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Name = strings.TrimSpace(payload.Name)
		if payload.Name == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeNameEmpty,
				Message: "user name is required",
			})
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, eventTypeNameUpdated, payloadJSON, now().UTC()))

	case commandTypeUpdateEmail:
		var payload EmailPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Email = strings.TrimSpace(payload.Email)
		if payload.Email == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeEmailEmpty,
				Message: "user email is required",
			})
		}
		if !isEmailPlausible(payload.Email) {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeEmailInvalid,
				Message: "user email is invalid",
			})
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, eventTypeEmailUpdated, payloadJSON, now().UTC()))

	case commandTypeChangeRole:
		var payload RolePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		role, ok := normalizeRoleLabel(payload.Role)
		if !ok {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeRoleInvalid,
				Message: "user role is invalid",
			})
		}
		if role == state.Role {
			return command.Accept()
		}
		payloadJSON, _ := json.Marshal(RolePayload{Role: string(role)})
		return command.Accept(command.NewEvent(cmd, eventTypeRoleChanged, payloadJSON, now().UTC()))

	case commandTypeDeactivate:
		if !state.Active {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeAlreadyInactive,
				Message: "user is already inactive",
			})
		}
		return command.Accept(command.NewEvent(cmd, eventTypeDeactivated, []byte("{}"), now().UTC()))

	case commandTypeActivate:
		if state.Active {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeAlreadyActive,
				Message: "user is already active",
			})
		}
		return command.Accept(command.NewEvent(cmd, eventTypeActivated, []byte("{}"), now().UTC()))

	case commandTypeDelete:
		return command.Accept(command.NewEvent(cmd, eventTypeDeleted, []byte("{}"), now().UTC()))
	}

	return command.Decision{}
}

// isEmailPlausible applies the minimal local@domain shape check. Full RFC
// validation belongs to the API edge, not the aggregate.
func isEmailPlausible(email string) bool {
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	return !strings.Contains(email[at+1:], "@") && strings.Contains(email[at+1:], ".")
}
