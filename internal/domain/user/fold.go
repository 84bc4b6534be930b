package user

import (
	"encoding/json"
	"strings"

	"github.com/louisbranch/trackspace/internal/domain/event"
)

// Fold applies an event to user state.
func Fold(state State, evt event.Event) State {
	switch evt.Type {
	case eventTypeCreated:
		var payload CreatePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Created = true
		state.Name = strings.TrimSpace(payload.Name)
		state.Email = strings.TrimSpace(payload.Email)
		state.Role = RoleMember
		if role, ok := normalizeRoleLabel(payload.Role); ok {
			state.Role = role
		}
		state.Active = true
		state.Deleted = false
	case eventTypeNameUpdated:
		var payload NamePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Name = strings.TrimSpace(payload.Name)
	case eventTypeEmailUpdated:
		var payload EmailPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Email = strings.TrimSpace(payload.Email)
	case eventTypeRoleChanged:
		var payload RolePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if role, ok := normalizeRoleLabel(payload.Role); ok {
			state.Role = role
		}
	case eventTypeDeactivated:
		state.Active = false
	case eventTypeActivated:
		state.Active = true
	case eventTypeDeleted:
		state.Deleted = true
	}
	return state
}
