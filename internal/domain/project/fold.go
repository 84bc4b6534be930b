package project

import (
	"encoding/json"
	"strings"

	"github.com/louisbranch/trackspace/internal/domain/event"
)

// Fold applies an event to project state.
func Fold(state State, evt event.Event) State {
	switch evt.Type {
	case eventTypeCreated:
		var payload CreatePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Created = true
		state.Title = strings.TrimSpace(payload.Title)
		state.Description = payload.Description
		state.WorkspaceID = strings.TrimSpace(payload.WorkspaceID)
		state.OwnerID = strings.TrimSpace(payload.OwnerID)
		state.Status = StatusPlanning
		if status, ok := normalizeStatusLabel(payload.Status); ok {
			state.Status = status
		}
		state.Archived = false
		state.Deleted = false
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
	case eventTypeStatusChanged:
		var payload StatusPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		if status, ok := normalizeStatusLabel(payload.Status); ok {
			state.Status = status
		}
	case eventTypeOwnerChanged:
		var payload OwnerPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.OwnerID = strings.TrimSpace(payload.OwnerID)
	case eventTypeArchived:
		state.Archived = true
	case eventTypeUnarchived:
		state.Archived = false
	case eventTypeDeleted:
		state.Deleted = true
	}
	return state
}
