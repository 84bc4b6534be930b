package workspace

import (
	"encoding/json"
	"strings"

	"github.com/louisbranch/trackspace/internal/domain/event"
)

// Fold applies an event to workspace state.
func Fold(state State, evt event.Event) State {
	switch evt.Type {
	case eventTypeCreated:
		var payload CreatePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Created = true
		state.Title = strings.TrimSpace(payload.Title)
		state.OwnerID = strings.TrimSpace(payload.OwnerID)
		state.Archived = false
		state.Deleted = false
		state.MemberIDs = nil
		for _, memberID := range payload.MemberIDs {
			state.MemberIDs = addMember(state.MemberIDs, memberID)
		}
	case eventTypeRenamed:
		var payload RenamePayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.Title = strings.TrimSpace(payload.Title)
	case eventTypeArchived:
		state.Archived = true
	case eventTypeUnarchived:
		state.Archived = false
	case eventTypeMemberAdded:
		var payload MemberPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.MemberIDs = addMember(state.MemberIDs, payload.MemberID)
	case eventTypeMemberRemoved:
		var payload MemberPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.MemberIDs = removeMember(state.MemberIDs, payload.MemberID)
	case eventTypeOwnershipTransferred:
		var payload TransferOwnershipPayload
		_ = json.Unmarshal(evt.PayloadJSON, &payload)
		state.OwnerID = strings.TrimSpace(payload.OwnerID)
	case eventTypeDeleted:
		state.Deleted = true
	}
	return state
}
