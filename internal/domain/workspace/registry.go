package workspace

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/event"
)

// RegisterCommands registers workspace commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	definitions := []command.Definition{
		{Type: commandTypeCreate, Kind: event.KindWorkspace, Creates: true, ValidatePayload: validateCreatePayload},
		{Type: commandTypeRename, Kind: event.KindWorkspace, ValidatePayload: validateRenamePayload},
		{Type: commandTypeArchive, Kind: event.KindWorkspace},
		{Type: commandTypeUnarchive, Kind: event.KindWorkspace},
		{Type: commandTypeAddMember, Kind: event.KindWorkspace, ValidatePayload: validateMemberPayload},
		{Type: commandTypeRemoveMember, Kind: event.KindWorkspace, ValidatePayload: validateMemberPayload},
		{Type: commandTypeTransferOwnership, Kind: event.KindWorkspace, ValidatePayload: validateTransferPayload},
		{Type: commandTypeDelete, Kind: event.KindWorkspace},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// EmittableEventTypes returns all event types the workspace decider can emit.
func EmittableEventTypes() []event.Type {
	return []event.Type{
		eventTypeCreated,
		eventTypeRenamed,
		eventTypeArchived,
		eventTypeUnarchived,
		eventTypeMemberAdded,
		eventTypeMemberRemoved,
		eventTypeOwnershipTransferred,
		eventTypeDeleted,
	}
}

// RegisterEvents registers workspace events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	definitions := []event.Definition{
		{Type: eventTypeCreated, Kind: event.KindWorkspace, ValidatePayload: validateCreatePayload},
		{Type: eventTypeRenamed, Kind: event.KindWorkspace, ValidatePayload: validateRenamePayload},
		{Type: eventTypeArchived, Kind: event.KindWorkspace},
		{Type: eventTypeUnarchived, Kind: event.KindWorkspace},
		{Type: eventTypeMemberAdded, Kind: event.KindWorkspace, ValidatePayload: validateMemberPayload},
		{Type: eventTypeMemberRemoved, Kind: event.KindWorkspace, ValidatePayload: validateMemberPayload},
		{Type: eventTypeOwnershipTransferred, Kind: event.KindWorkspace, ValidatePayload: validateTransferPayload},
		{Type: eventTypeDeleted, Kind: event.KindWorkspace},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// validateCreatePayload ensures create payloads match the workspace create shape.
func validateCreatePayload(raw json.RawMessage) error {
	var payload CreatePayload
	return json.Unmarshal(raw, &payload)
}

// validateRenamePayload ensures rename payloads match the workspace rename shape.
func validateRenamePayload(raw json.RawMessage) error {
	var payload RenamePayload
	return json.Unmarshal(raw, &payload)
}

// validateMemberPayload ensures member payloads match the workspace member shape.
func validateMemberPayload(raw json.RawMessage) error {
	var payload MemberPayload
	return json.Unmarshal(raw, &payload)
}

// validateTransferPayload ensures transfer payloads match the ownership shape.
func validateTransferPayload(raw json.RawMessage) error {
	var payload TransferOwnershipPayload
	return json.Unmarshal(raw, &payload)
}
