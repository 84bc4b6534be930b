package project

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/event"
)

// RegisterCommands registers project commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	definitions := []command.Definition{
		{Type: commandTypeCreate, Kind: event.KindProject, Creates: true, ValidatePayload: validateCreatePayload},
		{Type: commandTypeUpdate, Kind: event.KindProject, ValidatePayload: validateUpdatePayload},
		{Type: commandTypeUpdateStatus, Kind: event.KindProject, ValidatePayload: validateStatusPayload},
		{Type: commandTypeChangeOwner, Kind: event.KindProject, ValidatePayload: validateOwnerPayload},
		{Type: commandTypeArchive, Kind: event.KindProject},
		{Type: commandTypeUnarchive, Kind: event.KindProject},
		{Type: commandTypeDelete, Kind: event.KindProject},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// EmittableEventTypes returns all event types the project decider can emit.
func EmittableEventTypes() []event.Type {
	return []event.Type{
		eventTypeCreated,
		eventTypeUpdated,
		eventTypeStatusChanged,
		eventTypeOwnerChanged,
		eventTypeArchived,
		eventTypeUnarchived,
		eventTypeDeleted,
	}
}

// RegisterEvents registers project events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	definitions := []event.Definition{
		{Type: eventTypeCreated, Kind: event.KindProject, ValidatePayload: validateCreatePayload},
		{Type: eventTypeUpdated, Kind: event.KindProject, ValidatePayload: validateUpdatePayload},
		{Type: eventTypeStatusChanged, Kind: event.KindProject, ValidatePayload: validateStatusPayload},
		{Type: eventTypeOwnerChanged, Kind: event.KindProject, ValidatePayload: validateOwnerPayload},
		{Type: eventTypeArchived, Kind: event.KindProject},
		{Type: eventTypeUnarchived, Kind: event.KindProject},
		{Type: eventTypeDeleted, Kind: event.KindProject},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// validateCreatePayload ensures create payloads match the project create shape.
func validateCreatePayload(raw json.RawMessage) error {
	var payload CreatePayload
	return json.Unmarshal(raw, &payload)
}

// validateUpdatePayload ensures update payloads match the project update shape.
func validateUpdatePayload(raw json.RawMessage) error {
	var payload UpdatePayload
	return json.Unmarshal(raw, &payload)
}

// validateStatusPayload ensures status payloads match the status shape.
func validateStatusPayload(raw json.RawMessage) error {
	var payload StatusPayload
	return json.Unmarshal(raw, &payload)
}

// validateOwnerPayload ensures owner payloads match the owner shape.
func validateOwnerPayload(raw json.RawMessage) error {
	var payload OwnerPayload
	return json.Unmarshal(raw, &payload)
}
