package user

import (
	"encoding/json"
	"errors"

	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/event"
)

// RegisterCommands registers user commands with the shared registry.
func RegisterCommands(registry *command.Registry) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	definitions := []command.Definition{
		{Type: commandTypeCreate, Kind: event.KindUser, Creates: true, ValidatePayload: validateCreatePayload},
		{Type: commandTypeUpdateName, Kind: event.KindUser, ValidatePayload: validateNamePayload},
		{Type: commandTypeUpdateEmail, Kind: event.KindUser, ValidatePayload: validateEmailPayload},
		{Type: commandTypeChangeRole, Kind: event.KindUser, ValidatePayload: validateRolePayload},
		{Type: commandTypeDeactivate, Kind: event.KindUser},
		{Type: commandTypeActivate, Kind: event.KindUser},
		{Type: commandTypeDelete, Kind: event.KindUser},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// EmittableEventTypes returns all event types the user decider can emit.
func EmittableEventTypes() []event.Type {
	return []event.Type{
		eventTypeCreated,
		eventTypeNameUpdated,
		eventTypeEmailUpdated,
		eventTypeRoleChanged,
		eventTypeDeactivated,
		eventTypeActivated,
		eventTypeDeleted,
	}
}

// RegisterEvents registers user events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	definitions := []event.Definition{
		{Type: eventTypeCreated, Kind: event.KindUser, ValidatePayload: validateCreatePayload},
		{Type: eventTypeNameUpdated, Kind: event.KindUser, ValidatePayload: validateNamePayload},
		{Type: eventTypeEmailUpdated, Kind: event.KindUser, ValidatePayload: validateEmailPayload},
		{Type: eventTypeRoleChanged, Kind: event.KindUser, ValidatePayload: validateRolePayload},
		{Type: eventTypeDeactivated, Kind: event.KindUser},
		{Type: eventTypeActivated, Kind: event.KindUser},
		{Type: eventTypeDeleted, Kind: event.KindUser},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

func validateCreatePayload(raw json.RawMessage) error {
	var payload CreatePayload
	return json.Unmarshal(raw, &payload)
}

func validateNamePayload(raw json.RawMessage) error {
	var payload NamePayload
	return json.Unmarshal(raw, &payload)
}

func validateEmailPayload(raw json.RawMessage) error {
	var payload EmailPayload
	return json.Unmarshal(raw, &payload)
}

func validateRolePayload(raw json.RawMessage) error {
	var payload RolePayload
	return json.Unmarshal(raw, &payload)
}
