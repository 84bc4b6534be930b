package task

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/event"
)

// RegisterCommands registers task commands with the shared registry. newID
// supplies server-side identifiers for comments added without one; nil
// disables minting and leaves payloads untouched.
func RegisterCommands(registry *command.Registry, newID func() string) error {
	if registry == nil {
		return errors.New("command registry is required")
	}
	definitions := []command.Definition{
		{Type: commandTypeCreate, Kind: event.KindTask, Creates: true, ValidatePayload: validateCreatePayload},
		{Type: commandTypeUpdate, Kind: event.KindTask, ValidatePayload: validateUpdatePayload},
		{Type: commandTypeAssign, Kind: event.KindTask, ValidatePayload: validateAssignPayload},
		{Type: commandTypeRemoveAssignee, Kind: event.KindTask},
		{Type: commandTypeUpdateStatus, Kind: event.KindTask, ValidatePayload: validateStatusPayload},
		{Type: commandTypeComplete, Kind: event.KindTask},
		{Type: commandTypeCancel, Kind: event.KindTask},
		{Type: commandTypeSetPriority, Kind: event.KindTask, ValidatePayload: validatePriorityPayload},
		{Type: commandTypeSetDeadline, Kind: event.KindTask, ValidatePayload: validateDeadlinePayload},
		{Type: commandTypeSetRecurrence, Kind: event.KindTask, ValidatePayload: validateRecurrencePayload},
		{Type: commandTypeAddTag, Kind: event.KindTask, ValidatePayload: validateLabelPayload},
		{Type: commandTypeRemoveTag, Kind: event.KindTask, ValidatePayload: validateLabelPayload},
		{Type: commandTypeAddCategory, Kind: event.KindTask, ValidatePayload: validateLabelPayload},
		{Type: commandTypeRemoveCategory, Kind: event.KindTask, ValidatePayload: validateLabelPayload},
		{Type: commandTypeAttachFile, Kind: event.KindTask, ValidatePayload: validateFilePayload},
		{Type: commandTypeRemoveFile, Kind: event.KindTask, ValidatePayload: validateFilePayload},
		{Type: commandTypeAddComment, Kind: event.KindTask, Normalize: mintCommentID(newID), ValidatePayload: validateCommentPayload},
		{Type: commandTypeUpdateComment, Kind: event.KindTask, ValidatePayload: validateCommentPayload},
		{Type: commandTypeDeleteComment, Kind: event.KindTask, ValidatePayload: validateCommentPayload},
		{Type: commandTypeDelete, Kind: event.KindTask},
	}
	for _, def := range definitions {
		if err := registry.Register(def); err != nil {
			return err
		}
	}
	return nil
}

// mintCommentID fills in a server-side comment id when the caller omits one.
func mintCommentID(newID func() string) command.Normalizer {
	if newID == nil {
		return nil
	}
	return func(raw json.RawMessage) (json.RawMessage, error) {
		var payload CommentPayload
		if err := json.Unmarshal(raw, &payload); err != nil {
			return nil, err
		}
		if strings.TrimSpace(payload.CommentID) == "" {
			payload.CommentID = newID()
		}
		return json.Marshal(payload)
	}
}

// EmittableEventTypes returns all event types the task decider can emit.
func EmittableEventTypes() []event.Type {
	return []event.Type{
		eventTypeCreated,
		eventTypeUpdated,
		eventTypeAssigned,
		eventTypeAssigneeRemoved,
		eventTypeStatusChanged,
		eventTypeCompleted,
		eventTypeCancelled,
		eventTypePrioritySet,
		eventTypeDeadlineSet,
		eventTypeRecurrenceSet,
		eventTypeTagAdded,
		eventTypeTagRemoved,
		eventTypeCategoryAdded,
		eventTypeCategoryRemoved,
		eventTypeFileAttached,
		eventTypeFileRemoved,
		eventTypeCommentAdded,
		eventTypeCommentUpdated,
		eventTypeCommentDeleted,
		eventTypeDeleted,
	}
}

// RegisterEvents registers task events with the shared registry.
func RegisterEvents(registry *event.Registry) error {
	if registry == nil {
		return errors.New("event registry is required")
	}
	validators := map[event.Type]event.PayloadValidator{
		eventTypeCreated:         validateCreatePayload,
		eventTypeUpdated:         validateUpdatePayload,
		eventTypeAssigned:        validateAssignPayload,
		eventTypeStatusChanged:   validateStatusPayload,
		eventTypePrioritySet:     validatePriorityPayload,
		eventTypeDeadlineSet:     validateDeadlinePayload,
		eventTypeRecurrenceSet:   validateRecurrencePayload,
		eventTypeTagAdded:        validateLabelPayload,
		eventTypeTagRemoved:      validateLabelPayload,
		eventTypeCategoryAdded:   validateLabelPayload,
		eventTypeCategoryRemoved: validateLabelPayload,
		eventTypeFileAttached:    validateFilePayload,
		eventTypeFileRemoved:     validateFilePayload,
		eventTypeCommentAdded:    validateCommentPayload,
		eventTypeCommentUpdated:  validateCommentPayload,
		eventTypeCommentDeleted:  validateCommentPayload,
	}
	for _, eventType := range EmittableEventTypes() {
		def := event.Definition{Type: eventType, Kind: event.KindTask}
		if validator, ok := validators[eventType]; ok {
			def.ValidatePayload = validator
		}
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

func validateUpdatePayload(raw json.RawMessage) error {
	var payload UpdatePayload
	return json.Unmarshal(raw, &payload)
}

func validateAssignPayload(raw json.RawMessage) error {
	var payload AssignPayload
	return json.Unmarshal(raw, &payload)
}

func validateStatusPayload(raw json.RawMessage) error {
	var payload StatusPayload
	return json.Unmarshal(raw, &payload)
}

func validatePriorityPayload(raw json.RawMessage) error {
	var payload PriorityPayload
	return json.Unmarshal(raw, &payload)
}

func validateDeadlinePayload(raw json.RawMessage) error {
	var payload DeadlinePayload
	return json.Unmarshal(raw, &payload)
}

func validateRecurrencePayload(raw json.RawMessage) error {
	var payload RecurrencePayload
	return json.Unmarshal(raw, &payload)
}

func validateLabelPayload(raw json.RawMessage) error {
	var payload LabelPayload
	return json.Unmarshal(raw, &payload)
}

func validateFilePayload(raw json.RawMessage) error {
	var payload FilePayload
	return json.Unmarshal(raw, &payload)
}

func validateCommentPayload(raw json.RawMessage) error {
	var payload CommentPayload
	return json.Unmarshal(raw, &payload)
}
