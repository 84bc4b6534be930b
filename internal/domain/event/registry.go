package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrAggregateIDRequired indicates a missing aggregate id.
	ErrAggregateIDRequired = errors.New("aggregate id is required")
	// ErrKindRequired indicates a missing aggregate kind.
	ErrKindRequired = errors.New("aggregate kind is required")
	// ErrKindMismatch indicates an event emitted for the wrong aggregate kind.
	ErrKindMismatch = errors.New("event type belongs to a different aggregate kind")
	// ErrTypeRequired indicates a missing event type.
	ErrTypeRequired = errors.New("event type is required")
	// ErrTypeUnknown indicates an unregistered event type.
	ErrTypeUnknown = errors.New("event type is not registered")
	// ErrTimestampRequired indicates a missing event timestamp.
	ErrTimestampRequired = errors.New("event timestamp is required")
	// ErrPayloadInvalid indicates malformed payload JSON.
	ErrPayloadInvalid = errors.New("payload json must be valid")
	// ErrSeqAssigned indicates a caller tried to append a pre-sequenced event.
	ErrSeqAssigned = errors.New("event seq is assigned by storage")
)

// PayloadValidator validates a payload JSON document.
type PayloadValidator func(json.RawMessage) error

// Definition registers metadata for an event type.
type Definition struct {
	Type            Type
	Kind            Kind
	ValidatePayload PayloadValidator
}

// Registry stores event definitions and validates events before append.
type Registry struct {
	definitions map[Type]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[Type]Definition)}
}

// Register adds a new event type definition to the registry.
func (r *Registry) Register(def Definition) error {
	if r == nil {
		return errors.New("registry is required")
	}
	def.Type = Type(strings.TrimSpace(string(def.Type)))
	if def.Type == "" {
		return ErrTypeRequired
	}
	if !def.Kind.IsValid() {
		return ErrKindRequired
	}
	if _, exists := r.definitions[def.Type]; exists {
		return fmt.Errorf("event type %q is already registered", def.Type)
	}
	r.definitions[def.Type] = def
	return nil
}

// Definition returns the definition for an event type.
func (r *Registry) Definition(t Type) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	def, ok := r.definitions[t]
	return def, ok
}

// Types returns all registered event types sorted for deterministic iteration.
func (r *Registry) Types() []Type {
	if r == nil {
		return nil
	}
	types := make([]Type, 0, len(r.definitions))
	for t := range r.definitions {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

// ValidateForAppend checks an event envelope before persistence and returns
// the normalized event. Storage assigns Seq, so a non-zero Seq is rejected to
// catch accidental re-appends of stored events.
func (r *Registry) ValidateForAppend(evt Event) (Event, error) {
	if r == nil {
		return Event{}, errors.New("registry is required")
	}
	evt.AggregateID = strings.TrimSpace(evt.AggregateID)
	if evt.AggregateID == "" {
		return Event{}, ErrAggregateIDRequired
	}
	if !evt.Kind.IsValid() {
		return Event{}, ErrKindRequired
	}
	if !evt.Type.IsValid() {
		return Event{}, ErrTypeRequired
	}
	def, ok := r.definitions[evt.Type]
	if !ok {
		return Event{}, fmt.Errorf("%w: %s", ErrTypeUnknown, evt.Type)
	}
	if def.Kind != evt.Kind {
		return Event{}, fmt.Errorf("%w: %s is owned by %s", ErrKindMismatch, evt.Type, def.Kind)
	}
	if evt.Seq != 0 {
		return Event{}, ErrSeqAssigned
	}
	if evt.Timestamp.IsZero() {
		return Event{}, ErrTimestampRequired
	}
	if len(evt.PayloadJSON) == 0 {
		evt.PayloadJSON = []byte("{}")
	}
	if !json.Valid(evt.PayloadJSON) {
		return Event{}, ErrPayloadInvalid
	}
	if def.ValidatePayload != nil {
		if err := def.ValidatePayload(evt.PayloadJSON); err != nil {
			return Event{}, fmt.Errorf("invalid %s payload: %w", evt.Type, err)
		}
	}
	return evt, nil
}
