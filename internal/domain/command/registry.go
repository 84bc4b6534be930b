package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/louisbranch/trackspace/internal/domain/event"
	"github.com/louisbranch/trackspace/internal/platform/encoding"
)

var (
	// ErrAggregateIDRequired indicates a missing aggregate id on a
	// non-creating command.
	ErrAggregateIDRequired = errors.New("aggregate id is required")
	// ErrAggregateIDForbidden indicates an aggregate id supplied to a
	// creating command, which mints its own id.
	ErrAggregateIDForbidden = errors.New("aggregate id must be empty for creating commands")
	// ErrKindRequired indicates a missing aggregate kind.
	ErrKindRequired = errors.New("aggregate kind is required")
	// ErrKindMismatch indicates a command addressed to the wrong aggregate kind.
	ErrKindMismatch = errors.New("command kind does not match definition")
	// ErrTypeRequired indicates a missing command type.
	ErrTypeRequired = errors.New("command type is required")
	// ErrTypeUnknown indicates an unregistered command type.
	ErrTypeUnknown = errors.New("command type is not registered")
	// ErrPayloadInvalid indicates malformed payload JSON.
	ErrPayloadInvalid = errors.New("payload json must be valid")
)

// Type identifies the command type string, e.g. "task.create".
type Type string

// Command captures the canonical command envelope.
type Command struct {
	AggregateID string
	Kind        event.Kind
	Type        Type
	ActorID     string
	RequestID   string
	PayloadJSON []byte
}

// PayloadValidator validates a payload JSON document.
type PayloadValidator func(json.RawMessage) error

// Normalizer rewrites a command payload before validation, e.g. to mint
// server-side identifiers for sub-entities.
type Normalizer func(json.RawMessage) (json.RawMessage, error)

// Definition registers metadata for a command type.
type Definition struct {
	Type Type
	// Kind is the aggregate kind the command addresses.
	Kind event.Kind
	// Creates marks commands that start a new aggregate stream. The router
	// mints the aggregate id for these instead of requiring one.
	Creates bool
	// Normalize, when set, rewrites the payload before validation.
	Normalize Normalizer
	// ValidatePayload, when set, checks the normalized payload.
	ValidatePayload PayloadValidator
}

// Registry stores command definitions and validates commands.
type Registry struct {
	definitions map[Type]Definition
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{definitions: make(map[Type]Definition)}
}

// Register adds a new command type definition to the registry.
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
	if r.definitions == nil {
		r.definitions = make(map[Type]Definition)
	}
	if _, exists := r.definitions[def.Type]; exists {
		return fmt.Errorf("command type already registered: %s", def.Type)
	}
	r.definitions[def.Type] = def
	return nil
}

// ValidateForDecision validates and normalizes a command before decision
// handling. Payloads come back in canonical JSON form.
func (r *Registry) ValidateForDecision(cmd Command) (Command, error) {
	cmd.Type = Type(strings.TrimSpace(string(cmd.Type)))
	if cmd.Type == "" {
		return Command{}, ErrTypeRequired
	}
	def, ok := r.definitions[cmd.Type]
	if !ok {
		return Command{}, ErrTypeUnknown
	}

	cmd.Kind = event.Kind(strings.TrimSpace(string(cmd.Kind)))
	if cmd.Kind == "" {
		cmd.Kind = def.Kind
	}
	if cmd.Kind != def.Kind {
		return Command{}, ErrKindMismatch
	}

	cmd.AggregateID = strings.TrimSpace(cmd.AggregateID)
	if def.Creates {
		if cmd.AggregateID != "" {
			return Command{}, ErrAggregateIDForbidden
		}
	} else if cmd.AggregateID == "" {
		return Command{}, ErrAggregateIDRequired
	}

	cmd.ActorID = strings.TrimSpace(cmd.ActorID)
	cmd.RequestID = strings.TrimSpace(cmd.RequestID)

	if len(cmd.PayloadJSON) == 0 {
		cmd.PayloadJSON = []byte("{}")
	}
	if !json.Valid(cmd.PayloadJSON) {
		return Command{}, ErrPayloadInvalid
	}

	if def.Normalize != nil {
		normalized, err := def.Normalize(json.RawMessage(cmd.PayloadJSON))
		if err != nil {
			return Command{}, fmt.Errorf("normalize payload: %w", err)
		}
		cmd.PayloadJSON = normalized
	}

	canonical, err := encoding.CanonicalJSON(json.RawMessage(cmd.PayloadJSON))
	if err != nil {
		return Command{}, fmt.Errorf("canonical payload json: %w", err)
	}
	cmd.PayloadJSON = canonical

	if def.ValidatePayload != nil {
		if err := def.ValidatePayload(json.RawMessage(cmd.PayloadJSON)); err != nil {
			return Command{}, fmt.Errorf("payload invalid: %w", err)
		}
	}
	return cmd, nil
}

// Definition returns the command definition for a given type.
func (r *Registry) Definition(cmdType Type) (Definition, bool) {
	if r == nil {
		return Definition{}, false
	}
	cmdType = Type(strings.TrimSpace(string(cmdType)))
	if cmdType == "" {
		return Definition{}, false
	}
	def, ok := r.definitions[cmdType]
	return def, ok
}

// ListDefinitions returns a stable, sorted snapshot of registered definitions.
func (r *Registry) ListDefinitions() []Definition {
	if r == nil || len(r.definitions) == 0 {
		return nil
	}
	definitions := make([]Definition, 0, len(r.definitions))
	for _, definition := range r.definitions {
		definitions = append(definitions, definition)
	}
	sort.Slice(definitions, func(i, j int) bool {
		return string(definitions[i].Type) < string(definitions[j].Type)
	})
	return definitions
}
