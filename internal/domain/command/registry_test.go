package command

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/louisbranch/trackspace/internal/domain/event"
)

func TestRegistryValidateForDecision_MissingAggregateID(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{
		Type: Type("task.update"),
		Kind: event.KindTask,
	}); err != nil {
		t.Fatalf("register type: %v", err)
	}

	cmd := Command{
		Type:        Type("task.update"),
		PayloadJSON: []byte("{}"),
	}

	_, err := registry.ValidateForDecision(cmd)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrAggregateIDRequired) {
		t.Fatalf("expected ErrAggregateIDRequired, got %v", err)
	}
}

func TestRegistryValidateForDecision_CreatingCommandRejectsAggregateID(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{
		Type:    Type("task.create"),
		Kind:    event.KindTask,
		Creates: true,
	}); err != nil {
		t.Fatalf("register type: %v", err)
	}

	cmd := Command{
		AggregateID: "task-1",
		Type:        Type("task.create"),
		PayloadJSON: []byte("{}"),
	}

	_, err := registry.ValidateForDecision(cmd)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrAggregateIDForbidden) {
		t.Fatalf("expected ErrAggregateIDForbidden, got %v", err)
	}
}

func TestRegistryValidateForDecision_UnknownType(t *testing.T) {
	registry := NewRegistry()

	cmd := Command{
		AggregateID: "task-1",
		Type:        Type("unknown.command"),
		PayloadJSON: []byte("{}"),
	}

	_, err := registry.ValidateForDecision(cmd)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrTypeUnknown) {
		t.Fatalf("expected ErrTypeUnknown, got %v", err)
	}
}

func TestRegistryValidateForDecision_MissingType(t *testing.T) {
	registry := NewRegistry()

	cmd := Command{
		AggregateID: "task-1",
		PayloadJSON: []byte("{}"),
	}

	_, err := registry.ValidateForDecision(cmd)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrTypeRequired) {
		t.Fatalf("expected ErrTypeRequired, got %v", err)
	}
}

func TestRegistryValidateForDecision_KindMismatch(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{
		Type: Type("task.update"),
		Kind: event.KindTask,
	}); err != nil {
		t.Fatalf("register type: %v", err)
	}

	cmd := Command{
		AggregateID: "task-1",
		Kind:        event.KindProject,
		Type:        Type("task.update"),
		PayloadJSON: []byte("{}"),
	}

	_, err := registry.ValidateForDecision(cmd)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrKindMismatch) {
		t.Fatalf("expected ErrKindMismatch, got %v", err)
	}
}

func TestRegistryValidateForDecision_DefaultsKindFromDefinition(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{
		Type: Type("task.update"),
		Kind: event.KindTask,
	}); err != nil {
		t.Fatalf("register type: %v", err)
	}

	cmd := Command{
		AggregateID: "task-1",
		Type:        Type("task.update"),
		PayloadJSON: []byte(`{"title":"new"}`),
	}

	validated, err := registry.ValidateForDecision(cmd)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if validated.Kind != event.KindTask {
		t.Fatalf("expected kind task, got %q", validated.Kind)
	}
}

func TestRegistryValidateForDecision_InvalidPayload(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{
		Type: Type("task.update"),
		Kind: event.KindTask,
	}); err != nil {
		t.Fatalf("register type: %v", err)
	}

	cmd := Command{
		AggregateID: "task-1",
		Type:        Type("task.update"),
		PayloadJSON: []byte("{not json"),
	}

	_, err := registry.ValidateForDecision(cmd)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrPayloadInvalid) {
		t.Fatalf("expected ErrPayloadInvalid, got %v", err)
	}
}

func TestRegistryValidateForDecision_EmptyPayloadDefaults(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{
		Type: Type("task.complete"),
		Kind: event.KindTask,
	}); err != nil {
		t.Fatalf("register type: %v", err)
	}

	cmd := Command{
		AggregateID: "task-1",
		Type:        Type("task.complete"),
	}

	validated, err := registry.ValidateForDecision(cmd)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if string(validated.PayloadJSON) != "{}" {
		t.Fatalf("expected empty object payload, got %s", validated.PayloadJSON)
	}
}

func TestRegistryValidateForDecision_CanonicalizesPayload(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{
		Type: Type("task.update"),
		Kind: event.KindTask,
	}); err != nil {
		t.Fatalf("register type: %v", err)
	}

	cmd := Command{
		AggregateID: "task-1",
		Type:        Type("task.update"),
		PayloadJSON: []byte(`{ "z": 1, "a": 2 }`),
	}

	validated, err := registry.ValidateForDecision(cmd)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if string(validated.PayloadJSON) != `{"a":2,"z":1}` {
		t.Fatalf("expected canonical payload, got %s", validated.PayloadJSON)
	}
}

func TestRegistryValidateForDecision_NormalizeRunsBeforeValidate(t *testing.T) {
	registry := NewRegistry()
	if err := registry.Register(Definition{
		Type:    Type("task.add_comment"),
		Kind:    event.KindTask,
		Creates: false,
		Normalize: func(payload json.RawMessage) (json.RawMessage, error) {
			var body struct {
				CommentID string `json:"commentId"`
				Text      string `json:"text"`
			}
			if err := json.Unmarshal(payload, &body); err != nil {
				return nil, err
			}
			body.CommentID = "cmt-minted"
			return json.Marshal(body)
		},
		ValidatePayload: func(payload json.RawMessage) error {
			var body struct {
				CommentID string `json:"commentId"`
			}
			if err := json.Unmarshal(payload, &body); err != nil {
				return err
			}
			if body.CommentID == "" {
				return fmt.Errorf("comment id missing")
			}
			return nil
		},
	}); err != nil {
		t.Fatalf("register type: %v", err)
	}

	cmd := Command{
		AggregateID: "task-1",
		Type:        Type("task.add_comment"),
		PayloadJSON: []byte(`{"text":"hello"}`),
	}

	validated, err := registry.ValidateForDecision(cmd)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	var body struct {
		CommentID string `json:"commentId"`
	}
	if err := json.Unmarshal(validated.PayloadJSON, &body); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if body.CommentID != "cmt-minted" {
		t.Fatalf("expected minted comment id, got %q", body.CommentID)
	}
}

func TestRegistryRegister_Duplicate(t *testing.T) {
	registry := NewRegistry()
	def := Definition{Type: Type("user.create"), Kind: event.KindUser, Creates: true}
	if err := registry.Register(def); err != nil {
		t.Fatalf("register type: %v", err)
	}
	if err := registry.Register(def); err == nil {
		t.Fatal("expected duplicate registration error")
	}
}

func TestRegistryListDefinitions_Sorted(t *testing.T) {
	registry := NewRegistry()
	for _, cmdType := range []Type{"task.update", "project.create", "user.create"} {
		kind := event.KindTask
		switch cmdType {
		case "project.create":
			kind = event.KindProject
		case "user.create":
			kind = event.KindUser
		}
		if err := registry.Register(Definition{Type: cmdType, Kind: kind}); err != nil {
			t.Fatalf("register %s: %v", cmdType, err)
		}
	}

	definitions := registry.ListDefinitions()
	if len(definitions) != 3 {
		t.Fatalf("expected 3 definitions, got %d", len(definitions))
	}
	want := []Type{"project.create", "task.update", "user.create"}
	for i, def := range definitions {
		if def.Type != want[i] {
			t.Fatalf("definition %d = %s, want %s", i, def.Type, want[i])
		}
	}
}
