package task

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/event"
)

func TestRegisterCommands_MintsCommentID(t *testing.T) {
	registry := command.NewRegistry()
	if err := RegisterCommands(registry, func() string { return "cmt-fixed" }); err != nil {
		t.Fatalf("register commands: %v", err)
	}

	cmd := command.Command{
		AggregateID: "task-1",
		Type:        commandTypeAddComment,
		PayloadJSON: []byte(`{"content":"hello"}`),
	}
	validated, err := registry.ValidateForDecision(cmd)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	var payload CommentPayload
	if err := json.Unmarshal(validated.PayloadJSON, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.CommentID != "cmt-fixed" {
		t.Fatalf("comment id = %q, want cmt-fixed", payload.CommentID)
	}
}

func TestRegisterCommands_KeepsCallerCommentID(t *testing.T) {
	registry := command.NewRegistry()
	if err := RegisterCommands(registry, func() string { return "cmt-fixed" }); err != nil {
		t.Fatalf("register commands: %v", err)
	}

	cmd := command.Command{
		AggregateID: "task-1",
		Type:        commandTypeAddComment,
		PayloadJSON: []byte(`{"commentId":"c-7","content":"hello"}`),
	}
	validated, err := registry.ValidateForDecision(cmd)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	var payload CommentPayload
	if err := json.Unmarshal(validated.PayloadJSON, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.CommentID != "c-7" {
		t.Fatalf("comment id = %q, want c-7", payload.CommentID)
	}
}

func TestRegisterCommands_NilMinterLeavesPayload(t *testing.T) {
	registry := command.NewRegistry()
	if err := RegisterCommands(registry, nil); err != nil {
		t.Fatalf("register commands: %v", err)
	}

	cmd := command.Command{
		AggregateID: "task-1",
		Type:        commandTypeAddComment,
		PayloadJSON: []byte(`{"content":"hello"}`),
	}
	validated, err := registry.ValidateForDecision(cmd)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	var payload CommentPayload
	if err := json.Unmarshal(validated.PayloadJSON, &payload); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	if payload.CommentID != "" {
		t.Fatalf("comment id = %q, want empty", payload.CommentID)
	}
}

func TestRegisterEvents_AcceptsEmittedEvents(t *testing.T) {
	registry := event.NewRegistry()
	if err := RegisterEvents(registry); err != nil {
		t.Fatalf("register events: %v", err)
	}

	for _, eventType := range EmittableEventTypes() {
		evt := event.Event{
			AggregateID: "task-1",
			Kind:        event.KindTask,
			Type:        eventType,
			Timestamp:   time.Unix(0, 0).UTC(),
			PayloadJSON: []byte(`{}`),
		}
		if _, err := registry.ValidateForAppend(evt); err != nil {
			t.Fatalf("event %s rejected: %v", eventType, err)
		}
	}
}
