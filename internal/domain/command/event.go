package command

import (
	"time"

	"github.com/louisbranch/trackspace/internal/domain/event"
)

// NewEvent builds an event.Event by copying the shared envelope fields from a
// command. Callers supply the event-specific type, payload, and timestamp.
// This eliminates per-decider boilerplate and ensures that new envelope
// fields are automatically forwarded.
func NewEvent(cmd Command, eventType event.Type, payloadJSON []byte, now time.Time) event.Event {
	return event.Event{
		AggregateID: cmd.AggregateID,
		Kind:        cmd.Kind,
		Type:        eventType,
		Timestamp:   now,
		ActorID:     cmd.ActorID,
		RequestID:   cmd.RequestID,
		PayloadJSON: payloadJSON,
	}
}
