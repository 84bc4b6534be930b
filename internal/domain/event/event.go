package event

import (
	"strings"
	"time"
)

// Kind identifies which aggregate kind an event stream belongs to.
type Kind string

const (
	// KindWorkspace marks events on a workspace aggregate.
	KindWorkspace Kind = "workspace"
	// KindProject marks events on a project aggregate.
	KindProject Kind = "project"
	// KindTask marks events on a task aggregate.
	KindTask Kind = "task"
	// KindUser marks events on a user aggregate.
	KindUser Kind = "user"
)

// Kinds returns all aggregate kinds in a stable order.
func Kinds() []Kind {
	return []Kind{KindWorkspace, KindProject, KindTask, KindUser}
}

// IsValid reports whether the kind is one of the known aggregate kinds.
func (k Kind) IsValid() bool {
	switch k {
	case KindWorkspace, KindProject, KindTask, KindUser:
		return true
	default:
		return false
	}
}

// Type identifies the type of a tracker event.
type Type string

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the domain prefix of the event type (e.g., "workspace", "task").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}

// Event represents an immutable event in the append-only journal.
type Event struct {
	// AggregateID is the aggregate instance this event belongs to.
	AggregateID string
	// Kind is the aggregate kind owning the stream.
	Kind Kind
	// Seq is the event sequence number within the aggregate (starts at 1).
	// Assigned by storage on append.
	Seq uint64
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// Type identifies the kind of event.
	Type Type
	// ActorID identifies the user who triggered the event, when known.
	ActorID string
	// RequestID correlates events emitted by the same command submission.
	RequestID string
	// PayloadJSON holds event-specific data as JSON.
	PayloadJSON []byte
}
