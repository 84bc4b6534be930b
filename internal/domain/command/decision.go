package command

import (
	"errors"

	"github.com/louisbranch/trackspace/internal/domain/event"
)

// Shared rejection codes used by every decider for envelope-level failures.
const (
	// RejectionCodePayloadDecodeFailed signals a payload that did not decode
	// into the shape the command requires.
	RejectionCodePayloadDecodeFailed = "COMMAND_INVALID_PAYLOAD"
	// RejectionCodeCommandTypeUnsupported signals a command type the decider
	// does not handle.
	RejectionCodeCommandTypeUnsupported = "COMMAND_TYPE_UNKNOWN"
)

// Decision represents the pure outcome of handling a command.
type Decision struct {
	Events     []event.Event
	Rejections []Rejection
}

// Rejection captures a domain-level reason a command was declined.
type Rejection struct {
	Code    string
	Message string
}

// Accept returns a decision that emits the provided events. Accept with no
// events records a deliberate no-op: the command was legal but changes
// nothing, so nothing is appended.
func Accept(events ...event.Event) Decision {
	return Decision{Events: append(make([]event.Event, 0, len(events)), events...)}
}

// Reject returns a decision that carries the provided rejections.
func Reject(rejections ...Rejection) Decision {
	return Decision{Rejections: append([]Rejection(nil), rejections...)}
}

// Validate checks that the decision carries an outcome. A decider must
// accept (possibly with zero events), or explain the refusal; the zero
// Decision means the command type was not handled at all.
func (d Decision) Validate() error {
	if d.Events == nil && len(d.Rejections) == 0 {
		return errors.New("decision must carry events or rejections")
	}
	return nil
}

// IsNoOp reports whether the decision accepted the command without emitting
// events.
func (d Decision) IsNoOp() bool {
	return d.Events != nil && len(d.Events) == 0 && len(d.Rejections) == 0
}
