// Package event defines the canonical event envelope and event-type registry
// used by the tracker write path.
//
// Events are immutable business facts emitted by accepted decisions. The
// registry enforces aggregate-kind ownership and payload validity before
// persistence assigns sequence numbers.
//
// A stable event contract is the foundation for replay, projection
// correctness, and cross-service consumers that depend on the same semantic
// names.
package event
