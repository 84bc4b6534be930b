// Package projection applies journal events to the read view stores.
//
// The outbox worker (and the optional inline apply path) hands each event to
// an Applier, which routes by event type to a handler that rewrites the
// affected view row. Handlers are registered with their store and envelope
// preconditions so misconfigured wiring fails loudly instead of silently
// dropping events.
package projection
