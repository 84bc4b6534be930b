package projection

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/louisbranch/trackspace/internal/domain/event"
)

// storeRequirement specifies which stores a handler depends on. Requirements
// are checked before dispatch; the handler will not execute if any required
// store is nil.
type storeRequirement uint8

const (
	needWorkspace storeRequirement = 1 << iota
	needProject
	needTask
	needUser
)

// routeEntry declares the preconditions and apply function for one event type.
type routeEntry struct {
	stores storeRequirement
	apply  func(Applier, context.Context, event.Event) error
}

// Router dispatches projection events by type, checking store preconditions
// before calling the handler. Typed handlers registered via Handle receive
// auto-unmarshalled payloads, eliminating per-handler decode boilerplate.
type Router struct {
	handlers map[event.Type]routeEntry
	types    []event.Type
}

// Route dispatches an event to the registered handler after checking
// preconditions. Returns an error for unknown event types, precondition
// failures, or handler errors.
func (r *Router) Route(a Applier, ctx context.Context, evt event.Event) error {
	h, ok := r.handlers[evt.Type]
	if !ok {
		return fmt.Errorf("unhandled projection event type: %s", evt.Type)
	}
	if strings.TrimSpace(evt.AggregateID) == "" {
		return fmt.Errorf("aggregate id is required")
	}
	if err := a.validateStores(h.stores); err != nil {
		return err
	}
	return h.apply(a, ctx, evt)
}

// HandledTypes returns all registered event types in registration order.
func (r *Router) HandledTypes() []event.Type {
	return append([]event.Type(nil), r.types...)
}

// Handle registers a typed handler for the given event type. The handler
// receives a pre-unmarshalled payload; the event.Event is also passed through
// for envelope fields (AggregateID, Timestamp, ActorID).
func Handle[P any](r *Router, t event.Type, stores storeRequirement,
	fn func(Applier, context.Context, event.Event, P) error) {
	r.handlers[t] = routeEntry{
		stores: stores,
		apply: func(a Applier, ctx context.Context, evt event.Event) error {
			var payload P
			if len(evt.PayloadJSON) > 0 {
				if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
					return fmt.Errorf("decode %s payload: %w", t, err)
				}
			}
			return fn(a, ctx, evt, payload)
		},
	}
	r.types = append(r.types, t)
}

// HandleRaw registers a handler that does not unmarshal a payload. Use for
// event types where the handler needs no payload data (e.g. task.completed).
func HandleRaw(r *Router, t event.Type, stores storeRequirement,
	fn func(Applier, context.Context, event.Event) error) {
	r.handlers[t] = routeEntry{
		stores: stores,
		apply:  fn,
	}
	r.types = append(r.types, t)
}

func (a Applier) validateStores(stores storeRequirement) error {
	if stores&needWorkspace != 0 && a.Workspaces == nil {
		return fmt.Errorf("workspace store is not configured")
	}
	if stores&needProject != 0 && a.Projects == nil {
		return fmt.Errorf("project store is not configured")
	}
	if stores&needTask != 0 && a.Tasks == nil {
		return fmt.Errorf("task store is not configured")
	}
	if stores&needUser != 0 && a.Users == nil {
		return fmt.Errorf("user store is not configured")
	}
	return nil
}
