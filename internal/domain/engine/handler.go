package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/trackspace/internal/domain/aggregate"
	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/event"
	"github.com/louisbranch/trackspace/internal/domain/replay"
	apperrors "github.com/louisbranch/trackspace/internal/platform/errors"
)

const (
	defaultMaxAttempts = 3
)

var (
	// ErrCommandRegistryRequired indicates a missing command registry.
	ErrCommandRegistryRequired = errors.New("command registry is required")
	// ErrEventRegistryRequired indicates a missing event registry.
	ErrEventRegistryRequired = errors.New("event registry is required")
	// ErrEventStoreRequired indicates a missing event store.
	ErrEventStoreRequired = errors.New("event store is required")
	// ErrIDGeneratorRequired indicates a creation command with no way to
	// mint an aggregate id.
	ErrIDGeneratorRequired = errors.New("id generator is required for creation commands")
)

// EventStore is the journal surface the engine needs: ordered reads for
// replay and conditional appends for the optimistic-concurrency check.
type EventStore interface {
	ListEvents(ctx context.Context, aggregateID string, afterSeq uint64, limit int) ([]event.Event, error)
	AppendEvents(ctx context.Context, aggregateID string, kind event.Kind, expectedSeq uint64, events []event.Event) ([]event.Event, error)
}

// Handler validates, serializes, decides, and appends commands.
type Handler struct {
	Commands *command.Registry
	Events   *event.Registry
	Store    EventStore
	Folder   *aggregate.Folder
	// NewID mints aggregate identifiers for creation commands, which arrive
	// without one.
	NewID func() string
	Now   func() time.Time
	// MaxAttempts bounds load-decide-append cycles per command. Zero means
	// the default of 3.
	MaxAttempts int
	// PageSize bounds each replay page. Zero means the replay default.
	PageSize int

	locks keyedMutex
}

// Result captures execution outcomes. State and LastSeq reflect the
// aggregate after the appended events; for rejections and no-ops they
// reflect the state the decision was made against.
type Result struct {
	// AggregateID is the stream the command executed against, including
	// server-minted ids for creation commands.
	AggregateID string
	Decision    command.Decision
	State       aggregate.State
	LastSeq     uint64
}

// Rejected reports whether the command was declined by the decider.
func (r Result) Rejected() bool {
	return len(r.Decision.Rejections) > 0
}

// Execute runs one command through validate, replay, decide, and append.
//
// Rejections are not errors: the decision comes back with no events and the
// caller chooses how to surface it. Errors mean the command never reached a
// decision or the journal failed.
func (h *Handler) Execute(ctx context.Context, cmd command.Command) (Result, error) {
	if h.Commands == nil {
		return Result{}, ErrCommandRegistryRequired
	}
	if h.Events == nil {
		return Result{}, ErrEventRegistryRequired
	}
	if h.Store == nil {
		return Result{}, ErrEventStoreRequired
	}
	validated, err := h.Commands.ValidateForDecision(cmd)
	if err != nil {
		return Result{}, err
	}
	cmd = validated

	if def, ok := h.Commands.Definition(cmd.Type); ok && def.Creates {
		if h.NewID == nil {
			return Result{}, ErrIDGeneratorRequired
		}
		cmd.AggregateID = h.NewID()
	}

	folder := h.Folder
	if folder == nil {
		folder = &aggregate.Folder{}
	}
	now := h.Now
	if now == nil {
		now = time.Now
	}
	maxAttempts := h.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	unlock := h.locks.lock(cmd.AggregateID)
	defer unlock()

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}

		replayed, err := replay.Replay(ctx, h.Store, folder, cmd.AggregateID, replay.Options{PageSize: h.PageSize})
		if err != nil {
			return Result{}, err
		}

		decision, err := aggregate.Decide(replayed.State, cmd, now)
		if err != nil {
			return Result{}, err
		}
		if err := decision.Validate(); err != nil {
			decision = command.Reject(command.Rejection{
				Code:    command.RejectionCodeCommandTypeUnsupported,
				Message: fmt.Sprintf("command type %s is not handled by the %s decider", cmd.Type, cmd.Kind),
			})
		}
		result := Result{AggregateID: cmd.AggregateID, Decision: decision, State: replayed.State, LastSeq: replayed.LastSeq}
		if len(decision.Rejections) > 0 || decision.IsNoOp() {
			return result, nil
		}

		vetted := make([]event.Event, 0, len(decision.Events))
		for _, evt := range decision.Events {
			validated, err := h.Events.ValidateForAppend(evt)
			if err != nil {
				return Result{}, err
			}
			vetted = append(vetted, validated)
		}

		stored, err := h.Store.AppendEvents(ctx, cmd.AggregateID, cmd.Kind, replayed.LastSeq, vetted)
		if err != nil {
			if apperrors.HasCode(err, apperrors.CodeConcurrencyConflict) {
				lastErr = err
				continue
			}
			return Result{}, err
		}

		result.Decision.Events = stored
		state := replayed.State
		for _, evt := range stored {
			state, err = folder.Fold(state, evt)
			if err != nil {
				return Result{}, err
			}
			result.LastSeq = evt.Seq
		}
		result.State = state
		return result, nil
	}

	return Result{}, apperrors.Wrap(apperrors.CodeConflictExhausted,
		fmt.Sprintf("aggregate %s kept moving during %d append attempts", cmd.AggregateID, maxAttempts), lastErr)
}
