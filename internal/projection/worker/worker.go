// Package worker drains the projection-apply outbox on a polling loop.
package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/trackspace/internal/domain/event"
)

const (
	defaultPollInterval = 2 * time.Second
	defaultBatchSize    = 50
)

// Outbox claims due projection work and hands each event to apply.
type Outbox interface {
	ProcessOutbox(ctx context.Context, now time.Time, limit int, apply func(context.Context, event.Event) error) (int, error)
}

// Config controls the drain loop cadence.
type Config struct {
	// PollInterval is how long the loop sleeps when a pass drains nothing.
	PollInterval time.Duration
	// BatchSize caps rows claimed per pass.
	BatchSize int
	// Now overrides the clock in tests.
	Now func() time.Time
	// Logf receives loop diagnostics; nil disables logging.
	Logf func(format string, args ...any)
}

func (c Config) normalized() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = defaultPollInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = defaultBatchSize
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	return c
}

// Worker repeatedly drains the outbox until its context is cancelled.
type Worker struct {
	outbox Outbox
	apply  func(context.Context, event.Event) error
	cfg    Config
}

// New builds a worker. apply runs once per claimed event; its error requeues
// the row with backoff.
func New(outbox Outbox, apply func(context.Context, event.Event) error, cfg Config) (*Worker, error) {
	if outbox == nil {
		return nil, errors.New("outbox store is required")
	}
	if apply == nil {
		return nil, errors.New("apply callback is required")
	}
	return &Worker{outbox: outbox, apply: apply, cfg: cfg.normalized()}, nil
}

// Run polls until ctx is cancelled. A pass that drains a full batch
// immediately starts another; an empty pass sleeps for the poll interval.
// Returns nil on cancellation.
func (w *Worker) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}
		processed, err := w.DrainOnce(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil
			}
			w.logf("outbox drain pass: %v", err)
		}
		if processed >= w.cfg.BatchSize {
			continue
		}
		timer := time.NewTimer(w.cfg.PollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
		}
	}
}

// DrainOnce runs a single claim-and-apply pass and reports how many rows it
// settled (completed, requeued, or dead-lettered).
func (w *Worker) DrainOnce(ctx context.Context) (int, error) {
	processed, err := w.outbox.ProcessOutbox(ctx, w.cfg.Now().UTC(), w.cfg.BatchSize, w.apply)
	if err != nil {
		return processed, fmt.Errorf("process outbox: %w", err)
	}
	return processed, nil
}

// Drain runs passes until the outbox has no due work left. Intended for
// tests and synchronous wiring that need projections caught up.
func (w *Worker) Drain(ctx context.Context) (int, error) {
	total := 0
	for {
		processed, err := w.DrainOnce(ctx)
		total += processed
		if err != nil {
			return total, err
		}
		if processed == 0 {
			return total, nil
		}
	}
}

func (w *Worker) logf(format string, args ...any) {
	if w.cfg.Logf != nil {
		w.cfg.Logf(format, args...)
	}
}
