package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/louisbranch/trackspace/internal/domain/aggregate"
	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/engine"
	"github.com/louisbranch/trackspace/internal/domain/event"
	"github.com/louisbranch/trackspace/internal/platform/id"
	"github.com/louisbranch/trackspace/internal/projection"
	"github.com/louisbranch/trackspace/internal/projection/worker"
	"github.com/louisbranch/trackspace/internal/storage/sqlite"
)

// Options configures a bootstrapped App.
type Options struct {
	// EventsPath is the journal database file.
	EventsPath string
	// ProjectionsPath is the read-view database file. May equal EventsPath.
	ProjectionsPath string
	// InlineApply drains projections synchronously after each accepted
	// command, for read-your-writes deployments.
	InlineApply bool
	// PollInterval and BatchSize tune the outbox worker. Zero uses the
	// worker defaults.
	PollInterval time.Duration
	BatchSize    int
	// Logf receives diagnostics from the service and worker.
	Logf func(format string, args ...any)
}

// App bundles the wired stores, service, and outbox worker for a process.
type App struct {
	Service     *Service
	Events      *sqlite.Store
	Projections *sqlite.Store
	Worker      *worker.Worker
}

// New opens the stores and wires registries, engine, projection applier,
// and outbox worker. Callers own Close.
func New(opts Options) (*App, error) {
	if opts.EventsPath == "" {
		return nil, errors.New("events database path is required")
	}
	if opts.ProjectionsPath == "" {
		return nil, errors.New("projections database path is required")
	}

	eventRegistry := event.NewRegistry()
	if err := aggregate.RegisterEvents(eventRegistry); err != nil {
		return nil, fmt.Errorf("register events: %w", err)
	}
	commandRegistry := command.NewRegistry()
	if err := aggregate.RegisterCommands(commandRegistry, mintID); err != nil {
		return nil, fmt.Errorf("register commands: %w", err)
	}

	events, err := sqlite.OpenEvents(opts.EventsPath, eventRegistry,
		sqlite.WithProjectionApplyOutboxEnabled(true))
	if err != nil {
		return nil, fmt.Errorf("open events store: %w", err)
	}
	projections, err := sqlite.OpenProjections(opts.ProjectionsPath)
	if err != nil {
		events.Close()
		return nil, fmt.Errorf("open projections store: %w", err)
	}

	drainWorker, err := worker.New(events, applyFunc(projections), worker.Config{
		PollInterval: opts.PollInterval,
		BatchSize:    opts.BatchSize,
		Logf:         opts.Logf,
	})
	if err != nil {
		events.Close()
		projections.Close()
		return nil, fmt.Errorf("build outbox worker: %w", err)
	}

	handler := &engine.Handler{
		Commands: commandRegistry,
		Events:   eventRegistry,
		Store:    events,
		Folder:   &aggregate.Folder{},
		NewID:    mintID,
	}

	serviceOpts := []ServiceOption{WithLogf(opts.Logf)}
	if opts.InlineApply {
		serviceOpts = append(serviceOpts, WithInlineApply(drainWorker))
	}
	service, err := NewService(handler, projections, serviceOpts...)
	if err != nil {
		events.Close()
		projections.Close()
		return nil, err
	}

	return &App{
		Service:     service,
		Events:      events,
		Projections: projections,
		Worker:      drainWorker,
	}, nil
}

// Close releases both database handles.
func (a *App) Close() error {
	var errs []error
	if a.Events != nil {
		if err := a.Events.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close events store: %w", err))
		}
	}
	if a.Projections != nil {
		if err := a.Projections.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close projections store: %w", err))
		}
	}
	return errors.Join(errs...)
}

// applyFunc routes one outbox delivery through the apply checkpoint into
// the projection handler registry, all inside one projections transaction.
func applyFunc(projections *sqlite.Store) func(context.Context, event.Event) error {
	return func(ctx context.Context, evt event.Event) error {
		_, err := projections.ApplyProjectionEventExactlyOnce(ctx, evt, func(ctx context.Context, evt event.Event, tx *sqlite.Store) error {
			applier := projection.Applier{Workspaces: tx, Projects: tx, Tasks: tx, Users: tx}
			return applier.Apply(ctx, evt)
		})
		return err
	}
}

// mintID generates aggregate and sub-entity identifiers. The underlying
// crypto/rand read cannot fail on supported platforms.
func mintID() string {
	generated, _ := id.New()
	return generated
}
