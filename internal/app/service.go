package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/engine"
	"github.com/louisbranch/trackspace/internal/domain/event"
	apperrors "github.com/louisbranch/trackspace/internal/platform/errors"
	"github.com/louisbranch/trackspace/internal/platform/grpc/pagination"
	"github.com/louisbranch/trackspace/internal/storage"
)

var listPageSize = pagination.Limits{Default: 50, Max: 200}

// Drainer catches projections up synchronously. The outbox worker satisfies
// it; Submit uses it for read-your-writes when inline apply is configured.
type Drainer interface {
	Drain(ctx context.Context) (int, error)
}

// Service is the application surface: command submission plus view queries.
type Service struct {
	engine *engine.Handler
	views  storage.ViewStore
	// inline, when set, drains the outbox after each successful append so
	// callers immediately read their own writes. Drain failures are logged
	// and left for the background worker; they never fail the submit.
	inline Drainer
	logf   func(format string, args ...any)
}

// ServiceOption customizes a Service.
type ServiceOption func(*Service)

// WithInlineApply drains projections synchronously after each accepted
// command. Apply checkpoints make the later outbox delivery a no-op.
func WithInlineApply(d Drainer) ServiceOption {
	return func(s *Service) { s.inline = d }
}

// WithLogf routes service diagnostics. Nil disables logging.
func WithLogf(logf func(format string, args ...any)) ServiceOption {
	return func(s *Service) { s.logf = logf }
}

// NewService builds a Service around a configured engine and view store.
func NewService(handler *engine.Handler, views storage.ViewStore, opts ...ServiceOption) (*Service, error) {
	if handler == nil {
		return nil, errors.New("engine handler is required")
	}
	if views == nil {
		return nil, errors.New("view store is required")
	}
	s := &Service{engine: handler, views: views}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SubmitResult reports where an accepted command landed.
type SubmitResult struct {
	// AggregateID is the stream written to, including ids minted for
	// creation commands.
	AggregateID string
	// Seq is the stream head after the append. Unchanged for no-ops.
	Seq uint64
	// Events are the stored events, empty for no-ops.
	Events []event.Event
}

// Submit runs one command through the engine. Domain rejections come back
// as coded errors carrying the decider's rejection code; accepted no-ops
// succeed with no events.
func (s *Service) Submit(ctx context.Context, cmd command.Command) (SubmitResult, error) {
	result, err := s.engine.Execute(ctx, cmd)
	if err != nil {
		return SubmitResult{}, err
	}
	if result.Rejected() {
		rejection := result.Decision.Rejections[0]
		return SubmitResult{}, apperrors.New(apperrors.Code(rejection.Code), rejection.Message)
	}

	submit := SubmitResult{
		AggregateID: result.AggregateID,
		Seq:         result.LastSeq,
		Events:      result.Decision.Events,
	}
	if s.inline != nil && len(submit.Events) > 0 {
		if _, err := s.inline.Drain(ctx); err != nil {
			s.printf("inline projection drain after %s: %v", cmd.Type, err)
		}
	}
	return submit, nil
}

// GetWorkspace returns the workspace view row or CodeNotFound.
func (s *Service) GetWorkspace(ctx context.Context, id string) (storage.WorkspaceRecord, error) {
	return s.views.GetWorkspace(ctx, id)
}

// GetProject returns the project view row or CodeNotFound.
func (s *Service) GetProject(ctx context.Context, id string) (storage.ProjectRecord, error) {
	return s.views.GetProject(ctx, id)
}

// GetTask returns the task view row or CodeNotFound.
func (s *Service) GetTask(ctx context.Context, id string) (storage.TaskRecord, error) {
	return s.views.GetTask(ctx, id)
}

// GetUser returns the user view row or CodeNotFound.
func (s *Service) GetUser(ctx context.Context, id string) (storage.UserRecord, error) {
	return s.views.GetUser(ctx, id)
}

// GetView fetches the view row for any aggregate kind. Callers that know
// the kind statically should prefer the typed getters.
func (s *Service) GetView(ctx context.Context, kind event.Kind, id string) (any, error) {
	switch kind {
	case event.KindWorkspace:
		return s.views.GetWorkspace(ctx, id)
	case event.KindProject:
		return s.views.GetProject(ctx, id)
	case event.KindTask:
		return s.views.GetTask(ctx, id)
	case event.KindUser:
		return s.views.GetUser(ctx, id)
	default:
		return nil, fmt.Errorf("unknown aggregate kind %q", kind)
	}
}

// ListWorkspaces pages through workspace views matching the filter.
func (s *Service) ListWorkspaces(ctx context.Context, filter storage.WorkspaceFilter, pageSize int, pageToken string) (storage.WorkspacePage, error) {
	return s.views.ListWorkspaces(ctx, filter, clampPageSize(pageSize), pageToken)
}

// ListProjects pages through project views matching the filter.
func (s *Service) ListProjects(ctx context.Context, filter storage.ProjectFilter, pageSize int, pageToken string) (storage.ProjectPage, error) {
	return s.views.ListProjects(ctx, filter, clampPageSize(pageSize), pageToken)
}

// ListTasks pages through task views matching the filter.
func (s *Service) ListTasks(ctx context.Context, filter storage.TaskFilter, pageSize int, pageToken string) (storage.TaskPage, error) {
	return s.views.ListTasks(ctx, filter, clampPageSize(pageSize), pageToken)
}

// ListUsers pages through user views matching the filter.
func (s *Service) ListUsers(ctx context.Context, filter storage.UserFilter, pageSize int, pageToken string) (storage.UserPage, error) {
	return s.views.ListUsers(ctx, filter, clampPageSize(pageSize), pageToken)
}

func clampPageSize(pageSize int) int {
	return pagination.Clamp(pageSize, listPageSize)
}

func (s *Service) printf(format string, args ...any) {
	if s.logf != nil {
		s.logf(format, args...)
	}
}
