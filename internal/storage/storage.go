package storage

import (
	"context"
	"time"

	"github.com/louisbranch/trackspace/internal/domain/event"
	"github.com/louisbranch/trackspace/internal/domain/project"
	"github.com/louisbranch/trackspace/internal/domain/task"
	"github.com/louisbranch/trackspace/internal/domain/user"
	apperrors "github.com/louisbranch/trackspace/internal/platform/errors"
)

// ErrNotFound indicates a requested persistence record is missing. Callers
// use this to differentiate legitimate "no such entity" states from
// transport or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// EventStore owns the event journal boundary that drives replay and command
// rehydration; this is the source of truth for state reconstruction.
type EventStore interface {
	// AppendEvents atomically appends events to one aggregate stream. The
	// append fails with CodeConcurrencyConflict unless expectedSeq matches
	// the stream head; stored events come back with sequences assigned
	// contiguously from expectedSeq+1.
	AppendEvents(ctx context.Context, aggregateID string, kind event.Kind, expectedSeq uint64, events []event.Event) ([]event.Event, error)
	// GetEventBySeq retrieves a specific event by sequence number.
	GetEventBySeq(ctx context.Context, aggregateID string, seq uint64) (event.Event, error)
	// ListEvents returns events ordered by sequence ascending.
	ListEvents(ctx context.Context, aggregateID string, afterSeq uint64, limit int) ([]event.Event, error)
	// GetLatestSeq returns the stream head, 0 when no events exist.
	GetLatestSeq(ctx context.Context, aggregateID string) (uint64, error)
}

// WorkspaceRecord captures the workspace read view row that queries return.
type WorkspaceRecord struct {
	ID             string
	Title          string
	OwnerID        string
	MemberIDs      []string
	Archived       bool
	Deleted        bool
	CreatedAt      time.Time
	LastModifiedAt time.Time
}

// ProjectRecord captures the project read view row that queries return.
type ProjectRecord struct {
	ID             string
	WorkspaceID    string
	Title          string
	Description    string
	OwnerID        string
	Status         project.Status
	Archived       bool
	Deleted        bool
	CreatedAt      time.Time
	LastModifiedAt time.Time
}

// TaskRecord captures the task read view row that queries return.
type TaskRecord struct {
	ID              string
	WorkspaceID     string
	ProjectID       string
	Title           string
	Description     string
	AssignedUserID  string
	Status          task.Status
	Priority        task.Priority
	Deadline        string
	RecurrenceRule  string
	Tags            []string
	Categories      []string
	CommentCount    int
	AttachmentCount int
	Deleted         bool
	CreatedAt       time.Time
	LastModifiedAt  time.Time
}

// UserRecord captures the user read view row that queries return.
type UserRecord struct {
	ID             string
	Name           string
	Email          string
	Role           user.Role
	Active         bool
	Deleted        bool
	CreatedAt      time.Time
	LastModifiedAt time.Time
}

// WorkspaceFilter selects workspace rows. Zero-valued fields do not filter.
type WorkspaceFilter struct {
	OwnerID string
	// MemberID matches workspaces whose member set contains the id.
	MemberID string
	Archived *bool
	// IncludeDeleted keeps soft-deleted rows in the result.
	IncludeDeleted bool
}

// ProjectFilter selects project rows. Zero-valued fields do not filter.
type ProjectFilter struct {
	WorkspaceID    string
	OwnerID        string
	Status         project.Status
	Archived       *bool
	IncludeDeleted bool
}

// TaskFilter selects task rows. Zero-valued fields do not filter.
type TaskFilter struct {
	WorkspaceID    string
	ProjectID      string
	AssignedUserID string
	Status         task.Status
	Priority       task.Priority
	Tag            string
	Category       string
	IncludeDeleted bool
}

// UserFilter selects user rows. Zero-valued fields do not filter.
type UserFilter struct {
	Role           user.Role
	Active         *bool
	IncludeDeleted bool
}

// WorkspacePage describes a page of workspace records.
type WorkspacePage struct {
	Workspaces    []WorkspaceRecord
	NextPageToken string
}

// ProjectPage describes a page of project records.
type ProjectPage struct {
	Projects      []ProjectRecord
	NextPageToken string
}

// TaskPage describes a page of task records.
type TaskPage struct {
	Tasks         []TaskRecord
	NextPageToken string
}

// UserPage describes a page of user records.
type UserPage struct {
	Users         []UserRecord
	NextPageToken string
}

// WorkspaceStore owns the workspace read view written by projectors.
type WorkspaceStore interface {
	PutWorkspace(ctx context.Context, record WorkspaceRecord) error
	GetWorkspace(ctx context.Context, id string) (WorkspaceRecord, error)
	ListWorkspaces(ctx context.Context, filter WorkspaceFilter, pageSize int, pageToken string) (WorkspacePage, error)
}

// ProjectStore owns the project read view written by projectors.
type ProjectStore interface {
	PutProject(ctx context.Context, record ProjectRecord) error
	GetProject(ctx context.Context, id string) (ProjectRecord, error)
	ListProjects(ctx context.Context, filter ProjectFilter, pageSize int, pageToken string) (ProjectPage, error)
}

// TaskStore owns the task read view written by projectors.
type TaskStore interface {
	PutTask(ctx context.Context, record TaskRecord) error
	GetTask(ctx context.Context, id string) (TaskRecord, error)
	ListTasks(ctx context.Context, filter TaskFilter, pageSize int, pageToken string) (TaskPage, error)
}

// UserStore owns the user read view written by projectors.
type UserStore interface {
	PutUser(ctx context.Context, record UserRecord) error
	GetUser(ctx context.Context, id string) (UserRecord, error)
	ListUsers(ctx context.Context, filter UserFilter, pageSize int, pageToken string) (UserPage, error)
}

// ViewStore bundles every read view surface the query layer needs.
type ViewStore interface {
	WorkspaceStore
	ProjectStore
	TaskStore
	UserStore
}
