package app

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"

	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/event"
	"github.com/louisbranch/trackspace/internal/domain/task"
	apperrors "github.com/louisbranch/trackspace/internal/platform/errors"
	"github.com/louisbranch/trackspace/internal/storage"
)

func openTestApp(t *testing.T, inline bool) *App {
	t.Helper()
	dir := t.TempDir()
	application, err := New(Options{
		EventsPath:      filepath.Join(dir, "events.sqlite"),
		ProjectionsPath: filepath.Join(dir, "projections.sqlite"),
		InlineApply:     inline,
	})
	if err != nil {
		t.Fatalf("bootstrap app: %v", err)
	}
	t.Cleanup(func() {
		if err := application.Close(); err != nil {
			t.Errorf("close app: %v", err)
		}
	})
	return application
}

func submit(t *testing.T, a *App, kind event.Kind, typ command.Type, aggregateID string, payload any) SubmitResult {
	t.Helper()
	result, err := trySubmit(a, kind, typ, aggregateID, payload)
	if err != nil {
		t.Fatalf("submit %s: %v", typ, err)
	}
	return result
}

func trySubmit(a *App, kind event.Kind, typ command.Type, aggregateID string, payload any) (SubmitResult, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return SubmitResult{}, err
	}
	return a.Service.Submit(context.Background(), command.Command{
		AggregateID: aggregateID,
		Kind:        kind,
		Type:        typ,
		ActorID:     "u1",
		RequestID:   "req-1",
		PayloadJSON: raw,
	})
}

func drain(t *testing.T, a *App) {
	t.Helper()
	if _, err := a.Worker.Drain(context.Background()); err != nil {
		t.Fatalf("drain outbox: %v", err)
	}
}

func TestSubmitCreatesAndProjectsWorkspace(t *testing.T) {
	a := openTestApp(t, false)

	created := submit(t, a, event.KindWorkspace, "workspace.create", "", map[string]any{
		"title": "Eng", "ownerId": "u1",
	})
	if created.AggregateID == "" {
		t.Fatal("creation did not mint an aggregate id")
	}
	if created.Seq != 1 {
		t.Fatalf("seq = %d, want 1", created.Seq)
	}

	// The view lags until the worker drains the outbox.
	if _, err := a.Service.GetWorkspace(context.Background(), created.AggregateID); !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("pre-drain get error = %v, want CodeNotFound", err)
	}
	drain(t, a)

	view, err := a.Service.GetWorkspace(context.Background(), created.AggregateID)
	if err != nil {
		t.Fatalf("get workspace: %v", err)
	}
	if view.Title != "Eng" || view.OwnerID != "u1" {
		t.Fatalf("view = %+v, want title Eng owner u1", view)
	}
}

func TestSubmitRejectionsBecomeCodedErrors(t *testing.T) {
	a := openTestApp(t, false)

	_, err := trySubmit(a, event.KindWorkspace, "workspace.create", "", map[string]any{
		"title": "   ", "ownerId": "u1",
	})
	if !apperrors.HasCode(err, apperrors.CodeWorkspaceTitleEmpty) {
		t.Fatalf("error = %v, want CodeWorkspaceTitleEmpty", err)
	}

	_, err = trySubmit(a, event.KindWorkspace, "workspace.rename", "ws-missing", map[string]any{
		"title": "New",
	})
	if !apperrors.HasCode(err, apperrors.CodeWorkspaceNotFound) {
		t.Fatalf("error = %v, want CodeWorkspaceNotFound", err)
	}
}

func TestInlineApplyReadsOwnWrites(t *testing.T) {
	a := openTestApp(t, true)

	created := submit(t, a, event.KindUser, "user.create", "", map[string]any{
		"name": "Ada", "email": "ada@example.com",
	})

	view, err := a.Service.GetUser(context.Background(), created.AggregateID)
	if err != nil {
		t.Fatalf("get user after inline apply: %v", err)
	}
	if view.Name != "Ada" || !view.Active {
		t.Fatalf("view = %+v, want active user Ada", view)
	}
}

func TestWorkspaceMembershipScenario(t *testing.T) {
	a := openTestApp(t, true)

	created := submit(t, a, event.KindWorkspace, "workspace.create", "", map[string]any{
		"title": "Eng", "ownerId": "u1",
	})
	id := created.AggregateID
	submit(t, a, event.KindWorkspace, "workspace.add_member", id, map[string]any{"memberId": "u2"})
	submit(t, a, event.KindWorkspace, "workspace.remove_member", id, map[string]any{"memberId": "u2"})

	view, err := a.Service.GetWorkspace(context.Background(), id)
	if err != nil {
		t.Fatalf("get workspace: %v", err)
	}
	if len(view.MemberIDs) != 0 {
		t.Fatalf("member ids = %v, want empty", view.MemberIDs)
	}
	if view.OwnerID != "u1" {
		t.Fatalf("owner = %q, want u1", view.OwnerID)
	}
}

func TestProjectTerminalStatusScenario(t *testing.T) {
	a := openTestApp(t, true)

	created := submit(t, a, event.KindProject, "project.create", "", map[string]any{
		"title": "Rollout", "workspaceId": "ws1", "ownerId": "u1", "status": "PLANNING",
	})
	id := created.AggregateID
	submit(t, a, event.KindProject, "project.update_status", id, map[string]any{"status": "CANCELLED"})

	_, err := trySubmit(a, event.KindProject, "project.update_status", id, map[string]any{"status": "COMPLETED"})
	if !apperrors.HasCode(err, apperrors.CodeProjectInvalidStatusTransition) {
		t.Fatalf("error = %v, want CodeProjectInvalidStatusTransition", err)
	}

	view, err := a.Service.GetProject(context.Background(), id)
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if view.Status != "CANCELLED" {
		t.Fatalf("status = %q, want CANCELLED", view.Status)
	}
}

func TestTaskCompleteOnceScenario(t *testing.T) {
	a := openTestApp(t, true)

	created := submit(t, a, event.KindTask, "task.create", "", map[string]any{
		"title": "Ship it", "workspaceId": "ws1", "projectId": "p1",
	})
	id := created.AggregateID
	submit(t, a, event.KindTask, "task.assign", id, map[string]any{"userId": "u2"})
	submit(t, a, event.KindTask, "task.complete", id, nil)

	_, err := trySubmit(a, event.KindTask, "task.complete", id, nil)
	if !apperrors.HasCode(err, apperrors.CodeTaskAlreadyCompleted) {
		t.Fatalf("error = %v, want CodeTaskAlreadyCompleted", err)
	}

	view, err := a.Service.GetTask(context.Background(), id)
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if view.Status != task.StatusCompleted {
		t.Fatalf("status = %q, want COMPLETED", view.Status)
	}
	if view.AssignedUserID != "u2" {
		t.Fatalf("assignee = %q, want u2", view.AssignedUserID)
	}
}

func TestInactiveUserScenario(t *testing.T) {
	a := openTestApp(t, true)

	created := submit(t, a, event.KindUser, "user.create", "", map[string]any{
		"name": "Ada", "email": "ada@example.com",
	})
	id := created.AggregateID
	submit(t, a, event.KindUser, "user.deactivate", id, nil)

	_, err := trySubmit(a, event.KindUser, "user.update_name", id, map[string]any{"name": "Ada L"})
	if !apperrors.HasCode(err, apperrors.CodeUserInactive) {
		t.Fatalf("error = %v, want CodeUserInactive", err)
	}

	submit(t, a, event.KindUser, "user.activate", id, nil)
	submit(t, a, event.KindUser, "user.update_name", id, map[string]any{"name": "Ada L"})

	view, err := a.Service.GetUser(context.Background(), id)
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if view.Name != "Ada L" || !view.Active {
		t.Fatalf("view = %+v, want active user Ada L", view)
	}
}

func TestListTasksFiltersAndPages(t *testing.T) {
	a := openTestApp(t, true)

	for _, title := range []string{"One", "Two", "Three"} {
		created := submit(t, a, event.KindTask, "task.create", "", map[string]any{
			"title": title, "workspaceId": "ws1", "projectId": "p1",
		})
		submit(t, a, event.KindTask, "task.add_tag", created.AggregateID, map[string]any{"label": "backend"})
	}
	submit(t, a, event.KindTask, "task.create", "", map[string]any{
		"title": "Unrelated", "workspaceId": "ws2", "projectId": "p2",
	})

	filter := storage.TaskFilter{WorkspaceID: "ws1", Tag: "backend"}
	var seen int
	pageToken := ""
	for {
		page, err := a.Service.ListTasks(context.Background(), filter, 2, pageToken)
		if err != nil {
			t.Fatalf("list tasks: %v", err)
		}
		seen += len(page.Tasks)
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}
	if seen != 3 {
		t.Fatalf("listed %d tasks, want 3", seen)
	}
}

func TestGetViewDispatchesByKind(t *testing.T) {
	a := openTestApp(t, true)

	created := submit(t, a, event.KindWorkspace, "workspace.create", "", map[string]any{
		"title": "Eng", "ownerId": "u1",
	})

	got, err := a.Service.GetView(context.Background(), event.KindWorkspace, created.AggregateID)
	if err != nil {
		t.Fatalf("get view: %v", err)
	}
	record, ok := got.(storage.WorkspaceRecord)
	if !ok {
		t.Fatalf("view type = %T, want storage.WorkspaceRecord", got)
	}
	if record.Title != "Eng" {
		t.Fatalf("title = %q, want Eng", record.Title)
	}

	if _, err := a.Service.GetView(context.Background(), event.Kind("campaign"), "x"); err == nil {
		t.Fatal("expected error for unknown kind")
	}
}

func TestRedundantInlineAndWorkerDeliveries(t *testing.T) {
	a := openTestApp(t, true)

	created := submit(t, a, event.KindWorkspace, "workspace.create", "", map[string]any{
		"title": "Eng", "ownerId": "u1",
	})
	// Inline apply already consumed the rows; the background drain path
	// must find nothing left.
	drained, err := a.Worker.Drain(context.Background())
	if err != nil {
		t.Fatalf("drain outbox: %v", err)
	}
	if drained != 0 {
		t.Fatalf("drained %d rows after inline apply, want 0", drained)
	}

	if _, err := a.Service.GetWorkspace(context.Background(), created.AggregateID); err != nil {
		t.Fatalf("get workspace: %v", err)
	}
}

func TestNewServiceValidatesInput(t *testing.T) {
	if _, err := NewService(nil, nil); err == nil {
		t.Fatal("expected error for nil engine")
	}
}

func TestNewRequiresPaths(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatal("expected error for missing events path")
	}
	if _, err := New(Options{EventsPath: "x"}); err == nil {
		t.Fatal("expected error for missing projections path")
	}
}

func TestSubmitUnknownCommandType(t *testing.T) {
	a := openTestApp(t, false)

	_, err := trySubmit(a, event.KindWorkspace, "workspace.explode", "ws1", nil)
	if !errors.Is(err, command.ErrTypeUnknown) {
		t.Fatalf("error = %v, want ErrTypeUnknown", err)
	}
}
