package sqlite

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/louisbranch/trackspace/internal/domain/project"
	"github.com/louisbranch/trackspace/internal/domain/task"
	"github.com/louisbranch/trackspace/internal/domain/user"
	"github.com/louisbranch/trackspace/internal/storage"
)

var viewNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestWorkspaceViewRoundTrip(t *testing.T) {
	store := openTestProjectionsStore(t)

	record := storage.WorkspaceRecord{
		ID:             "ws-1",
		Title:          "Docs",
		OwnerID:        "u1",
		MemberIDs:      []string{"u1", "u2"},
		Archived:       true,
		CreatedAt:      viewNow,
		LastModifiedAt: viewNow.Add(time.Minute),
	}
	if err := store.PutWorkspace(context.Background(), record); err != nil {
		t.Fatalf("put workspace: %v", err)
	}

	got, err := store.GetWorkspace(context.Background(), "ws-1")
	if err != nil {
		t.Fatalf("get workspace: %v", err)
	}
	if got.Title != "Docs" || got.OwnerID != "u1" || !got.Archived {
		t.Fatalf("expected stored workspace back, got %+v", got)
	}
	if len(got.MemberIDs) != 2 || got.MemberIDs[1] != "u2" {
		t.Fatalf("expected member ids to survive, got %v", got.MemberIDs)
	}
	if !got.CreatedAt.Equal(viewNow) || !got.LastModifiedAt.Equal(viewNow.Add(time.Minute)) {
		t.Fatalf("expected timestamps to survive, got %+v", got)
	}

	// Upsert replaces the row in place.
	record.Title = "Docs v2"
	record.Archived = false
	if err := store.PutWorkspace(context.Background(), record); err != nil {
		t.Fatalf("put workspace again: %v", err)
	}
	got, err = store.GetWorkspace(context.Background(), "ws-1")
	if err != nil {
		t.Fatalf("get workspace after upsert: %v", err)
	}
	if got.Title != "Docs v2" || got.Archived {
		t.Fatalf("expected upserted workspace, got %+v", got)
	}
}

func TestGetWorkspaceNotFound(t *testing.T) {
	store := openTestProjectionsStore(t)

	if _, err := store.GetWorkspace(context.Background(), "missing"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListWorkspacesFilters(t *testing.T) {
	store := openTestProjectionsStore(t)

	put := func(id, owner string, members []string, archived, deleted bool) {
		t.Helper()
		if err := store.PutWorkspace(context.Background(), storage.WorkspaceRecord{
			ID:             id,
			Title:          "Workspace " + id,
			OwnerID:        owner,
			MemberIDs:      members,
			Archived:       archived,
			Deleted:        deleted,
			CreatedAt:      viewNow,
			LastModifiedAt: viewNow,
		}); err != nil {
			t.Fatalf("put workspace %s: %v", id, err)
		}
	}
	put("ws-a", "u1", []string{"u1", "u2"}, false, false)
	put("ws-b", "u1", []string{"u1"}, true, false)
	put("ws-c", "u2", []string{"u2", "u3"}, false, false)
	put("ws-d", "u2", []string{"u2"}, false, true)

	page, err := store.ListWorkspaces(context.Background(), storage.WorkspaceFilter{OwnerID: "u1"}, 10, "")
	if err != nil {
		t.Fatalf("list by owner: %v", err)
	}
	if len(page.Workspaces) != 2 {
		t.Fatalf("expected 2 workspaces for u1, got %d", len(page.Workspaces))
	}

	page, err = store.ListWorkspaces(context.Background(), storage.WorkspaceFilter{MemberID: "u2"}, 10, "")
	if err != nil {
		t.Fatalf("list by member: %v", err)
	}
	if len(page.Workspaces) != 2 || page.Workspaces[0].ID != "ws-a" || page.Workspaces[1].ID != "ws-c" {
		t.Fatalf("expected ws-a and ws-c for member u2, got %+v", page.Workspaces)
	}

	archived := true
	page, err = store.ListWorkspaces(context.Background(), storage.WorkspaceFilter{Archived: &archived}, 10, "")
	if err != nil {
		t.Fatalf("list archived: %v", err)
	}
	if len(page.Workspaces) != 1 || page.Workspaces[0].ID != "ws-b" {
		t.Fatalf("expected only ws-b archived, got %+v", page.Workspaces)
	}

	page, err = store.ListWorkspaces(context.Background(), storage.WorkspaceFilter{IncludeDeleted: true}, 10, "")
	if err != nil {
		t.Fatalf("list including deleted: %v", err)
	}
	if len(page.Workspaces) != 4 {
		t.Fatalf("expected 4 workspaces with deleted, got %d", len(page.Workspaces))
	}
}

func TestListWorkspacesPagination(t *testing.T) {
	store := openTestProjectionsStore(t)

	for i := 0; i < 5; i++ {
		seedWorkspaceView(t, store, fmt.Sprintf("ws-%02d", i), "u1", viewNow)
	}

	first, err := store.ListWorkspaces(context.Background(), storage.WorkspaceFilter{}, 2, "")
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if len(first.Workspaces) != 2 || first.NextPageToken == "" {
		t.Fatalf("expected full first page with token, got %d rows", len(first.Workspaces))
	}
	if first.Workspaces[0].ID != "ws-00" || first.Workspaces[1].ID != "ws-01" {
		t.Fatalf("expected ordered ids, got %+v", first.Workspaces)
	}

	second, err := store.ListWorkspaces(context.Background(), storage.WorkspaceFilter{}, 2, first.NextPageToken)
	if err != nil {
		t.Fatalf("list second page: %v", err)
	}
	if len(second.Workspaces) != 2 || second.Workspaces[0].ID != "ws-02" {
		t.Fatalf("expected second page from ws-02, got %+v", second.Workspaces)
	}

	last, err := store.ListWorkspaces(context.Background(), storage.WorkspaceFilter{}, 2, second.NextPageToken)
	if err != nil {
		t.Fatalf("list last page: %v", err)
	}
	if len(last.Workspaces) != 1 || last.NextPageToken != "" {
		t.Fatalf("expected final page of 1 with no token, got %d rows", len(last.Workspaces))
	}
}

func TestListWorkspacesRejectsTokenFromOtherFilter(t *testing.T) {
	store := openTestProjectionsStore(t)
	for i := 0; i < 3; i++ {
		seedWorkspaceView(t, store, fmt.Sprintf("ws-%02d", i), "u1", viewNow)
	}

	page, err := store.ListWorkspaces(context.Background(), storage.WorkspaceFilter{OwnerID: "u1"}, 2, "")
	if err != nil {
		t.Fatalf("list first page: %v", err)
	}
	if page.NextPageToken == "" {
		t.Fatal("expected next page token")
	}

	if _, err := store.ListWorkspaces(context.Background(), storage.WorkspaceFilter{OwnerID: "u2"}, 2, page.NextPageToken); err == nil {
		t.Fatal("expected invalid token for changed filter")
	}
}

func TestProjectViewRoundTripAndFilters(t *testing.T) {
	store := openTestProjectionsStore(t)

	put := func(id, workspaceID, owner string, status project.Status, archived bool) {
		t.Helper()
		if err := store.PutProject(context.Background(), storage.ProjectRecord{
			ID:             id,
			WorkspaceID:    workspaceID,
			Title:          "Project " + id,
			Description:    "desc",
			OwnerID:        owner,
			Status:         status,
			Archived:       archived,
			CreatedAt:      viewNow,
			LastModifiedAt: viewNow,
		}); err != nil {
			t.Fatalf("put project %s: %v", id, err)
		}
	}
	put("p-a", "ws-1", "u1", project.StatusPlanning, false)
	put("p-b", "ws-1", "u2", project.StatusInProgress, false)
	put("p-c", "ws-2", "u1", project.StatusInProgress, true)

	got, err := store.GetProject(context.Background(), "p-a")
	if err != nil {
		t.Fatalf("get project: %v", err)
	}
	if got.WorkspaceID != "ws-1" || got.Status != project.StatusPlanning || got.Description != "desc" {
		t.Fatalf("expected stored project back, got %+v", got)
	}

	page, err := store.ListProjects(context.Background(), storage.ProjectFilter{WorkspaceID: "ws-1"}, 10, "")
	if err != nil {
		t.Fatalf("list by workspace: %v", err)
	}
	if len(page.Projects) != 2 {
		t.Fatalf("expected 2 projects in ws-1, got %d", len(page.Projects))
	}

	page, err = store.ListProjects(context.Background(), storage.ProjectFilter{Status: project.StatusInProgress}, 10, "")
	if err != nil {
		t.Fatalf("list by status: %v", err)
	}
	if len(page.Projects) != 2 || page.Projects[0].ID != "p-b" {
		t.Fatalf("expected in-progress projects, got %+v", page.Projects)
	}
}

func TestTaskViewRoundTripAndFilters(t *testing.T) {
	store := openTestProjectionsStore(t)

	record := storage.TaskRecord{
		ID:              "t-a",
		WorkspaceID:     "ws-1",
		ProjectID:       "p-1",
		Title:           "Write report",
		Description:     "quarterly numbers",
		AssignedUserID:  "u2",
		Status:          task.StatusInProgress,
		Priority:        task.PriorityHigh,
		Deadline:        "2026-03-15T00:00:00Z",
		RecurrenceRule:  "FREQ=WEEKLY",
		Tags:            []string{"reporting", "q1"},
		Categories:      []string{"finance"},
		CommentCount:    2,
		AttachmentCount: 1,
		CreatedAt:       viewNow,
		LastModifiedAt:  viewNow,
	}
	if err := store.PutTask(context.Background(), record); err != nil {
		t.Fatalf("put task: %v", err)
	}
	if err := store.PutTask(context.Background(), storage.TaskRecord{
		ID:             "t-b",
		WorkspaceID:    "ws-1",
		ProjectID:      "p-2",
		Title:          "File taxes",
		Status:         task.StatusPending,
		Priority:       task.PriorityMedium,
		Tags:           []string{"finance"},
		CreatedAt:      viewNow,
		LastModifiedAt: viewNow,
	}); err != nil {
		t.Fatalf("put second task: %v", err)
	}

	got, err := store.GetTask(context.Background(), "t-a")
	if err != nil {
		t.Fatalf("get task: %v", err)
	}
	if got.Status != task.StatusInProgress || got.Priority != task.PriorityHigh {
		t.Fatalf("expected stored status and priority, got %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "reporting" {
		t.Fatalf("expected tags to survive, got %v", got.Tags)
	}
	if len(got.Categories) != 1 || got.Categories[0] != "finance" {
		t.Fatalf("expected categories to survive, got %v", got.Categories)
	}
	if got.CommentCount != 2 || got.AttachmentCount != 1 {
		t.Fatalf("expected counters to survive, got %+v", got)
	}
	if got.Deadline != "2026-03-15T00:00:00Z" || got.RecurrenceRule != "FREQ=WEEKLY" {
		t.Fatalf("expected schedule fields to survive, got %+v", got)
	}

	page, err := store.ListTasks(context.Background(), storage.TaskFilter{AssignedUserID: "u2"}, 10, "")
	if err != nil {
		t.Fatalf("list by assignee: %v", err)
	}
	if len(page.Tasks) != 1 || page.Tasks[0].ID != "t-a" {
		t.Fatalf("expected only t-a assigned to u2, got %+v", page.Tasks)
	}

	page, err = store.ListTasks(context.Background(), storage.TaskFilter{Tag: "q1"}, 10, "")
	if err != nil {
		t.Fatalf("list by tag: %v", err)
	}
	if len(page.Tasks) != 1 || page.Tasks[0].ID != "t-a" {
		t.Fatalf("expected only t-a tagged q1, got %+v", page.Tasks)
	}

	page, err = store.ListTasks(context.Background(), storage.TaskFilter{Category: "finance"}, 10, "")
	if err != nil {
		t.Fatalf("list by category: %v", err)
	}
	if len(page.Tasks) != 1 || page.Tasks[0].ID != "t-a" {
		t.Fatalf("expected category match on t-a only, got %+v", page.Tasks)
	}

	page, err = store.ListTasks(context.Background(), storage.TaskFilter{Priority: task.PriorityMedium}, 10, "")
	if err != nil {
		t.Fatalf("list by priority: %v", err)
	}
	if len(page.Tasks) != 1 || page.Tasks[0].ID != "t-b" {
		t.Fatalf("expected only t-b medium priority, got %+v", page.Tasks)
	}
}

func TestUserViewRoundTripAndFilters(t *testing.T) {
	store := openTestProjectionsStore(t)

	put := func(id, name string, role user.Role, active, deleted bool) {
		t.Helper()
		if err := store.PutUser(context.Background(), storage.UserRecord{
			ID:             id,
			Name:           name,
			Email:          id + "@example.com",
			Role:           role,
			Active:         active,
			Deleted:        deleted,
			CreatedAt:      viewNow,
			LastModifiedAt: viewNow,
		}); err != nil {
			t.Fatalf("put user %s: %v", id, err)
		}
	}
	put("u-a", "Avery", user.RoleAdmin, true, false)
	put("u-b", "Blake", user.RoleMember, true, false)
	put("u-c", "Casey", user.RoleMember, false, false)
	put("u-d", "Drew", user.RoleGuest, true, true)

	got, err := store.GetUser(context.Background(), "u-a")
	if err != nil {
		t.Fatalf("get user: %v", err)
	}
	if got.Role != user.RoleAdmin || !got.Active || got.Email != "u-a@example.com" {
		t.Fatalf("expected stored user back, got %+v", got)
	}

	page, err := store.ListUsers(context.Background(), storage.UserFilter{Role: user.RoleMember}, 10, "")
	if err != nil {
		t.Fatalf("list by role: %v", err)
	}
	if len(page.Users) != 2 {
		t.Fatalf("expected 2 members, got %d", len(page.Users))
	}

	active := false
	page, err = store.ListUsers(context.Background(), storage.UserFilter{Active: &active}, 10, "")
	if err != nil {
		t.Fatalf("list inactive: %v", err)
	}
	if len(page.Users) != 1 || page.Users[0].ID != "u-c" {
		t.Fatalf("expected only u-c inactive, got %+v", page.Users)
	}

	page, err = store.ListUsers(context.Background(), storage.UserFilter{}, 10, "")
	if err != nil {
		t.Fatalf("list users: %v", err)
	}
	if len(page.Users) != 3 {
		t.Fatalf("expected deleted user hidden, got %d users", len(page.Users))
	}
}

func TestPutViewRequiresID(t *testing.T) {
	store := openTestProjectionsStore(t)

	if err := store.PutWorkspace(context.Background(), storage.WorkspaceRecord{}); err == nil {
		t.Fatal("expected workspace id error")
	}
	if err := store.PutProject(context.Background(), storage.ProjectRecord{}); err == nil {
		t.Fatal("expected project id error")
	}
	if err := store.PutTask(context.Background(), storage.TaskRecord{}); err == nil {
		t.Fatal("expected task id error")
	}
	if err := store.PutUser(context.Background(), storage.UserRecord{}); err == nil {
		t.Fatal("expected user id error")
	}
}
