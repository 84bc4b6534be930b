package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/louisbranch/trackspace/internal/domain/aggregate"
	"github.com/louisbranch/trackspace/internal/domain/event"
	"github.com/louisbranch/trackspace/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/trackspace/internal/storage"
	"github.com/louisbranch/trackspace/internal/storage/sqlite/migrations"
)

func testEventRegistry(t *testing.T) *event.Registry {
	t.Helper()
	registry := event.NewRegistry()
	if err := aggregate.RegisterEvents(registry); err != nil {
		t.Fatalf("register events: %v", err)
	}
	return registry
}

func openTestEventsStore(t *testing.T) *Store {
	t.Helper()
	return openTestEventsStoreWithOutbox(t, false)
}

func openTestEventsStoreWithOutbox(t *testing.T, outboxEnabled bool) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.sqlite")
	store, err := OpenEvents(path, testEventRegistry(t), WithProjectionApplyOutboxEnabled(outboxEnabled))
	if err != nil {
		t.Fatalf("open events store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close events store: %v", err)
		}
	})
	return store
}

func openTestProjectionsStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "projections.sqlite")
	store, err := OpenProjections(path)
	if err != nil {
		t.Fatalf("open projections store: %v", err)
	}
	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close projections store: %v", err)
		}
	})
	return store
}

// openTestCombinedStore opens a projections store and layers the events
// migrations on the same database, so tests can exercise the full
// append -> outbox -> checkpoint -> view path against one file.
func openTestCombinedStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "combined.sqlite")
	store, err := OpenProjections(path)
	if err != nil {
		t.Fatalf("open combined store: %v", err)
	}
	store.eventRegistry = testEventRegistry(t)
	store.outboxEnabled = true

	if err := sqlitemigrate.ApplyMigrations(store.sqlDB, migrations.EventsFS, "events"); err != nil {
		_ = store.Close()
		t.Fatalf("run events migrations: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Fatalf("close combined store: %v", err)
		}
	})
	return store
}

func testWorkspaceEvent(aggregateID string, typ event.Type, payload string) event.Event {
	return event.Event{
		AggregateID: aggregateID,
		Kind:        event.KindWorkspace,
		Timestamp:   time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		Type:        typ,
		ActorID:     "u1",
		RequestID:   "req-1",
		PayloadJSON: []byte(payload),
	}
}

func appendWorkspaceCreated(t *testing.T, store *Store, aggregateID string) event.Event {
	t.Helper()
	evt := testWorkspaceEvent(aggregateID, "workspace.created", `{"title":"Docs","ownerId":"u1"}`)
	stored, err := store.AppendEvents(context.Background(), aggregateID, event.KindWorkspace, 0, []event.Event{evt})
	if err != nil {
		t.Fatalf("append workspace created: %v", err)
	}
	return stored[0]
}

func seedWorkspaceView(t *testing.T, store *Store, id, ownerID string, now time.Time) storage.WorkspaceRecord {
	t.Helper()
	record := storage.WorkspaceRecord{
		ID:             id,
		Title:          "Workspace " + id,
		OwnerID:        ownerID,
		MemberIDs:      []string{ownerID},
		CreatedAt:      now,
		LastModifiedAt: now,
	}
	if err := store.PutWorkspace(context.Background(), record); err != nil {
		t.Fatalf("seed workspace view: %v", err)
	}
	return record
}
