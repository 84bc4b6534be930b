package sqlitemigrate

import (
	"database/sql"
	"testing"
	"testing/fstest"

	_ "modernc.org/sqlite"
)

func migrationFS(files map[string]string) fstest.MapFS {
	fsys := fstest.MapFS{}
	for name, body := range files {
		fsys[name] = &fstest.MapFile{Data: []byte(body)}
	}
	return fsys
}

func TestApplyMigrationsRecordsApplied(t *testing.T) {
	db := openMemoryDB(t)

	fsys := migrationFS(map[string]string{
		"001_create.sql": "-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);",
	})
	if err := ApplyMigrations(db, fsys, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}

	if got := countRows(t, db, "schema_migrations"); got != 1 {
		t.Fatalf("ledger rows = %d, want 1", got)
	}
	if !tableExists(t, db, "items") {
		t.Fatal("migrated table is missing")
	}
}

func TestApplyMigrationsSkipsAlreadyApplied(t *testing.T) {
	db := openMemoryDB(t)

	fsys := migrationFS(map[string]string{
		"001_create.sql": "-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);",
	})
	if err := ApplyMigrations(db, fsys, ""); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	if err := ApplyMigrations(db, fsys, ""); err != nil {
		t.Fatalf("re-apply migrations: %v", err)
	}

	if got := countRows(t, db, "schema_migrations"); got != 1 {
		t.Fatalf("ledger rows after replay = %d, want 1", got)
	}
}

func TestApplyMigrationsDoesNotRecordFailedMigration(t *testing.T) {
	db := openMemoryDB(t)

	bad := migrationFS(map[string]string{
		"001_bad.sql": "-- +migrate Up\nCREAT table things(id INT);",
	})
	if err := ApplyMigrations(db, bad, ""); err == nil {
		t.Fatal("expected bad migration to fail")
	}
	if got := countRows(t, db, "schema_migrations"); got != 0 {
		t.Fatalf("ledger rows after failure = %d, want 0", got)
	}

	fixed := migrationFS(map[string]string{
		"001_bad.sql": "-- +migrate Up\nCREATE TABLE things(id INTEGER PRIMARY KEY);",
	})
	if err := ApplyMigrations(db, fixed, ""); err != nil {
		t.Fatalf("apply fixed migration: %v", err)
	}
	if got := countRows(t, db, "schema_migrations"); got != 1 {
		t.Fatalf("ledger rows after fix = %d, want 1", got)
	}
}

func TestApplyMigrationsKeysByMigrationRoot(t *testing.T) {
	db := openMemoryDB(t)

	fsys := migrationFS(map[string]string{
		"events/001_events.sql": "-- +migrate Up\nCREATE TABLE event_rows(id TEXT PRIMARY KEY);",
	})
	if err := ApplyMigrations(db, fsys, "events"); err != nil {
		t.Fatalf("apply migrations with root: %v", err)
	}

	var key string
	if err := db.QueryRow("SELECT name FROM schema_migrations LIMIT 1").Scan(&key); err != nil {
		t.Fatalf("read ledger key: %v", err)
	}
	if key != "events/001_events.sql" {
		t.Fatalf("ledger key = %q, want events/001_events.sql", key)
	}
	if !tableExists(t, db, "event_rows") {
		t.Fatal("migrated table is missing")
	}
}

func TestUpSectionWithoutMarkersRunsWhole(t *testing.T) {
	content := "CREATE TABLE plain(id TEXT PRIMARY KEY);"
	if got := upSection(content); got != content {
		t.Fatalf("up section = %q, want unchanged content", got)
	}
}

func openMemoryDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open in-memory db: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Fatalf("close db: %v", err)
		}
	})
	return db
}

func countRows(t *testing.T, db *sql.DB, table string) int64 {
	t.Helper()
	var value int64
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&value); err != nil {
		t.Fatalf("count %s rows: %v", table, err)
	}
	return value
}

func tableExists(t *testing.T, db *sql.DB, tableName string) bool {
	t.Helper()
	var name string
	err := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name = ?", tableName).Scan(&name)
	if err == sql.ErrNoRows {
		return false
	}
	if err != nil {
		t.Fatalf("check table exists: %v", err)
	}
	return name == tableName
}
