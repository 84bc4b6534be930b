// Package sqlite implements the storage interfaces on modernc.org/sqlite.
//
// Two migration sets back two store roles: the events store carries the
// journal, aggregate heads, and the projection-apply outbox; the projections
// store carries the per-kind read views and apply checkpoints. Both roles may
// share one database file, which is how tests run.
package sqlite
