// Package storage defines the persistence boundary for the tracker: the
// append-only event journal that commands write through, and the per-kind
// read view stores that projectors maintain.
//
// The package defines common error values used across implementations:
//   - ErrNotFound: a requested record is missing.
//
// The SQLite implementation lives in the sqlite subpackage.
package storage
