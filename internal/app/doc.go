// Package app wires the command engine, journal, outbox, and read views
// into the service surface processes expose: submit a command, fetch a
// view, list views with filters and page tokens.
package app
