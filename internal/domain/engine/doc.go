// Package engine routes validated commands to aggregate deciders and
// appends the resulting events to the journal under optimistic concurrency.
//
// Commands for the same aggregate ID serialize on a per-ID mutex; commands
// for distinct IDs run in parallel. A concurrent append by another process
// surfaces as a concurrency conflict and the whole load-decide-append cycle
// retries before giving up.
package engine
