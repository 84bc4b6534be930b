// Package aggregate joins the per-kind tracker domains behind one state
// union, one fold dispatcher, and one decider dispatcher. The router and
// replay layers work against this package so they stay ignorant of which
// aggregate kind a stream belongs to.
package aggregate
