// Package task implements the task aggregate: fold, decider, and
// command/event registration.
//
// Tasks carry the richest state of the four aggregates: assignment,
// lifecycle status, priority, scheduling (deadline and recurrence), tag and
// category sets, file attachments, and a comment thread keyed by comment id.
package task
