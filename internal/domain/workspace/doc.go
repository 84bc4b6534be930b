// Package workspace implements the workspace aggregate: fold, decider, and
// command/event registration.
//
// A workspace groups projects and members under one owner. Its member set
// tolerates a legacy serialization quirk where member identifiers may arrive
// either as bare strings or as JSON-object-shaped strings; membership checks
// match both forms.
package workspace
