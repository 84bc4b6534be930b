package task

import "time"

// Attachment captures file metadata attached to a task.
type Attachment struct {
	Name       string
	URL        string
	AttachedBy string
	AttachedAt time.Time
}

// Comment captures one entry in a task's comment thread.
type Comment struct {
	AuthorID  string
	Content   string
	Timestamp time.Time
}

// State captures the replayed task aggregate state used by deciders.
type State struct {
	// Created indicates whether task.create has been successfully applied.
	Created bool
	// Title is the task display name.
	Title string
	// Description holds optional free-form task notes.
	Description string
	// WorkspaceID is the owning workspace (required, immutable).
	WorkspaceID string
	// ProjectID is the owning project (required, immutable).
	ProjectID string
	// AssignedUserID is the current assignee, empty when unassigned.
	AssignedUserID string
	// Status is the current lifecycle state.
	Status Status
	// Priority is the current priority label.
	Priority Priority
	// Deadline is the due timestamp in RFC 3339 form, empty when unset.
	Deadline string
	// RecurrenceRule is a free-form recurrence expression, empty when unset.
	RecurrenceRule string
	// Tags holds unique tags in insertion order.
	Tags []string
	// Categories holds unique categories in insertion order.
	Categories []string
	// Attachments maps file id to attachment metadata.
	Attachments map[string]Attachment
	// Comments maps comment id to comment content.
	Comments map[string]Comment
	// Deleted marks the task as soft-deleted.
	Deleted bool
}

// HasTag reports whether the tag is in the set.
func (s State) HasTag(tag string) bool {
	return containsLabel(s.Tags, tag)
}

// HasCategory reports whether the category is in the set.
func (s State) HasCategory(category string) bool {
	return containsLabel(s.Categories, category)
}

func containsLabel(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

func addLabel(labels []string, label string) []string {
	if containsLabel(labels, label) {
		return labels
	}
	return append(append([]string(nil), labels...), label)
}

func removeLabel(labels []string, label string) []string {
	result := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != label {
			result = append(result, l)
		}
	}
	return result
}
