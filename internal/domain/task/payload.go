package task

// CreatePayload carries the fields for task.create / task.created.
type CreatePayload struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	WorkspaceID string `json:"workspaceId"`
	ProjectID   string `json:"projectId"`
	Priority    string `json:"priority,omitempty"`
	Deadline    string `json:"deadline,omitempty"`
}

// UpdatePayload carries field updates for task.update / task.updated.
// Allowed keys: title, description.
type UpdatePayload struct {
	Fields map[string]string `json:"fields"`
}

// AssignPayload carries the fields for task.assign / task.assigned.
type AssignPayload struct {
	UserID string `json:"userId"`
}

// StatusPayload carries the fields for status changes.
type StatusPayload struct {
	Status string `json:"status"`
}

// PriorityPayload carries the fields for priority changes.
type PriorityPayload struct {
	Priority string `json:"priority"`
}

// DeadlinePayload carries the fields for deadline changes. An empty deadline
// clears the due date.
type DeadlinePayload struct {
	Deadline string `json:"deadline"`
}

// RecurrencePayload carries the fields for recurrence changes. An empty rule
// clears the recurrence.
type RecurrencePayload struct {
	Rule string `json:"rule"`
}

// LabelPayload carries the fields for tag and category mutations.
type LabelPayload struct {
	Label string `json:"label"`
}

// FilePayload carries the fields for attachment mutations.
type FilePayload struct {
	FileID string `json:"fileId"`
	Name   string `json:"name,omitempty"`
	URL    string `json:"url,omitempty"`
}

// CommentPayload carries the fields for comment mutations.
type CommentPayload struct {
	CommentID string `json:"commentId"`
	AuthorID  string `json:"authorId,omitempty"`
	Content   string `json:"content,omitempty"`
}
