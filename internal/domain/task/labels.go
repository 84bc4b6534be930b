package task

import "strings"

// Status describes the task lifecycle label used by domain decisions.
type Status string

const (
	StatusUnspecified Status = ""
	StatusPending     Status = "PENDING"
	StatusInProgress  Status = "IN_PROGRESS"
	StatusCompleted   Status = "COMPLETED"
	StatusCancelled   Status = "CANCELLED"
)

// normalizeStatusLabel canonicalizes status labels for stable payload hashes.
func normalizeStatusLabel(value string) (Status, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	switch strings.ToUpper(trimmed) {
	case "PENDING", "TASK_STATUS_PENDING":
		return StatusPending, true
	case "IN_PROGRESS", "TASK_STATUS_IN_PROGRESS":
		return StatusInProgress, true
	case "COMPLETED", "TASK_STATUS_COMPLETED":
		return StatusCompleted, true
	case "CANCELLED", "TASK_STATUS_CANCELLED":
		return StatusCancelled, true
	default:
		return "", false
	}
}

// Priority describes the task priority label.
type Priority string

const (
	PriorityUnspecified Priority = ""
	PriorityLow         Priority = "LOW"
	PriorityMedium      Priority = "MEDIUM"
	PriorityHigh        Priority = "HIGH"
	PriorityUrgent      Priority = "URGENT"
)

// normalizePriorityLabel canonicalizes priority labels.
func normalizePriorityLabel(value string) (Priority, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	switch strings.ToUpper(trimmed) {
	case "LOW", "TASK_PRIORITY_LOW":
		return PriorityLow, true
	case "MEDIUM", "TASK_PRIORITY_MEDIUM":
		return PriorityMedium, true
	case "HIGH", "TASK_PRIORITY_HIGH":
		return PriorityHigh, true
	case "URGENT", "TASK_PRIORITY_URGENT":
		return PriorityUrgent, true
	default:
		return "", false
	}
}
