package project

import "strings"

// Status describes the project lifecycle label used by domain decisions.
type Status string

const (
	StatusUnspecified Status = ""
	StatusPlanning    Status = "PLANNING"
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
	case "PLANNING", "PROJECT_STATUS_PLANNING":
		return StatusPlanning, true
	case "IN_PROGRESS", "PROJECT_STATUS_IN_PROGRESS":
		return StatusInProgress, true
	case "COMPLETED", "PROJECT_STATUS_COMPLETED":
		return StatusCompleted, true
	case "CANCELLED", "PROJECT_STATUS_CANCELLED":
		return StatusCancelled, true
	default:
		return "", false
	}
}

// isStatusTransitionAllowed enforces the terminal-status rule: a cancelled
// project cannot be completed and a completed project cannot be cancelled.
// Every other transition between distinct statuses is legal.
func isStatusTransitionAllowed(from, to Status) bool {
	if from == StatusCancelled && to == StatusCompleted {
		return false
	}
	if from == StatusCompleted && to == StatusCancelled {
		return false
	}
	return true
}

// IsStatusTransitionAllowed reports whether a status transition is permitted.
func IsStatusTransitionAllowed(from, to Status) bool {
	return isStatusTransitionAllowed(from, to)
}
