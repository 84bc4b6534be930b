package project

// CreatePayload carries the fields for project.create / project.created.
type CreatePayload struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	WorkspaceID string `json:"workspaceId"`
	OwnerID     string `json:"ownerId"`
	Status      string `json:"status,omitempty"`
}

// UpdatePayload carries field updates for project.update / project.updated.
// Allowed keys: title, description.
type UpdatePayload struct {
	Fields map[string]string `json:"fields"`
}

// StatusPayload carries the fields for status changes.
type StatusPayload struct {
	Status string `json:"status"`
}

// OwnerPayload carries the fields for owner changes.
type OwnerPayload struct {
	OwnerID string `json:"ownerId"`
}
