package user

// CreatePayload carries the fields for user.create / user.created.
type CreatePayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role,omitempty"`
}

// NamePayload carries the fields for name updates.
type NamePayload struct {
	Name string `json:"name"`
}

// EmailPayload carries the fields for email updates.
type EmailPayload struct {
	Email string `json:"email"`
}

// RolePayload carries the fields for role changes.
type RolePayload struct {
	Role string `json:"role"`
}
