package user

import "strings"

// Role describes the user access label.
type Role string

const (
	RoleUnspecified Role = ""
	RoleAdmin       Role = "ADMIN"
	RoleMember      Role = "MEMBER"
	RoleGuest       Role = "GUEST"
)

// normalizeRoleLabel canonicalizes role labels.
func normalizeRoleLabel(value string) (Role, bool) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", false
	}
	switch strings.ToUpper(trimmed) {
	case "ADMIN", "USER_ROLE_ADMIN":
		return RoleAdmin, true
	case "MEMBER", "USER_ROLE_MEMBER":
		return RoleMember, true
	case "GUEST", "USER_ROLE_GUEST":
		return RoleGuest, true
	default:
		return "", false
	}
}

// State captures the replayed user aggregate state used by deciders.
type State struct {
	// Created indicates whether user.create has been successfully applied.
	Created bool
	// Name is the user display name.
	Name string
	// Email is the user contact address.
	Email string
	// Role is the current access label.
	Role Role
	// Active gates every mutating command except activate and deactivate.
	Active bool
	// Deleted marks the user as soft-deleted.
	Deleted bool
}
