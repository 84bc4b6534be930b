package project

// State captures the replayed project aggregate state used by deciders.
type State struct {
	// Created indicates whether project.create has been successfully applied.
	Created bool
	// Title is the project display name.
	Title string
	// Description holds optional free-form project notes.
	Description string
	// WorkspaceID is the owning workspace (required, immutable).
	WorkspaceID string
	// OwnerID identifies the owning user.
	OwnerID string
	// Status is the current lifecycle state.
	Status Status
	// Archived marks the project as read-only except for unarchive.
	Archived bool
	// Deleted marks the project as soft-deleted.
	Deleted bool
}
