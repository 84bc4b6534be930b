package workspace

// State captures the replayed workspace aggregate state used by deciders.
type State struct {
	// Created indicates whether workspace.create has been successfully applied.
	Created bool
	// Title is the workspace display name.
	Title string
	// OwnerID identifies the owning user.
	OwnerID string
	// Archived marks the workspace as archived.
	Archived bool
	// Deleted marks the workspace as soft-deleted.
	Deleted bool
	// MemberIDs holds canonical member identifiers in insertion order.
	MemberIDs []string
}

// HasMember reports whether the canonical form of memberID is in the set.
func (s State) HasMember(memberID string) bool {
	canonical := CanonicalMemberID(memberID)
	for _, id := range s.MemberIDs {
		if id == canonical {
			return true
		}
	}
	return false
}
