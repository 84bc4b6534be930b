package workspace

// CreatePayload carries the fields for workspace.create / workspace.created.
type CreatePayload struct {
	Title     string   `json:"title"`
	OwnerID   string   `json:"ownerId"`
	MemberIDs []string `json:"memberIds,omitempty"`
}

// RenamePayload carries the fields for workspace.rename / workspace.renamed.
type RenamePayload struct {
	Title string `json:"title"`
}

// MemberPayload carries the fields for member add/remove commands and events.
type MemberPayload struct {
	MemberID string `json:"memberId"`
}

// TransferOwnershipPayload carries the fields for ownership transfer.
type TransferOwnershipPayload struct {
	OwnerID string `json:"ownerId"`
}
