package projection

import (
	"context"
	"errors"
	"strings"

	"github.com/louisbranch/trackspace/internal/domain/event"
	"github.com/louisbranch/trackspace/internal/domain/workspace"
	"github.com/louisbranch/trackspace/internal/storage"
)

func (a Applier) applyWorkspaceCreated(ctx context.Context, evt event.Event, payload workspace.CreatePayload) error {
	createdAt := ensureTimestamp(evt.Timestamp)
	members := make([]string, 0, len(payload.MemberIDs))
	for _, memberID := range payload.MemberIDs {
		members = appendMember(members, memberID)
	}
	return a.Workspaces.PutWorkspace(ctx, storage.WorkspaceRecord{
		ID:             evt.AggregateID,
		Title:          strings.TrimSpace(payload.Title),
		OwnerID:        strings.TrimSpace(payload.OwnerID),
		MemberIDs:      members,
		CreatedAt:      createdAt,
		LastModifiedAt: createdAt,
	})
}

func (a Applier) applyWorkspaceRenamed(ctx context.Context, evt event.Event, payload workspace.RenamePayload) error {
	return a.updateWorkspace(ctx, evt, func(record *storage.WorkspaceRecord) {
		record.Title = strings.TrimSpace(payload.Title)
	})
}

func (a Applier) applyWorkspaceArchived(ctx context.Context, evt event.Event) error {
	return a.updateWorkspace(ctx, evt, func(record *storage.WorkspaceRecord) {
		record.Archived = true
	})
}

func (a Applier) applyWorkspaceUnarchived(ctx context.Context, evt event.Event) error {
	return a.updateWorkspace(ctx, evt, func(record *storage.WorkspaceRecord) {
		record.Archived = false
	})
}

func (a Applier) applyWorkspaceMemberAdded(ctx context.Context, evt event.Event, payload workspace.MemberPayload) error {
	return a.updateWorkspace(ctx, evt, func(record *storage.WorkspaceRecord) {
		record.MemberIDs = appendMember(record.MemberIDs, payload.MemberID)
	})
}

func (a Applier) applyWorkspaceMemberRemoved(ctx context.Context, evt event.Event, payload workspace.MemberPayload) error {
	return a.updateWorkspace(ctx, evt, func(record *storage.WorkspaceRecord) {
		canonical := workspace.CanonicalMemberID(payload.MemberID)
		kept := make([]string, 0, len(record.MemberIDs))
		for _, id := range record.MemberIDs {
			if workspace.CanonicalMemberID(id) != canonical {
				kept = append(kept, id)
			}
		}
		record.MemberIDs = kept
	})
}

func (a Applier) applyWorkspaceOwnershipTransferred(ctx context.Context, evt event.Event, payload workspace.TransferOwnershipPayload) error {
	return a.updateWorkspace(ctx, evt, func(record *storage.WorkspaceRecord) {
		record.OwnerID = strings.TrimSpace(payload.OwnerID)
	})
}

func (a Applier) applyWorkspaceDeleted(ctx context.Context, evt event.Event) error {
	return a.updateWorkspace(ctx, evt, func(record *storage.WorkspaceRecord) {
		record.Deleted = true
	})
}

// updateWorkspace mutates an existing workspace row. A missing row is skipped
// rather than failed: the creating event is the only one allowed to insert,
// so a gap here means the row was created and later purged out of band.
func (a Applier) updateWorkspace(ctx context.Context, evt event.Event, mutate func(*storage.WorkspaceRecord)) error {
	record, err := a.Workspaces.GetWorkspace(ctx, evt.AggregateID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	mutate(&record)
	record.LastModifiedAt = ensureTimestamp(evt.Timestamp)
	return a.Workspaces.PutWorkspace(ctx, record)
}

// appendMember adds a canonical member id, deduping legacy serialized forms.
func appendMember(members []string, memberID string) []string {
	canonical := workspace.CanonicalMemberID(memberID)
	if canonical == "" {
		return members
	}
	for _, id := range members {
		if workspace.CanonicalMemberID(id) == canonical {
			return members
		}
	}
	return append(members, canonical)
}
