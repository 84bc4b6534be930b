package workspace

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/event"
)

const (
	commandTypeCreate            command.Type = "workspace.create"
	commandTypeRename            command.Type = "workspace.rename"
	commandTypeArchive           command.Type = "workspace.archive"
	commandTypeUnarchive         command.Type = "workspace.unarchive"
	commandTypeAddMember         command.Type = "workspace.add_member"
	commandTypeRemoveMember      command.Type = "workspace.remove_member"
	commandTypeTransferOwnership command.Type = "workspace.transfer_ownership"
	commandTypeDelete            command.Type = "workspace.delete"

	eventTypeCreated              event.Type = "workspace.created"
	eventTypeRenamed              event.Type = "workspace.renamed"
	eventTypeArchived             event.Type = "workspace.archived"
	eventTypeUnarchived           event.Type = "workspace.unarchived"
	eventTypeMemberAdded          event.Type = "workspace.member_added"
	eventTypeMemberRemoved        event.Type = "workspace.member_removed"
	eventTypeOwnershipTransferred event.Type = "workspace.ownership_transferred"
	eventTypeDeleted              event.Type = "workspace.deleted"

	rejectionCodeAlreadyExists = "WORKSPACE_ALREADY_EXISTS"
	rejectionCodeNotFound      = "WORKSPACE_NOT_FOUND"
	rejectionCodeDeleted       = "WORKSPACE_DELETED"
	rejectionCodeTitleEmpty    = "WORKSPACE_TITLE_EMPTY"
	rejectionCodeOwnerRequired = "WORKSPACE_OWNER_REQUIRED"
	rejectionCodeMemberEmpty   = "WORKSPACE_MEMBER_EMPTY"
)

// Decide returns the decision for a workspace command against current state.
func Decide(state State, cmd command.Command, now func() time.Time) command.Decision {
	if now == nil {
		now = time.Now
	}

	if cmd.Type == commandTypeCreate {
		if state.Created {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeAlreadyExists,
				Message: "workspace already exists",
			})
		}
		var payload CreatePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Title = strings.TrimSpace(payload.Title)
		if payload.Title == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeTitleEmpty,
				Message: "workspace title is required",
			})
		}
		payload.OwnerID = strings.TrimSpace(payload.OwnerID)
		if payload.OwnerID == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeOwnerRequired,
				Message: "workspace owner is required",
			})
		}
		members := make([]string, 0, len(payload.MemberIDs))
		for _, memberID := range payload.MemberIDs {
			members = addMember(members, memberID)
		}
		payload.MemberIDs = members
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, eventTypeCreated, payloadJSON, now().UTC()))
	}

	if !state.Created {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeNotFound,
			Message: "workspace does not exist",
		})
	}
	// A deleted workspace refuses every command except unarchive, which is
	// left open so an accidental archive of a deleted workspace can still be
	// unwound.
	if state.Deleted && cmd.Type != commandTypeUnarchive {
		return command.Reject(command.Rejection{
			Code:    rejectionCodeDeleted,
			Message: "workspace is deleted",
		})
	}

	switch cmd.Type {
	case commandTypeRename:
		var payload RenamePayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.Title = strings.TrimSpace(payload.Title)
		if payload.Title == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeTitleEmpty,
				Message: "workspace title is required",
			})
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, eventTypeRenamed, payloadJSON, now().UTC()))

	case commandTypeArchive:
		// Archiving an already-archived workspace re-stamps it rather than
		// rejecting, so the event is emitted unconditionally.
		return command.Accept(command.NewEvent(cmd, eventTypeArchived, []byte("{}"), now().UTC()))

	case commandTypeUnarchive:
		return command.Accept(command.NewEvent(cmd, eventTypeUnarchived, []byte("{}"), now().UTC()))

	case commandTypeAddMember:
		var payload MemberPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		canonical := CanonicalMemberID(payload.MemberID)
		if canonical == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeMemberEmpty,
				Message: "workspace member id is required",
			})
		}
		if state.HasMember(canonical) {
			return command.Accept()
		}
		payloadJSON, _ := json.Marshal(MemberPayload{MemberID: canonical})
		return command.Accept(command.NewEvent(cmd, eventTypeMemberAdded, payloadJSON, now().UTC()))

	case commandTypeRemoveMember:
		var payload MemberPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		canonical := CanonicalMemberID(payload.MemberID)
		if canonical == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeMemberEmpty,
				Message: "workspace member id is required",
			})
		}
		if !state.HasMember(canonical) {
			return command.Accept()
		}
		payloadJSON, _ := json.Marshal(MemberPayload{MemberID: canonical})
		return command.Accept(command.NewEvent(cmd, eventTypeMemberRemoved, payloadJSON, now().UTC()))

	case commandTypeTransferOwnership:
		var payload TransferOwnershipPayload
		_ = json.Unmarshal(cmd.PayloadJSON, &payload)
		payload.OwnerID = strings.TrimSpace(payload.OwnerID)
		if payload.OwnerID == "" {
			return command.Reject(command.Rejection{
				Code:    rejectionCodeOwnerRequired,
				Message: "workspace owner is required",
			})
		}
		if payload.OwnerID == state.OwnerID {
			return command.Accept()
		}
		payloadJSON, _ := json.Marshal(payload)
		return command.Accept(command.NewEvent(cmd, eventTypeOwnershipTransferred, payloadJSON, now().UTC()))

	case commandTypeDelete:
		return command.Accept(command.NewEvent(cmd, eventTypeDeleted, []byte("{}"), now().UTC()))
	}

	return command.Decision{}
}
