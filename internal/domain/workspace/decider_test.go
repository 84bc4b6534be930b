package workspace

import (
	"testing"
	"time"

	"github.com/louisbranch/trackspace/internal/domain/command"
	"github.com/louisbranch/trackspace/internal/domain/event"
)

func fixedNow() time.Time {
	return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
}

func createdState(t *testing.T) State {
	t.Helper()
	return Fold(State{}, event.Event{
		Type:        eventTypeCreated,
		PayloadJSON: []byte(`{"title":"Eng","ownerId":"u1","memberIds":["u2"]}`),
	})
}

func TestDecide_CreateEmitsCreated(t *testing.T) {
	cmd := command.Command{
		AggregateID: "ws-1",
		Kind:        event.KindWorkspace,
		Type:        commandTypeCreate,
		PayloadJSON: []byte(`{"title":"Eng","ownerId":"u1"}`),
	}

	decision := Decide(State{}, cmd, fixedNow)
	if len(decision.Rejections) != 0 {
		t.Fatalf("unexpected rejections: %v", decision.Rejections)
	}
	if len(decision.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(decision.Events))
	}
	evt := decision.Events[0]
	if evt.Type != eventTypeCreated {
		t.Fatalf("event type = %s, want %s", evt.Type, eventTypeCreated)
	}
	if evt.AggregateID != "ws-1" {
		t.Fatalf("aggregate id = %s, want ws-1", evt.AggregateID)
	}
	if !evt.Timestamp.Equal(fixedNow()) {
		t.Fatalf("timestamp = %v, want %v", evt.Timestamp, fixedNow())
	}
}

func TestDecide_CreateRejectsDuplicate(t *testing.T) {
	cmd := command.Command{
		AggregateID: "ws-1",
		Type:        commandTypeCreate,
		PayloadJSON: []byte(`{"title":"Eng","ownerId":"u1"}`),
	}
	decision := Decide(createdState(t), cmd, fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != rejectionCodeAlreadyExists {
		t.Fatalf("expected %s rejection, got %v", rejectionCodeAlreadyExists, decision.Rejections)
	}
}

func TestDecide_CreateRejectsMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantCode string
	}{
		{name: "empty title", payload: `{"title":"  ","ownerId":"u1"}`, wantCode: rejectionCodeTitleEmpty},
		{name: "missing owner", payload: `{"title":"Eng"}`, wantCode: rejectionCodeOwnerRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := command.Command{Type: commandTypeCreate, PayloadJSON: []byte(tt.payload)}
			decision := Decide(State{}, cmd, fixedNow)
			if len(decision.Rejections) != 1 || decision.Rejections[0].Code != tt.wantCode {
				t.Fatalf("expected %s rejection, got %v", tt.wantCode, decision.Rejections)
			}
		})
	}
}

func TestDecide_MutationsRequireExistingWorkspace(t *testing.T) {
	cmd := command.Command{AggregateID: "ws-1", Type: commandTypeRename, PayloadJSON: []byte(`{"title":"New"}`)}
	decision := Decide(State{}, cmd, fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != rejectionCodeNotFound {
		t.Fatalf("expected %s rejection, got %v", rejectionCodeNotFound, decision.Rejections)
	}
}

func TestDecide_DeletedWorkspaceRefusesMutations(t *testing.T) {
	state := createdState(t)
	state.Deleted = true

	cmd := command.Command{AggregateID: "ws-1", Type: commandTypeRename, PayloadJSON: []byte(`{"title":"New"}`)}
	decision := Decide(state, cmd, fixedNow)
	if len(decision.Rejections) != 1 || decision.Rejections[0].Code != rejectionCodeDeleted {
		t.Fatalf("expected %s rejection, got %v", rejectionCodeDeleted, decision.Rejections)
	}

	// Unarchive stays open on a deleted workspace.
	unarchive := command.Command{AggregateID: "ws-1", Type: commandTypeUnarchive}
	decision = Decide(state, unarchive, fixedNow)
	if len(decision.Rejections) != 0 {
		t.Fatalf("unexpected rejections: %v", decision.Rejections)
	}
	if len(decision.Events) != 1 || decision.Events[0].Type != eventTypeUnarchived {
		t.Fatalf("expected unarchived event, got %v", decision.Events)
	}
}

func TestDecide_ArchiveRestampsWhenAlreadyArchived(t *testing.T) {
	state := createdState(t)
	state.Archived = true

	cmd := command.Command{AggregateID: "ws-1", Type: commandTypeArchive}
	decision := Decide(state, cmd, fixedNow)
	if len(decision.Events) != 1 || decision.Events[0].Type != eventTypeArchived {
		t.Fatalf("expected archived event, got %v", decision.Events)
	}
}

func TestDecide_AddMemberDuplicateIsNoOp(t *testing.T) {
	cmd := command.Command{
		AggregateID: "ws-1",
		Type:        commandTypeAddMember,
		PayloadJSON: []byte(`{"memberId":"{\"id\":\"u2\"}"}`),
	}
	decision := Decide(createdState(t), cmd, fixedNow)
	if !decision.IsNoOp() {
		t.Fatalf("expected no-op for duplicate member, got %+v", decision)
	}
}

func TestDecide_AddMemberEmitsCanonicalForm(t *testing.T) {
	cmd := command.Command{
		AggregateID: "ws-1",
		Type:        commandTypeAddMember,
		PayloadJSON: []byte(`{"memberId":"{\"memberId\":\"u3\"}"}`),
	}
	decision := Decide(createdState(t), cmd, fixedNow)
	if len(decision.Events) != 1 {
		t.Fatalf("expected 1 event, got %+v", decision)
	}
	if string(decision.Events[0].PayloadJSON) != `{"memberId":"u3"}` {
		t.Fatalf("payload = %s, want canonical member id", decision.Events[0].PayloadJSON)
	}
}

func TestDecide_RemoveMemberLegacyForm(t *testing.T) {
	cmd := command.Command{
		AggregateID: "ws-1",
		Type:        commandTypeRemoveMember,
		PayloadJSON: []byte(`{"memberId":"{\"id\":\"u2\"}"}`),
	}
	decision := Decide(createdState(t), cmd, fixedNow)
	if len(decision.Events) != 1 || decision.Events[0].Type != eventTypeMemberRemoved {
		t.Fatalf("expected member_removed event, got %+v", decision)
	}
}

func TestDecide_RemoveAbsentMemberIsNoOp(t *testing.T) {
	cmd := command.Command{
		AggregateID: "ws-1",
		Type:        commandTypeRemoveMember,
		PayloadJSON: []byte(`{"memberId":"u9"}`),
	}
	decision := Decide(createdState(t), cmd, fixedNow)
	if !decision.IsNoOp() {
		t.Fatalf("expected no-op for absent member, got %+v", decision)
	}
}

func TestDecide_MemberCommandsRequireID(t *testing.T) {
	for _, cmdType := range []command.Type{commandTypeAddMember, commandTypeRemoveMember} {
		cmd := command.Command{AggregateID: "ws-1", Type: cmdType, PayloadJSON: []byte(`{"memberId":" "}`)}
		decision := Decide(createdState(t), cmd, fixedNow)
		if len(decision.Rejections) != 1 || decision.Rejections[0].Code != rejectionCodeMemberEmpty {
			t.Fatalf("%s: expected %s rejection, got %v", cmdType, rejectionCodeMemberEmpty, decision.Rejections)
		}
	}
}

func TestDecide_TransferToCurrentOwnerIsNoOp(t *testing.T) {
	cmd := command.Command{
		AggregateID: "ws-1",
		Type:        commandTypeTransferOwnership,
		PayloadJSON: []byte(`{"ownerId":"u1"}`),
	}
	decision := Decide(createdState(t), cmd, fixedNow)
	if !decision.IsNoOp() {
		t.Fatalf("expected no-op for same-owner transfer, got %+v", decision)
	}
}

func TestDecide_TransferOwnership(t *testing.T) {
	cmd := command.Command{
		AggregateID: "ws-1",
		Type:        commandTypeTransferOwnership,
		PayloadJSON: []byte(`{"ownerId":"u5"}`),
	}
	decision := Decide(createdState(t), cmd, fixedNow)
	if len(decision.Events) != 1 || decision.Events[0].Type != eventTypeOwnershipTransferred {
		t.Fatalf("expected ownership_transferred event, got %+v", decision)
	}
}

func TestDecide_Delete(t *testing.T) {
	cmd := command.Command{AggregateID: "ws-1", Type: commandTypeDelete}
	decision := Decide(createdState(t), cmd, fixedNow)
	if len(decision.Events) != 1 || decision.Events[0].Type != eventTypeDeleted {
		t.Fatalf("expected deleted event, got %+v", decision)
	}
}

func TestDecide_UnknownCommandReturnsEmptyDecision(t *testing.T) {
	cmd := command.Command{AggregateID: "ws-1", Type: command.Type("workspace.bogus")}
	decision := Decide(createdState(t), cmd, fixedNow)
	if len(decision.Events) != 0 || len(decision.Rejections) != 0 {
		t.Fatalf("expected empty decision, got %+v", decision)
	}
	if decision.IsNoOp() {
		t.Fatal("unhandled command must not read as a no-op")
	}
}
