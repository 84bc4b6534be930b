package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := New(CodeTaskAlreadyCompleted, "task is already completed")
	target := New(CodeTaskAlreadyCompleted, "different message")

	if !stderrors.Is(err, target) {
		t.Fatal("expected errors with the same code to match")
	}
	if stderrors.Is(err, New(CodeTaskNotFound, "task not found")) {
		t.Fatal("expected errors with different codes not to match")
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(CodeStorageFailure, "append event", cause)

	if !stderrors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be reachable via errors.Is")
	}
	if err.Error() != "append event" {
		t.Fatalf("message = %q, want %q", err.Error(), "append event")
	}
}

func TestCodeOf(t *testing.T) {
	err := fmt.Errorf("outer: %w", New(CodeConcurrencyConflict, "conflict"))
	if got := CodeOf(err); got != CodeConcurrencyConflict {
		t.Fatalf("code = %s, want %s", got, CodeConcurrencyConflict)
	}
	if got := CodeOf(fmt.Errorf("plain")); got != CodeUnknown {
		t.Fatalf("code = %s, want %s", got, CodeUnknown)
	}
}

func TestGRPCCodeMapping(t *testing.T) {
	cases := []struct {
		code Code
		want codes.Code
	}{
		{CodeTaskTitleEmpty, codes.InvalidArgument},
		{CodeTaskAlreadyCompleted, codes.FailedPrecondition},
		{CodeNotFound, codes.NotFound},
		{CodeWorkspaceAlreadyExists, codes.AlreadyExists},
		{CodeConcurrencyConflict, codes.Aborted},
		{CodeStorageFailure, codes.Internal},
	}
	for _, tc := range cases {
		if got := tc.code.GRPCCode(); got != tc.want {
			t.Fatalf("%s maps to %s, want %s", tc.code, got, tc.want)
		}
	}
}

func TestToGRPCStatusCarriesErrorInfo(t *testing.T) {
	err := WithMetadata(CodeUserInactive, "user is inactive", map[string]string{"user_id": "u1"})

	st, ok := status.FromError(err.ToGRPCStatus())
	if !ok {
		t.Fatal("expected a grpc status error")
	}
	if st.Code() != codes.FailedPrecondition {
		t.Fatalf("status code = %s, want %s", st.Code(), codes.FailedPrecondition)
	}
	if len(st.Details()) != 1 {
		t.Fatalf("expected 1 detail, got %d", len(st.Details()))
	}
}
