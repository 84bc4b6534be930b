// Package errors provides structured, coded error handling.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Workspace errors
	CodeWorkspaceNotFound      Code = "WORKSPACE_NOT_FOUND"
	CodeWorkspaceAlreadyExists Code = "WORKSPACE_ALREADY_EXISTS"
	CodeWorkspaceDeleted       Code = "WORKSPACE_DELETED"
	CodeWorkspaceTitleEmpty    Code = "WORKSPACE_TITLE_EMPTY"
	CodeWorkspaceOwnerRequired Code = "WORKSPACE_OWNER_REQUIRED"
	CodeWorkspaceMemberEmpty   Code = "WORKSPACE_MEMBER_EMPTY"

	// Project errors
	CodeProjectNotFound                Code = "PROJECT_NOT_FOUND"
	CodeProjectAlreadyExists           Code = "PROJECT_ALREADY_EXISTS"
	CodeProjectDeleted                 Code = "PROJECT_DELETED"
	CodeProjectArchived                Code = "PROJECT_ARCHIVED"
	CodeProjectNotArchived             Code = "PROJECT_NOT_ARCHIVED"
	CodeProjectTitleEmpty              Code = "PROJECT_TITLE_EMPTY"
	CodeProjectWorkspaceRequired       Code = "PROJECT_WORKSPACE_REQUIRED"
	CodeProjectOwnerRequired           Code = "PROJECT_OWNER_REQUIRED"
	CodeProjectInvalidStatus           Code = "PROJECT_INVALID_STATUS"
	CodeProjectInvalidStatusTransition Code = "PROJECT_INVALID_STATUS_TRANSITION"
	CodeProjectUpdateEmpty             Code = "PROJECT_UPDATE_EMPTY"
	CodeProjectUpdateFieldInvalid      Code = "PROJECT_UPDATE_FIELD_INVALID"

	// Task errors
	CodeTaskNotFound           Code = "TASK_NOT_FOUND"
	CodeTaskAlreadyExists      Code = "TASK_ALREADY_EXISTS"
	CodeTaskDeleted            Code = "TASK_DELETED"
	CodeTaskTitleEmpty         Code = "TASK_TITLE_EMPTY"
	CodeTaskProjectRequired    Code = "TASK_PROJECT_REQUIRED"
	CodeTaskWorkspaceMissing   Code = "TASK_WORKSPACE_REQUIRED"
	CodeTaskAlreadyCompleted   Code = "TASK_ALREADY_COMPLETED"
	CodeTaskNotAssigned        Code = "TASK_NOT_ASSIGNED"
	CodeTaskAssigneeRequired   Code = "TASK_ASSIGNEE_REQUIRED"
	CodeTaskInvalidStatus      Code = "TASK_INVALID_STATUS"
	CodeTaskInvalidPriority    Code = "TASK_INVALID_PRIORITY"
	CodeTaskFileNotFound       Code = "TASK_FILE_NOT_FOUND"
	CodeTaskFileIDRequired     Code = "TASK_FILE_ID_REQUIRED"
	CodeTaskCommentNotFound    Code = "TASK_COMMENT_NOT_FOUND"
	CodeTaskCommentEmpty       Code = "TASK_COMMENT_EMPTY"
	CodeTaskTagRequired        Code = "TASK_TAG_REQUIRED"
	CodeTaskCategoryRequired   Code = "TASK_CATEGORY_REQUIRED"
	CodeTaskUpdateEmpty        Code = "TASK_UPDATE_EMPTY"
	CodeTaskUpdateFieldInvalid Code = "TASK_UPDATE_FIELD_INVALID"
	CodeTaskInvalidDeadline    Code = "TASK_INVALID_DEADLINE"

	// User errors
	CodeUserNotFound        Code = "USER_NOT_FOUND"
	CodeUserAlreadyExists   Code = "USER_ALREADY_EXISTS"
	CodeUserDeleted         Code = "USER_DELETED"
	CodeUserNameEmpty       Code = "USER_NAME_EMPTY"
	CodeUserEmailEmpty      Code = "USER_EMAIL_EMPTY"
	CodeUserEmailInvalid    Code = "USER_EMAIL_INVALID"
	CodeUserInvalidRole     Code = "USER_INVALID_ROLE"
	CodeUserInactive        Code = "USER_INACTIVE"
	CodeUserAlreadyInactive Code = "USER_ALREADY_INACTIVE"
	CodeUserAlreadyActive   Code = "USER_ALREADY_ACTIVE"

	// Command envelope errors
	CodeCommandTypeUnknown      Code = "COMMAND_TYPE_UNKNOWN"
	CodeCommandInvalidPayload   Code = "COMMAND_INVALID_PAYLOAD"
	CodeCommandAggregateMissing Code = "COMMAND_AGGREGATE_ID_MISSING"

	// Storage and concurrency errors
	CodeNotFound            Code = "NOT_FOUND"
	CodeConcurrencyConflict Code = "CONCURRENCY_CONFLICT"
	CodeConflictExhausted   Code = "CONFLICT_EXHAUSTED"
	CodeStorageFailure      Code = "STORAGE_FAILURE"
)

// GRPCCode maps domain codes to gRPC status codes for the external API layer.
func (c Code) GRPCCode() codes.Code {
	switch c {
	// InvalidArgument - validation failures, bad input
	case CodeWorkspaceTitleEmpty,
		CodeWorkspaceOwnerRequired,
		CodeWorkspaceMemberEmpty,
		CodeProjectTitleEmpty,
		CodeProjectWorkspaceRequired,
		CodeProjectOwnerRequired,
		CodeProjectInvalidStatus,
		CodeProjectUpdateEmpty,
		CodeTaskTitleEmpty,
		CodeTaskProjectRequired,
		CodeTaskWorkspaceMissing,
		CodeTaskAssigneeRequired,
		CodeTaskInvalidStatus,
		CodeTaskInvalidPriority,
		CodeTaskFileIDRequired,
		CodeTaskCommentEmpty,
		CodeTaskTagRequired,
		CodeTaskCategoryRequired,
		CodeTaskUpdateEmpty,
		CodeTaskUpdateFieldInvalid,
		CodeTaskInvalidDeadline,
		CodeProjectUpdateFieldInvalid,
		CodeUserNameEmpty,
		CodeUserEmailEmpty,
		CodeUserEmailInvalid,
		CodeUserInvalidRole,
		CodeCommandTypeUnknown,
		CodeCommandInvalidPayload,
		CodeCommandAggregateMissing:
		return codes.InvalidArgument

	// FailedPrecondition - current state does not allow the operation
	case CodeWorkspaceDeleted,
		CodeProjectDeleted,
		CodeProjectArchived,
		CodeProjectNotArchived,
		CodeProjectInvalidStatusTransition,
		CodeTaskDeleted,
		CodeTaskAlreadyCompleted,
		CodeTaskNotAssigned,
		CodeUserDeleted,
		CodeUserInactive,
		CodeUserAlreadyInactive,
		CodeUserAlreadyActive:
		return codes.FailedPrecondition

	// NotFound - resource or sub-entity doesn't exist
	case CodeNotFound,
		CodeWorkspaceNotFound,
		CodeProjectNotFound,
		CodeTaskNotFound,
		CodeTaskFileNotFound,
		CodeTaskCommentNotFound,
		CodeUserNotFound:
		return codes.NotFound

	// AlreadyExists - unique resource constraint
	case CodeWorkspaceAlreadyExists,
		CodeProjectAlreadyExists,
		CodeTaskAlreadyExists,
		CodeUserAlreadyExists:
		return codes.AlreadyExists

	// Aborted - transient concurrency races the caller may retry later
	case CodeConcurrencyConflict,
		CodeConflictExhausted:
		return codes.Aborted

	default:
		return codes.Internal
	}
}
