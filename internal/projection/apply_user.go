package projection

import (
	"context"
	"errors"
	"strings"

	"github.com/louisbranch/trackspace/internal/domain/event"
	"github.com/louisbranch/trackspace/internal/domain/user"
	"github.com/louisbranch/trackspace/internal/storage"
)

func (a Applier) applyUserCreated(ctx context.Context, evt event.Event, payload user.CreatePayload) error {
	createdAt := ensureTimestamp(evt.Timestamp)
	role := user.RoleMember
	if parsed, ok := parseUserRole(payload.Role); ok {
		role = parsed
	}
	return a.Users.PutUser(ctx, storage.UserRecord{
		ID:             evt.AggregateID,
		Name:           strings.TrimSpace(payload.Name),
		Email:          strings.TrimSpace(payload.Email),
		Role:           role,
		Active:         true,
		CreatedAt:      createdAt,
		LastModifiedAt: createdAt,
	})
}

func (a Applier) applyUserNameUpdated(ctx context.Context, evt event.Event, payload user.NamePayload) error {
	return a.updateUser(ctx, evt, func(record *storage.UserRecord) {
		record.Name = strings.TrimSpace(payload.Name)
	})
}

func (a Applier) applyUserEmailUpdated(ctx context.Context, evt event.Event, payload user.EmailPayload) error {
	return a.updateUser(ctx, evt, func(record *storage.UserRecord) {
		record.Email = strings.TrimSpace(payload.Email)
	})
}

func (a Applier) applyUserRoleChanged(ctx context.Context, evt event.Event, payload user.RolePayload) error {
	role, ok := parseUserRole(payload.Role)
	if !ok {
		return nil
	}
	return a.updateUser(ctx, evt, func(record *storage.UserRecord) {
		record.Role = role
	})
}

func (a Applier) applyUserDeactivated(ctx context.Context, evt event.Event) error {
	return a.updateUser(ctx, evt, func(record *storage.UserRecord) {
		record.Active = false
	})
}

func (a Applier) applyUserActivated(ctx context.Context, evt event.Event) error {
	return a.updateUser(ctx, evt, func(record *storage.UserRecord) {
		record.Active = true
	})
}

func (a Applier) applyUserDeleted(ctx context.Context, evt event.Event) error {
	return a.updateUser(ctx, evt, func(record *storage.UserRecord) {
		record.Deleted = true
	})
}

func (a Applier) updateUser(ctx context.Context, evt event.Event, mutate func(*storage.UserRecord)) error {
	record, err := a.Users.GetUser(ctx, evt.AggregateID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	mutate(&record)
	record.LastModifiedAt = ensureTimestamp(evt.Timestamp)
	return a.Users.PutUser(ctx, record)
}
