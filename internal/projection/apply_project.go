package projection

import (
	"context"
	"errors"
	"strings"

	"github.com/louisbranch/trackspace/internal/domain/event"
	"github.com/louisbranch/trackspace/internal/domain/project"
	"github.com/louisbranch/trackspace/internal/storage"
)

func (a Applier) applyProjectCreated(ctx context.Context, evt event.Event, payload project.CreatePayload) error {
	createdAt := ensureTimestamp(evt.Timestamp)
	status := project.StatusPlanning
	if parsed, ok := parseProjectStatus(payload.Status); ok {
		status = parsed
	}
	return a.Projects.PutProject(ctx, storage.ProjectRecord{
		ID:             evt.AggregateID,
		WorkspaceID:    strings.TrimSpace(payload.WorkspaceID),
		Title:          strings.TrimSpace(payload.Title),
		Description:    payload.Description,
		OwnerID:        strings.TrimSpace(payload.OwnerID),
		Status:         status,
		CreatedAt:      createdAt,
		LastModifiedAt: createdAt,
	})
}

func (a Applier) applyProjectUpdated(ctx context.Context, evt event.Event, payload project.UpdatePayload) error {
	if len(payload.Fields) == 0 {
		return nil
	}
	return a.updateProject(ctx, evt, func(record *storage.ProjectRecord) {
		for key, value := range payload.Fields {
			switch key {
			case "title":
				record.Title = strings.TrimSpace(value)
			case "description":
				record.Description = value
			}
		}
	})
}

func (a Applier) applyProjectStatusChanged(ctx context.Context, evt event.Event, payload project.StatusPayload) error {
	status, ok := parseProjectStatus(payload.Status)
	if !ok {
		return nil
	}
	return a.updateProject(ctx, evt, func(record *storage.ProjectRecord) {
		record.Status = status
	})
}

func (a Applier) applyProjectOwnerChanged(ctx context.Context, evt event.Event, payload project.OwnerPayload) error {
	return a.updateProject(ctx, evt, func(record *storage.ProjectRecord) {
		record.OwnerID = strings.TrimSpace(payload.OwnerID)
	})
}

func (a Applier) applyProjectArchived(ctx context.Context, evt event.Event) error {
	return a.updateProject(ctx, evt, func(record *storage.ProjectRecord) {
		record.Archived = true
	})
}

func (a Applier) applyProjectUnarchived(ctx context.Context, evt event.Event) error {
	return a.updateProject(ctx, evt, func(record *storage.ProjectRecord) {
		record.Archived = false
	})
}

func (a Applier) applyProjectDeleted(ctx context.Context, evt event.Event) error {
	return a.updateProject(ctx, evt, func(record *storage.ProjectRecord) {
		record.Deleted = true
	})
}

func (a Applier) updateProject(ctx context.Context, evt event.Event, mutate func(*storage.ProjectRecord)) error {
	record, err := a.Projects.GetProject(ctx, evt.AggregateID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	mutate(&record)
	record.LastModifiedAt = ensureTimestamp(evt.Timestamp)
	return a.Projects.PutProject(ctx, record)
}
