package projection

import (
	"context"
	"errors"
	"strings"

	"github.com/louisbranch/trackspace/internal/domain/event"
	"github.com/louisbranch/trackspace/internal/domain/task"
	"github.com/louisbranch/trackspace/internal/storage"
)

func (a Applier) applyTaskCreated(ctx context.Context, evt event.Event, payload task.CreatePayload) error {
	createdAt := ensureTimestamp(evt.Timestamp)
	record := storage.TaskRecord{
		ID:             evt.AggregateID,
		WorkspaceID:    strings.TrimSpace(payload.WorkspaceID),
		ProjectID:      strings.TrimSpace(payload.ProjectID),
		Title:          strings.TrimSpace(payload.Title),
		Description:    payload.Description,
		Status:         task.StatusPending,
		Priority:       task.PriorityMedium,
		Deadline:       strings.TrimSpace(payload.Deadline),
		CreatedAt:      createdAt,
		LastModifiedAt: createdAt,
	}
	if priority, ok := parseTaskPriority(payload.Priority); ok {
		record.Priority = priority
	}
	return a.Tasks.PutTask(ctx, record)
}

func (a Applier) applyTaskUpdated(ctx context.Context, evt event.Event, payload task.UpdatePayload) error {
	if len(payload.Fields) == 0 {
		return nil
	}
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
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

func (a Applier) applyTaskAssigned(ctx context.Context, evt event.Event, payload task.AssignPayload) error {
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		record.AssignedUserID = strings.TrimSpace(payload.UserID)
	})
}

func (a Applier) applyTaskAssigneeRemoved(ctx context.Context, evt event.Event) error {
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		record.AssignedUserID = ""
	})
}

func (a Applier) applyTaskStatusChanged(ctx context.Context, evt event.Event, payload task.StatusPayload) error {
	status, ok := parseTaskStatus(payload.Status)
	if !ok {
		return nil
	}
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		record.Status = status
	})
}

func (a Applier) applyTaskCompleted(ctx context.Context, evt event.Event) error {
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		record.Status = task.StatusCompleted
	})
}

func (a Applier) applyTaskCancelled(ctx context.Context, evt event.Event) error {
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		record.Status = task.StatusCancelled
	})
}

func (a Applier) applyTaskPrioritySet(ctx context.Context, evt event.Event, payload task.PriorityPayload) error {
	priority, ok := parseTaskPriority(payload.Priority)
	if !ok {
		return nil
	}
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		record.Priority = priority
	})
}

func (a Applier) applyTaskDeadlineSet(ctx context.Context, evt event.Event, payload task.DeadlinePayload) error {
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		record.Deadline = strings.TrimSpace(payload.Deadline)
	})
}

func (a Applier) applyTaskRecurrenceSet(ctx context.Context, evt event.Event, payload task.RecurrencePayload) error {
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		record.RecurrenceRule = strings.TrimSpace(payload.Rule)
	})
}

func (a Applier) applyTaskTagAdded(ctx context.Context, evt event.Event, payload task.LabelPayload) error {
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		record.Tags = appendLabel(record.Tags, payload.Label)
	})
}

func (a Applier) applyTaskTagRemoved(ctx context.Context, evt event.Event, payload task.LabelPayload) error {
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		record.Tags = dropLabel(record.Tags, payload.Label)
	})
}

func (a Applier) applyTaskCategoryAdded(ctx context.Context, evt event.Event, payload task.LabelPayload) error {
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		record.Categories = appendLabel(record.Categories, payload.Label)
	})
}

func (a Applier) applyTaskCategoryRemoved(ctx context.Context, evt event.Event, payload task.LabelPayload) error {
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		record.Categories = dropLabel(record.Categories, payload.Label)
	})
}

func (a Applier) applyTaskFileAttached(ctx context.Context, evt event.Event, payload task.FilePayload) error {
	if strings.TrimSpace(payload.FileID) == "" {
		return nil
	}
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		record.AttachmentCount++
	})
}

func (a Applier) applyTaskFileRemoved(ctx context.Context, evt event.Event, payload task.FilePayload) error {
	if strings.TrimSpace(payload.FileID) == "" {
		return nil
	}
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		if record.AttachmentCount > 0 {
			record.AttachmentCount--
		}
	})
}

func (a Applier) applyTaskCommentAdded(ctx context.Context, evt event.Event, payload task.CommentPayload) error {
	if strings.TrimSpace(payload.CommentID) == "" {
		return nil
	}
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		record.CommentCount++
	})
}

func (a Applier) applyTaskCommentUpdated(ctx context.Context, evt event.Event, payload task.CommentPayload) error {
	if strings.TrimSpace(payload.CommentID) == "" {
		return nil
	}
	// Edits keep the thread size unchanged; only the modification time moves.
	return a.updateTask(ctx, evt, func(*storage.TaskRecord) {})
}

func (a Applier) applyTaskCommentDeleted(ctx context.Context, evt event.Event, payload task.CommentPayload) error {
	if strings.TrimSpace(payload.CommentID) == "" {
		return nil
	}
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		if record.CommentCount > 0 {
			record.CommentCount--
		}
	})
}

func (a Applier) applyTaskDeleted(ctx context.Context, evt event.Event) error {
	return a.updateTask(ctx, evt, func(record *storage.TaskRecord) {
		record.Deleted = true
	})
}

func (a Applier) updateTask(ctx context.Context, evt event.Event, mutate func(*storage.TaskRecord)) error {
	record, err := a.Tasks.GetTask(ctx, evt.AggregateID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	mutate(&record)
	record.LastModifiedAt = ensureTimestamp(evt.Timestamp)
	return a.Tasks.PutTask(ctx, record)
}

func appendLabel(labels []string, label string) []string {
	label = strings.TrimSpace(label)
	if label == "" {
		return labels
	}
	for _, l := range labels {
		if l == label {
			return labels
		}
	}
	return append(labels, label)
}

func dropLabel(labels []string, label string) []string {
	label = strings.TrimSpace(label)
	kept := make([]string, 0, len(labels))
	for _, l := range labels {
		if l != label {
			kept = append(kept, l)
		}
	}
	return kept
}
