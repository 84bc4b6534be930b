package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/trackspace/internal/domain/task"
	"github.com/louisbranch/trackspace/internal/storage"
)

// PutTask upserts one task view row.
func (s *Store) PutTask(ctx context.Context, record storage.TaskRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	record.ID = strings.TrimSpace(record.ID)
	if record.ID == "" {
		return fmt.Errorf("task id is required")
	}
	tags, err := marshalStrings(record.Tags)
	if err != nil {
		return err
	}
	categories, err := marshalStrings(record.Categories)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO task_views (
		     id, workspace_id, project_id, title, description, assigned_user_id,
		     status, priority, deadline, recurrence_rule, tags_json, categories_json,
		     comment_count, attachment_count, deleted, created_at, last_modified_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     workspace_id = excluded.workspace_id,
		     project_id = excluded.project_id,
		     title = excluded.title,
		     description = excluded.description,
		     assigned_user_id = excluded.assigned_user_id,
		     status = excluded.status,
		     priority = excluded.priority,
		     deadline = excluded.deadline,
		     recurrence_rule = excluded.recurrence_rule,
		     tags_json = excluded.tags_json,
		     categories_json = excluded.categories_json,
		     comment_count = excluded.comment_count,
		     attachment_count = excluded.attachment_count,
		     deleted = excluded.deleted,
		     created_at = excluded.created_at,
		     last_modified_at = excluded.last_modified_at`,
		record.ID,
		record.WorkspaceID,
		record.ProjectID,
		record.Title,
		record.Description,
		record.AssignedUserID,
		string(record.Status),
		string(record.Priority),
		record.Deadline,
		record.RecurrenceRule,
		tags,
		categories,
		record.CommentCount,
		record.AttachmentCount,
		boolToInt(record.Deleted),
		toMillis(record.CreatedAt),
		toMillis(record.LastModifiedAt),
	); err != nil {
		return fmt.Errorf("put task view %s: %w", record.ID, err)
	}
	return nil
}

// GetTask retrieves one task view row by id.
func (s *Store) GetTask(ctx context.Context, id string) (storage.TaskRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.TaskRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.TaskRecord{}, fmt.Errorf("storage is not configured")
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, workspace_id, project_id, title, description, assigned_user_id,
		        status, priority, deadline, recurrence_rule, tags_json, categories_json,
		        comment_count, attachment_count, deleted, created_at, last_modified_at
		 FROM task_views WHERE id = ?`,
		strings.TrimSpace(id),
	)
	record, err := scanTaskRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.TaskRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.TaskRecord{}, fmt.Errorf("get task view %s: %w", id, err)
	}
	return record, nil
}

// ListTasks returns a filtered page of task rows ordered by id.
func (s *Store) ListTasks(ctx context.Context, filter storage.TaskFilter, pageSize int, pageToken string) (storage.TaskPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.TaskPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.TaskPage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		pageSize = defaultViewPageSize
	}
	key, err := filterKey(filter)
	if err != nil {
		return storage.TaskPage{}, err
	}
	afterID, err := decodePageToken(pageToken, key)
	if err != nil {
		return storage.TaskPage{}, err
	}

	clauses := []string{"id > ?"}
	args := []any{afterID}
	if filter.WorkspaceID != "" {
		clauses = append(clauses, "workspace_id = ?")
		args = append(args, filter.WorkspaceID)
	}
	if filter.ProjectID != "" {
		clauses = append(clauses, "project_id = ?")
		args = append(args, filter.ProjectID)
	}
	if filter.AssignedUserID != "" {
		clauses = append(clauses, "assigned_user_id = ?")
		args = append(args, filter.AssignedUserID)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Priority != "" {
		clauses = append(clauses, "priority = ?")
		args = append(args, string(filter.Priority))
	}
	if filter.Tag != "" {
		clauses = append(clauses, "EXISTS (SELECT 1 FROM json_each(tags_json) WHERE json_each.value = ?)")
		args = append(args, filter.Tag)
	}
	if filter.Category != "" {
		clauses = append(clauses, "EXISTS (SELECT 1 FROM json_each(categories_json) WHERE json_each.value = ?)")
		args = append(args, filter.Category)
	}
	if !filter.IncludeDeleted {
		clauses = append(clauses, "deleted = 0")
	}
	args = append(args, pageSize+1)

	query := `SELECT id, workspace_id, project_id, title, description, assigned_user_id,
		        status, priority, deadline, recurrence_rule, tags_json, categories_json,
		        comment_count, attachment_count, deleted, created_at, last_modified_at
		 FROM task_views
		 WHERE ` + strings.Join(clauses, " AND ") + `
		 ORDER BY id ASC
		 LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.TaskPage{}, fmt.Errorf("list task views: %w", err)
	}
	defer rows.Close()

	records := make([]storage.TaskRecord, 0, pageSize)
	for rows.Next() {
		record, err := scanTaskRecord(rows)
		if err != nil {
			return storage.TaskPage{}, fmt.Errorf("scan task view: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return storage.TaskPage{}, fmt.Errorf("iterate task views: %w", err)
	}

	page := storage.TaskPage{Tasks: records}
	if len(records) > pageSize {
		page.Tasks = records[:pageSize]
		token, err := nextPageToken(page.Tasks[pageSize-1].ID, key)
		if err != nil {
			return storage.TaskPage{}, err
		}
		page.NextPageToken = token
	}
	return page, nil
}

func scanTaskRecord(row rowScanner) (storage.TaskRecord, error) {
	var (
		record       storage.TaskRecord
		status       string
		priority     string
		tags         string
		categories   string
		deleted      int
		createdAt    int64
		lastModified int64
	)
	if err := row.Scan(
		&record.ID,
		&record.WorkspaceID,
		&record.ProjectID,
		&record.Title,
		&record.Description,
		&record.AssignedUserID,
		&status,
		&priority,
		&record.Deadline,
		&record.RecurrenceRule,
		&tags,
		&categories,
		&record.CommentCount,
		&record.AttachmentCount,
		&deleted,
		&createdAt,
		&lastModified,
	); err != nil {
		return storage.TaskRecord{}, err
	}
	record.Status = task.Status(status)
	record.Priority = task.Priority(priority)
	tagList, err := unmarshalStrings(tags)
	if err != nil {
		return storage.TaskRecord{}, err
	}
	record.Tags = tagList
	categoryList, err := unmarshalStrings(categories)
	if err != nil {
		return storage.TaskRecord{}, err
	}
	record.Categories = categoryList
	record.Deleted = deleted != 0
	record.CreatedAt = fromMillis(createdAt)
	record.LastModifiedAt = fromMillis(lastModified)
	return record, nil
}
