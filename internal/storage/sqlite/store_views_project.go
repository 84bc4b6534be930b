package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/trackspace/internal/domain/project"
	"github.com/louisbranch/trackspace/internal/storage"
)

// PutProject upserts one project view row.
func (s *Store) PutProject(ctx context.Context, record storage.ProjectRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	record.ID = strings.TrimSpace(record.ID)
	if record.ID == "" {
		return fmt.Errorf("project id is required")
	}

	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO project_views (id, workspace_id, title, description, owner_id, status, archived, deleted, created_at, last_modified_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     workspace_id = excluded.workspace_id,
		     title = excluded.title,
		     description = excluded.description,
		     owner_id = excluded.owner_id,
		     status = excluded.status,
		     archived = excluded.archived,
		     deleted = excluded.deleted,
		     created_at = excluded.created_at,
		     last_modified_at = excluded.last_modified_at`,
		record.ID,
		record.WorkspaceID,
		record.Title,
		record.Description,
		record.OwnerID,
		string(record.Status),
		boolToInt(record.Archived),
		boolToInt(record.Deleted),
		toMillis(record.CreatedAt),
		toMillis(record.LastModifiedAt),
	); err != nil {
		return fmt.Errorf("put project view %s: %w", record.ID, err)
	}
	return nil
}

// GetProject retrieves one project view row by id.
func (s *Store) GetProject(ctx context.Context, id string) (storage.ProjectRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.ProjectRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ProjectRecord{}, fmt.Errorf("storage is not configured")
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, workspace_id, title, description, owner_id, status, archived, deleted, created_at, last_modified_at
		 FROM project_views WHERE id = ?`,
		strings.TrimSpace(id),
	)
	record, err := scanProjectRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.ProjectRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.ProjectRecord{}, fmt.Errorf("get project view %s: %w", id, err)
	}
	return record, nil
}

// ListProjects returns a filtered page of project rows ordered by id.
func (s *Store) ListProjects(ctx context.Context, filter storage.ProjectFilter, pageSize int, pageToken string) (storage.ProjectPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.ProjectPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.ProjectPage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		pageSize = defaultViewPageSize
	}
	key, err := filterKey(filter)
	if err != nil {
		return storage.ProjectPage{}, err
	}
	afterID, err := decodePageToken(pageToken, key)
	if err != nil {
		return storage.ProjectPage{}, err
	}

	clauses := []string{"id > ?"}
	args := []any{afterID}
	if filter.WorkspaceID != "" {
		clauses = append(clauses, "workspace_id = ?")
		args = append(args, filter.WorkspaceID)
	}
	if filter.OwnerID != "" {
		clauses = append(clauses, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(filter.Status))
	}
	if filter.Archived != nil {
		clauses = append(clauses, "archived = ?")
		args = append(args, boolToInt(*filter.Archived))
	}
	if !filter.IncludeDeleted {
		clauses = append(clauses, "deleted = 0")
	}
	args = append(args, pageSize+1)

	query := `SELECT id, workspace_id, title, description, owner_id, status, archived, deleted, created_at, last_modified_at
		 FROM project_views
		 WHERE ` + strings.Join(clauses, " AND ") + `
		 ORDER BY id ASC
		 LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.ProjectPage{}, fmt.Errorf("list project views: %w", err)
	}
	defer rows.Close()

	records := make([]storage.ProjectRecord, 0, pageSize)
	for rows.Next() {
		record, err := scanProjectRecord(rows)
		if err != nil {
			return storage.ProjectPage{}, fmt.Errorf("scan project view: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return storage.ProjectPage{}, fmt.Errorf("iterate project views: %w", err)
	}

	page := storage.ProjectPage{Projects: records}
	if len(records) > pageSize {
		page.Projects = records[:pageSize]
		token, err := nextPageToken(page.Projects[pageSize-1].ID, key)
		if err != nil {
			return storage.ProjectPage{}, err
		}
		page.NextPageToken = token
	}
	return page, nil
}

func scanProjectRecord(row rowScanner) (storage.ProjectRecord, error) {
	var (
		record       storage.ProjectRecord
		status       string
		archived     int
		deleted      int
		createdAt    int64
		lastModified int64
	)
	if err := row.Scan(
		&record.ID,
		&record.WorkspaceID,
		&record.Title,
		&record.Description,
		&record.OwnerID,
		&status,
		&archived,
		&deleted,
		&createdAt,
		&lastModified,
	); err != nil {
		return storage.ProjectRecord{}, err
	}
	record.Status = project.Status(status)
	record.Archived = archived != 0
	record.Deleted = deleted != 0
	record.CreatedAt = fromMillis(createdAt)
	record.LastModifiedAt = fromMillis(lastModified)
	return record, nil
}
