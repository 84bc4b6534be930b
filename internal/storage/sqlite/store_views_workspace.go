package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/trackspace/internal/storage"
)

// PutWorkspace upserts one workspace view row.
func (s *Store) PutWorkspace(ctx context.Context, record storage.WorkspaceRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	record.ID = strings.TrimSpace(record.ID)
	if record.ID == "" {
		return fmt.Errorf("workspace id is required")
	}
	memberIDs, err := marshalStrings(record.MemberIDs)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO workspace_views (id, title, owner_id, member_ids_json, archived, deleted, created_at, last_modified_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     title = excluded.title,
		     owner_id = excluded.owner_id,
		     member_ids_json = excluded.member_ids_json,
		     archived = excluded.archived,
		     deleted = excluded.deleted,
		     created_at = excluded.created_at,
		     last_modified_at = excluded.last_modified_at`,
		record.ID,
		record.Title,
		record.OwnerID,
		memberIDs,
		boolToInt(record.Archived),
		boolToInt(record.Deleted),
		toMillis(record.CreatedAt),
		toMillis(record.LastModifiedAt),
	); err != nil {
		return fmt.Errorf("put workspace view %s: %w", record.ID, err)
	}
	return nil
}

// GetWorkspace retrieves one workspace view row by id.
func (s *Store) GetWorkspace(ctx context.Context, id string) (storage.WorkspaceRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.WorkspaceRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.WorkspaceRecord{}, fmt.Errorf("storage is not configured")
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, title, owner_id, member_ids_json, archived, deleted, created_at, last_modified_at
		 FROM workspace_views WHERE id = ?`,
		strings.TrimSpace(id),
	)
	record, err := scanWorkspaceRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.WorkspaceRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.WorkspaceRecord{}, fmt.Errorf("get workspace view %s: %w", id, err)
	}
	return record, nil
}

// ListWorkspaces returns a filtered page of workspace rows ordered by id.
func (s *Store) ListWorkspaces(ctx context.Context, filter storage.WorkspaceFilter, pageSize int, pageToken string) (storage.WorkspacePage, error) {
	if err := ctx.Err(); err != nil {
		return storage.WorkspacePage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.WorkspacePage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		pageSize = defaultViewPageSize
	}
	key, err := filterKey(filter)
	if err != nil {
		return storage.WorkspacePage{}, err
	}
	afterID, err := decodePageToken(pageToken, key)
	if err != nil {
		return storage.WorkspacePage{}, err
	}

	clauses := []string{"id > ?"}
	args := []any{afterID}
	if filter.OwnerID != "" {
		clauses = append(clauses, "owner_id = ?")
		args = append(args, filter.OwnerID)
	}
	if filter.MemberID != "" {
		clauses = append(clauses, "EXISTS (SELECT 1 FROM json_each(member_ids_json) WHERE json_each.value = ?)")
		args = append(args, filter.MemberID)
	}
	if filter.Archived != nil {
		clauses = append(clauses, "archived = ?")
		args = append(args, boolToInt(*filter.Archived))
	}
	if !filter.IncludeDeleted {
		clauses = append(clauses, "deleted = 0")
	}
	args = append(args, pageSize+1)

	query := `SELECT id, title, owner_id, member_ids_json, archived, deleted, created_at, last_modified_at
		 FROM workspace_views
		 WHERE ` + strings.Join(clauses, " AND ") + `
		 ORDER BY id ASC
		 LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.WorkspacePage{}, fmt.Errorf("list workspace views: %w", err)
	}
	defer rows.Close()

	records := make([]storage.WorkspaceRecord, 0, pageSize)
	for rows.Next() {
		record, err := scanWorkspaceRecord(rows)
		if err != nil {
			return storage.WorkspacePage{}, fmt.Errorf("scan workspace view: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return storage.WorkspacePage{}, fmt.Errorf("iterate workspace views: %w", err)
	}

	page := storage.WorkspacePage{Workspaces: records}
	if len(records) > pageSize {
		page.Workspaces = records[:pageSize]
		token, err := nextPageToken(page.Workspaces[pageSize-1].ID, key)
		if err != nil {
			return storage.WorkspacePage{}, err
		}
		page.NextPageToken = token
	}
	return page, nil
}

func scanWorkspaceRecord(row rowScanner) (storage.WorkspaceRecord, error) {
	var (
		record       storage.WorkspaceRecord
		memberIDs    string
		archived     int
		deleted      int
		createdAt    int64
		lastModified int64
	)
	if err := row.Scan(
		&record.ID,
		&record.Title,
		&record.OwnerID,
		&memberIDs,
		&archived,
		&deleted,
		&createdAt,
		&lastModified,
	); err != nil {
		return storage.WorkspaceRecord{}, err
	}
	members, err := unmarshalStrings(memberIDs)
	if err != nil {
		return storage.WorkspaceRecord{}, err
	}
	record.MemberIDs = members
	record.Archived = archived != 0
	record.Deleted = deleted != 0
	record.CreatedAt = fromMillis(createdAt)
	record.LastModifiedAt = fromMillis(lastModified)
	return record, nil
}
