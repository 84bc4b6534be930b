package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/louisbranch/trackspace/internal/domain/user"
	"github.com/louisbranch/trackspace/internal/storage"
)

// PutUser upserts one user view row.
func (s *Store) PutUser(ctx context.Context, record storage.UserRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	record.ID = strings.TrimSpace(record.ID)
	if record.ID == "" {
		return fmt.Errorf("user id is required")
	}

	if _, err := s.db.ExecContext(
		ctx,
		`INSERT INTO user_views (
		     id, name, email, role, active, deleted, created_at, last_modified_at
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		     name = excluded.name,
		     email = excluded.email,
		     role = excluded.role,
		     active = excluded.active,
		     deleted = excluded.deleted,
		     created_at = excluded.created_at,
		     last_modified_at = excluded.last_modified_at`,
		record.ID,
		record.Name,
		record.Email,
		string(record.Role),
		boolToInt(record.Active),
		boolToInt(record.Deleted),
		toMillis(record.CreatedAt),
		toMillis(record.LastModifiedAt),
	); err != nil {
		return fmt.Errorf("put user view %s: %w", record.ID, err)
	}
	return nil
}

// GetUser retrieves one user view row by id.
func (s *Store) GetUser(ctx context.Context, id string) (storage.UserRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.UserRecord{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.UserRecord{}, fmt.Errorf("storage is not configured")
	}

	row := s.db.QueryRowContext(
		ctx,
		`SELECT id, name, email, role, active, deleted, created_at, last_modified_at
		 FROM user_views WHERE id = ?`,
		strings.TrimSpace(id),
	)
	record, err := scanUserRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.UserRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.UserRecord{}, fmt.Errorf("get user view %s: %w", id, err)
	}
	return record, nil
}

// ListUsers returns a filtered page of user rows ordered by id.
func (s *Store) ListUsers(ctx context.Context, filter storage.UserFilter, pageSize int, pageToken string) (storage.UserPage, error) {
	if err := ctx.Err(); err != nil {
		return storage.UserPage{}, err
	}
	if s == nil || s.sqlDB == nil {
		return storage.UserPage{}, fmt.Errorf("storage is not configured")
	}
	if pageSize <= 0 {
		pageSize = defaultViewPageSize
	}
	key, err := filterKey(filter)
	if err != nil {
		return storage.UserPage{}, err
	}
	afterID, err := decodePageToken(pageToken, key)
	if err != nil {
		return storage.UserPage{}, err
	}

	clauses := []string{"id > ?"}
	args := []any{afterID}
	if filter.Role != "" {
		clauses = append(clauses, "role = ?")
		args = append(args, string(filter.Role))
	}
	if filter.Active != nil {
		clauses = append(clauses, "active = ?")
		args = append(args, boolToInt(*filter.Active))
	}
	if !filter.IncludeDeleted {
		clauses = append(clauses, "deleted = 0")
	}
	args = append(args, pageSize+1)

	query := `SELECT id, name, email, role, active, deleted, created_at, last_modified_at
		 FROM user_views
		 WHERE ` + strings.Join(clauses, " AND ") + `
		 ORDER BY id ASC
		 LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return storage.UserPage{}, fmt.Errorf("list user views: %w", err)
	}
	defer rows.Close()

	records := make([]storage.UserRecord, 0, pageSize)
	for rows.Next() {
		record, err := scanUserRecord(rows)
		if err != nil {
			return storage.UserPage{}, fmt.Errorf("scan user view: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return storage.UserPage{}, fmt.Errorf("iterate user views: %w", err)
	}

	page := storage.UserPage{Users: records}
	if len(records) > pageSize {
		page.Users = records[:pageSize]
		token, err := nextPageToken(page.Users[pageSize-1].ID, key)
		if err != nil {
			return storage.UserPage{}, err
		}
		page.NextPageToken = token
	}
	return page, nil
}

func scanUserRecord(row rowScanner) (storage.UserRecord, error) {
	var (
		record       storage.UserRecord
		role         string
		active       int
		deleted      int
		createdAt    int64
		lastModified int64
	)
	if err := row.Scan(
		&record.ID,
		&record.Name,
		&record.Email,
		&role,
		&active,
		&deleted,
		&createdAt,
		&lastModified,
	); err != nil {
		return storage.UserRecord{}, err
	}
	record.Role = user.Role(role)
	record.Active = active != 0
	record.Deleted = deleted != 0
	record.CreatedAt = fromMillis(createdAt)
	record.LastModifiedAt = fromMillis(lastModified)
	return record, nil
}
