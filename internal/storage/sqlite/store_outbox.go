package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/trackspace/internal/domain/event"
)

const (
	outboxDeadLetterThreshold = 8
	outboxProcessingLease     = 2 * time.Minute
)

func (s *Store) enqueueProjectionApplyOutbox(ctx context.Context, tx *sql.Tx, evt event.Event, enqueuedAt time.Time) error {
	if !s.outboxEnabled {
		return nil
	}
	const enqueueOutboxSQL = `
INSERT INTO projection_apply_outbox (
    aggregate_id, seq, event_type, status, attempt_count, next_attempt_at, last_error, updated_at
) VALUES (?, ?, ?, 'pending', 0, ?, '', ?)
ON CONFLICT(aggregate_id, seq) DO NOTHING
`
	if _, err := tx.ExecContext(
		ctx,
		enqueueOutboxSQL,
		evt.AggregateID,
		int64(evt.Seq),
		string(evt.Type),
		toMillis(enqueuedAt),
		toMillis(enqueuedAt),
	); err != nil {
		return fmt.Errorf("enqueue projection apply outbox: %w", err)
	}
	return nil
}

type outboxRow struct {
	AggregateID  string
	Seq          uint64
	EventType    string
	AttemptCount int
}

// OutboxSummary reports outbox depth by status and the oldest retry-eligible
// row.
type OutboxSummary struct {
	PendingCount             int
	ProcessingCount          int
	FailedCount              int
	DeadCount                int
	OldestPendingAggregateID string
	OldestPendingSeq         uint64
	OldestPendingAt          time.Time
}

// OutboxEntry describes one outbox row for inspection tooling.
type OutboxEntry struct {
	AggregateID   string
	Seq           uint64
	EventType     event.Type
	Status        string
	AttemptCount  int
	NextAttemptAt time.Time
	LastError     string
	UpdatedAt     time.Time
}

// GetOutboxSummary returns queue depth by status and the oldest
// pending/failed row metadata.
func (s *Store) GetOutboxSummary(ctx context.Context) (OutboxSummary, error) {
	if err := ctx.Err(); err != nil {
		return OutboxSummary{}, err
	}
	if s == nil || s.sqlDB == nil {
		return OutboxSummary{}, fmt.Errorf("storage is not configured")
	}

	summary := OutboxSummary{}
	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT status, COUNT(*)
		 FROM projection_apply_outbox
		 GROUP BY status`,
	)
	if err != nil {
		return OutboxSummary{}, fmt.Errorf("query outbox summary counts: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			status string
			count  int
		)
		if err := rows.Scan(&status, &count); err != nil {
			return OutboxSummary{}, fmt.Errorf("scan outbox summary count: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(status)) {
		case "pending":
			summary.PendingCount = count
		case "processing":
			summary.ProcessingCount = count
		case "failed":
			summary.FailedCount = count
		case "dead":
			summary.DeadCount = count
		}
	}
	if err := rows.Err(); err != nil {
		return OutboxSummary{}, fmt.Errorf("iterate outbox summary counts: %w", err)
	}

	var (
		aggregateID string
		seq         int64
		nextAttempt int64
	)
	err = s.sqlDB.QueryRowContext(
		ctx,
		`SELECT aggregate_id, seq, next_attempt_at
		 FROM projection_apply_outbox
		 WHERE status IN ('pending', 'failed')
		 ORDER BY next_attempt_at ASC, seq ASC
		 LIMIT 1`,
	).Scan(&aggregateID, &seq, &nextAttempt)
	if err == nil {
		summary.OldestPendingAggregateID = aggregateID
		summary.OldestPendingSeq = uint64(seq)
		summary.OldestPendingAt = fromMillis(nextAttempt)
		return summary, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return summary, nil
	}
	return OutboxSummary{}, fmt.Errorf("query oldest pending outbox row: %w", err)
}

// ListOutboxRows lists outbox rows optionally filtered by status.
func (s *Store) ListOutboxRows(ctx context.Context, status string, limit int) ([]OutboxEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return []OutboxEntry{}, nil
	}

	normalizedStatus, err := normalizeOutboxStatus(status)
	if err != nil {
		return nil, err
	}

	var rows *sql.Rows
	if normalizedStatus == "" {
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT aggregate_id, seq, event_type, status, attempt_count, next_attempt_at, last_error, updated_at
			 FROM projection_apply_outbox
			 ORDER BY next_attempt_at ASC, seq ASC
			 LIMIT ?`,
			limit,
		)
	} else {
		rows, err = s.sqlDB.QueryContext(
			ctx,
			`SELECT aggregate_id, seq, event_type, status, attempt_count, next_attempt_at, last_error, updated_at
			 FROM projection_apply_outbox
			 WHERE status = ?
			 ORDER BY next_attempt_at ASC, seq ASC
			 LIMIT ?`,
			normalizedStatus,
			limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("list outbox rows: %w", err)
	}
	defer rows.Close()

	entries := make([]OutboxEntry, 0, limit)
	for rows.Next() {
		var (
			entry       OutboxEntry
			seq         int64
			nextAttempt int64
			updatedAt   int64
			lastError   sql.NullString
		)
		if err := rows.Scan(
			&entry.AggregateID,
			&seq,
			&entry.EventType,
			&entry.Status,
			&entry.AttemptCount,
			&nextAttempt,
			&lastError,
			&updatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan outbox row: %w", err)
		}
		entry.Seq = uint64(seq)
		entry.NextAttemptAt = fromMillis(nextAttempt)
		entry.UpdatedAt = fromMillis(updatedAt)
		if lastError.Valid {
			entry.LastError = lastError.String
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox rows: %w", err)
	}
	return entries, nil
}

func normalizeOutboxStatus(status string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if normalized == "" {
		return "", nil
	}
	switch normalized {
	case "pending", "processing", "failed", "dead":
		return normalized, nil
	default:
		return "", fmt.Errorf("invalid outbox status %q", status)
	}
}

// ProcessOutbox claims due outbox rows and applies events through the
// provided callback. Successful rows are removed from the outbox; failures
// are requeued with exponential backoff until the dead-letter threshold.
func (s *Store) ProcessOutbox(
	ctx context.Context,
	now time.Time,
	limit int,
	apply func(context.Context, event.Event) error,
) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if apply == nil {
		return 0, fmt.Errorf("outbox apply callback is required")
	}
	if limit <= 0 {
		return 0, nil
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	rows, err := s.claimOutboxDue(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	processed := 0
	for _, row := range rows {
		storedEvent, loadErr := s.GetEventBySeq(ctx, row.AggregateID, row.Seq)
		if loadErr != nil {
			attempt := row.AttemptCount + 1
			nextAttempt := now.Add(outboxRetryBackoff(attempt))
			if err := s.markOutboxRetry(ctx, row, now, attempt, nextAttempt, fmt.Sprintf("load event: %v", loadErr)); err != nil {
				return processed, err
			}
			processed++
			continue
		}

		if applyErr := apply(ctx, storedEvent); applyErr != nil {
			attempt := row.AttemptCount + 1
			nextAttempt := now.Add(outboxRetryBackoff(attempt))
			if err := s.markOutboxRetry(ctx, row, now, attempt, nextAttempt, fmt.Sprintf("apply projection: %v", applyErr)); err != nil {
				return processed, err
			}
			processed++
			continue
		}

		if err := s.completeOutboxRow(ctx, row); err != nil {
			return processed, err
		}
		processed++
	}

	return processed, nil
}

// claimOutboxDue claims due rows for processing. A row is due when pending
// or failed with next_attempt_at elapsed, or when a processing lease went
// stale. Rows with an earlier live row for the same aggregate are skipped so
// events apply in per-aggregate sequence order.
func (s *Store) claimOutboxDue(ctx context.Context, now time.Time, limit int) ([]outboxRow, error) {
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin outbox claim tx: %w", err)
	}
	defer tx.Rollback()

	staleBefore := now.Add(-outboxProcessingLease)
	rows, err := tx.QueryContext(
		ctx,
		`SELECT o.aggregate_id, o.seq, o.event_type, o.attempt_count
		 FROM projection_apply_outbox o
		 WHERE (
			 (o.status IN ('pending', 'failed') AND o.next_attempt_at <= ?)
			 OR (o.status = 'processing' AND o.updated_at <= ?)
		 )
		 AND NOT EXISTS (
			 SELECT 1 FROM projection_apply_outbox earlier
			 WHERE earlier.aggregate_id = o.aggregate_id
			   AND earlier.seq < o.seq
			   AND earlier.status != 'dead'
		 )
		 ORDER BY o.next_attempt_at, o.seq
		 LIMIT ?`,
		toMillis(now),
		toMillis(staleBefore),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list due outbox rows: %w", err)
	}
	defer rows.Close()

	candidates := make([]outboxRow, 0, limit)
	for rows.Next() {
		var row outboxRow
		var seq int64
		if err := rows.Scan(&row.AggregateID, &seq, &row.EventType, &row.AttemptCount); err != nil {
			return nil, fmt.Errorf("scan due outbox row: %w", err)
		}
		row.Seq = uint64(seq)
		candidates = append(candidates, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate due outbox rows: %w", err)
	}

	claimed := make([]outboxRow, 0, len(candidates))
	for _, candidate := range candidates {
		result, err := tx.ExecContext(
			ctx,
			`UPDATE projection_apply_outbox
			 SET status = 'processing', updated_at = ?
			 WHERE aggregate_id = ? AND seq = ?
			   AND (
			   	(status IN ('pending', 'failed') AND next_attempt_at <= ?)
			   	OR (status = 'processing' AND updated_at <= ?)
			   )`,
			toMillis(now),
			candidate.AggregateID,
			int64(candidate.Seq),
			toMillis(now),
			toMillis(staleBefore),
		)
		if err != nil {
			return nil, fmt.Errorf("claim outbox row %s/%d: %w", candidate.AggregateID, candidate.Seq, err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("claim outbox row rows affected %s/%d: %w", candidate.AggregateID, candidate.Seq, err)
		}
		if affected == 1 {
			claimed = append(claimed, candidate)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit outbox claim tx: %w", err)
	}
	return claimed, nil
}

func (s *Store) markOutboxRetry(ctx context.Context, row outboxRow, now time.Time, attempt int, nextAttempt time.Time, lastError string) error {
	status := "failed"
	if attempt >= outboxDeadLetterThreshold {
		status = "dead"
	}
	result, err := s.sqlDB.ExecContext(
		ctx,
		`UPDATE projection_apply_outbox
		 SET status = ?,
		     attempt_count = ?,
		     next_attempt_at = ?,
		     last_error = ?,
		     updated_at = ?
		 WHERE aggregate_id = ? AND seq = ? AND status = 'processing'`,
		status,
		attempt,
		toMillis(nextAttempt),
		lastError,
		toMillis(now),
		row.AggregateID,
		int64(row.Seq),
	)
	if err != nil {
		return fmt.Errorf("mark outbox retry for row %s/%d: %w", row.AggregateID, row.Seq, err)
	}
	return ensureOutboxSingleRow(result, row, "mark outbox retry for row", "updated")
}

func (s *Store) completeOutboxRow(ctx context.Context, row outboxRow) error {
	result, err := s.sqlDB.ExecContext(
		ctx,
		`DELETE FROM projection_apply_outbox
		 WHERE aggregate_id = ? AND seq = ? AND status = 'processing'`,
		row.AggregateID,
		int64(row.Seq),
	)
	if err != nil {
		return fmt.Errorf("complete outbox row %s/%d: %w", row.AggregateID, row.Seq, err)
	}
	return ensureOutboxSingleRow(result, row, "complete outbox row", "deleted")
}

func ensureOutboxSingleRow(result sql.Result, row outboxRow, operation, verb string) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected %s/%d: %w", operation, row.AggregateID, row.Seq, err)
	}
	if affected != 1 {
		return fmt.Errorf("%s %s/%d: expected 1 row %s, got %d", operation, row.AggregateID, row.Seq, verb, affected)
	}
	return nil
}

// RequeueOutboxDeadRows transitions up to limit dead outbox rows back to
// pending in deterministic retry order, for operators retrying after a fix.
func (s *Store) RequeueOutboxDeadRows(ctx context.Context, limit int, now time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return 0, fmt.Errorf("outbox requeue limit must be greater than zero")
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	result, err := s.sqlDB.ExecContext(
		ctx,
		`WITH to_requeue AS (
			SELECT aggregate_id, seq
			FROM projection_apply_outbox
			WHERE status = 'dead'
			ORDER BY next_attempt_at ASC, seq ASC
			LIMIT ?
		)
		UPDATE projection_apply_outbox
		SET status = 'pending',
		    attempt_count = 0,
		    next_attempt_at = ?,
		    last_error = '',
		    updated_at = ?
		WHERE (aggregate_id, seq) IN (SELECT aggregate_id, seq FROM to_requeue)`,
		limit,
		toMillis(now),
		toMillis(now),
	)
	if err != nil {
		return 0, fmt.Errorf("requeue dead outbox rows: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("requeue dead outbox rows affected: %w", err)
	}
	return int(affected), nil
}

func outboxRetryBackoff(attempt int) time.Duration {
	if attempt <= 0 {
		attempt = 1
	}
	backoff := time.Second << (attempt - 1)
	if backoff > 5*time.Minute {
		return 5 * time.Minute
	}
	return backoff
}
