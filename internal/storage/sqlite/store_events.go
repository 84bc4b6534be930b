package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/trackspace/internal/domain/event"
	apperrors "github.com/louisbranch/trackspace/internal/platform/errors"
	"github.com/louisbranch/trackspace/internal/storage"
)

// AppendEvents atomically appends events to one aggregate stream.
//
// The stream head is checked against expectedSeq inside the transaction, so
// two writers racing on the same aggregate cannot both win: the loser gets
// CodeConcurrencyConflict and retries from a fresh replay. Outbox rows are
// enqueued in the same transaction, which is the at-least-once hand-off to
// the projection worker.
func (s *Store) AppendEvents(ctx context.Context, aggregateID string, kind event.Kind, expectedSeq uint64, events []event.Event) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if s.eventRegistry == nil {
		return nil, fmt.Errorf("event registry is required")
	}
	aggregateID = strings.TrimSpace(aggregateID)
	if aggregateID == "" {
		return nil, fmt.Errorf("aggregate id is required")
	}
	if !kind.IsValid() {
		return nil, fmt.Errorf("aggregate kind %q is invalid", kind)
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("at least one event is required")
	}

	// Validate all events before opening a transaction.
	validated := make([]event.Event, len(events))
	for i, evt := range events {
		if evt.Timestamp.IsZero() {
			evt.Timestamp = time.Now().UTC()
		}
		evt.Timestamp = evt.Timestamp.UTC().Truncate(time.Millisecond)
		v, err := s.eventRegistry.ValidateForAppend(evt)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		if v.AggregateID != aggregateID {
			return nil, fmt.Errorf("event %d targets aggregate %q, want %q", i, v.AggregateID, aggregateID)
		}
		if v.Kind != kind {
			return nil, fmt.Errorf("event %d carries kind %q, want %q", i, v.Kind, kind)
		}
		validated[i] = v
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var headSeq int64
	var headKind string
	err = tx.QueryRowContext(
		ctx,
		`SELECT head_seq, kind FROM aggregate_heads WHERE aggregate_id = ?`,
		aggregateID,
	).Scan(&headSeq, &headKind)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		headSeq = 0
		headKind = string(kind)
	case err != nil:
		return nil, fmt.Errorf("load aggregate head: %w", err)
	}
	if headKind != string(kind) {
		return nil, fmt.Errorf("aggregate %s belongs to kind %q, not %q", aggregateID, headKind, kind)
	}
	if uint64(headSeq) != expectedSeq {
		return nil, apperrors.WithMetadata(apperrors.CodeConcurrencyConflict,
			fmt.Sprintf("aggregate %s head is %d, expected %d", aggregateID, headSeq, expectedSeq),
			map[string]string{"aggregateId": aggregateID})
	}

	now := time.Now().UTC()
	stored := make([]event.Event, 0, len(validated))
	for i, evt := range validated {
		evt.Seq = expectedSeq + uint64(i) + 1
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO events (aggregate_id, seq, kind, event_type, actor_id, request_id, timestamp, payload_json)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			evt.AggregateID,
			int64(evt.Seq),
			string(evt.Kind),
			string(evt.Type),
			evt.ActorID,
			evt.RequestID,
			toMillis(evt.Timestamp),
			evt.PayloadJSON,
		); err != nil {
			if isConstraintError(err) {
				// A writer outside this process appended first.
				return nil, apperrors.Wrap(apperrors.CodeConcurrencyConflict,
					fmt.Sprintf("aggregate %s seq %d already exists", evt.AggregateID, evt.Seq), err)
			}
			return nil, fmt.Errorf("append event %s/%d: %w", evt.AggregateID, evt.Seq, err)
		}
		if err := s.enqueueProjectionApplyOutbox(ctx, tx, evt, now); err != nil {
			return nil, err
		}
		stored = append(stored, evt)
	}

	newHead := int64(expectedSeq) + int64(len(stored))
	if _, err := tx.ExecContext(
		ctx,
		`INSERT INTO aggregate_heads (aggregate_id, kind, head_seq, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(aggregate_id) DO UPDATE SET head_seq = excluded.head_seq, updated_at = excluded.updated_at
		 WHERE aggregate_heads.head_seq = ?`,
		aggregateID,
		string(kind),
		newHead,
		toMillis(now),
		int64(expectedSeq),
	); err != nil {
		return nil, fmt.Errorf("advance aggregate head: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return stored, nil
}

// GetEventBySeq retrieves a specific event by sequence number.
func (s *Store) GetEventBySeq(ctx context.Context, aggregateID string, seq uint64) (event.Event, error) {
	if err := ctx.Err(); err != nil {
		return event.Event{}, err
	}
	if s == nil || s.sqlDB == nil {
		return event.Event{}, fmt.Errorf("storage is not configured")
	}

	row := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT aggregate_id, seq, kind, event_type, actor_id, request_id, timestamp, payload_json
		 FROM events
		 WHERE aggregate_id = ? AND seq = ?`,
		aggregateID,
		int64(seq),
	)
	evt, err := scanEvent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return event.Event{}, storage.ErrNotFound
	}
	if err != nil {
		return event.Event{}, fmt.Errorf("get event %s/%d: %w", aggregateID, seq, err)
	}
	return evt, nil
}

// ListEvents returns events ordered by sequence ascending.
func (s *Store) ListEvents(ctx context.Context, aggregateID string, afterSeq uint64, limit int) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		return nil, nil
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT aggregate_id, seq, kind, event_type, actor_id, request_id, timestamp, payload_json
		 FROM events
		 WHERE aggregate_id = ? AND seq > ?
		 ORDER BY seq ASC
		 LIMIT ?`,
		aggregateID,
		int64(afterSeq),
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		evt, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

// GetLatestSeq returns the stream head, 0 when no events exist.
func (s *Store) GetLatestSeq(ctx context.Context, aggregateID string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}

	var head int64
	err := s.sqlDB.QueryRowContext(
		ctx,
		`SELECT head_seq FROM aggregate_heads WHERE aggregate_id = ?`,
		aggregateID,
	).Scan(&head)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get latest seq: %w", err)
	}
	return uint64(head), nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (event.Event, error) {
	var (
		evt       event.Event
		seq       int64
		kind      string
		eventType string
		timestamp int64
	)
	if err := row.Scan(
		&evt.AggregateID,
		&seq,
		&kind,
		&eventType,
		&evt.ActorID,
		&evt.RequestID,
		&timestamp,
		&evt.PayloadJSON,
	); err != nil {
		return event.Event{}, err
	}
	evt.Seq = uint64(seq)
	evt.Kind = event.Kind(kind)
	evt.Type = event.Type(eventType)
	evt.Timestamp = fromMillis(timestamp)
	return evt, nil
}
