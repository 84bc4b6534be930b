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

// ApplyProjectionEventExactlyOnce applies one projection event inside a
// projections-db transaction and records a per-(aggregate, seq) checkpoint
// to dedupe retries. The boolean result reports whether the apply ran;
// false means the checkpoint already existed and the event was skipped.
//
// Redundant deliveries are expected: the outbox is at-least-once and the
// optional inline apply mode delivers the same event a second time. The
// checkpoint makes both harmless.
func (s *Store) ApplyProjectionEventExactlyOnce(
	ctx context.Context,
	evt event.Event,
	apply func(context.Context, event.Event, *Store) error,
) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if s == nil || s.sqlDB == nil {
		return false, fmt.Errorf("storage is not configured")
	}
	if apply == nil {
		return false, fmt.Errorf("projection apply callback is required")
	}
	if strings.TrimSpace(evt.AggregateID) == "" {
		return false, fmt.Errorf("aggregate id is required")
	}
	if evt.Seq == 0 {
		return false, fmt.Errorf("event sequence must be greater than zero")
	}

	const (
		maxBusyRetries = 8
		retryBaseDelay = 10 * time.Millisecond
	)

	waitForRetry := func(attempt int) error {
		delay := time.Duration(attempt+1) * retryBaseDelay
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
			return nil
		}
	}

	var lastBusyErr error
	for attempt := 0; ; attempt++ {
		tx, err := s.sqlDB.BeginTx(ctx, nil)
		if err != nil {
			if isSQLiteBusyError(err) && attempt < maxBusyRetries {
				lastBusyErr = err
				if waitErr := waitForRetry(attempt); waitErr != nil {
					return false, waitErr
				}
				continue
			}
			return false, fmt.Errorf("begin projection apply tx: %w", err)
		}

		applied, retry, err := func() (bool, bool, error) {
			defer tx.Rollback()

			checkpointResult, err := tx.ExecContext(
				ctx,
				`INSERT OR IGNORE INTO projection_apply_checkpoints (aggregate_id, seq, event_type, applied_at)
				 VALUES (?, ?, ?, ?)`,
				evt.AggregateID,
				int64(evt.Seq),
				string(evt.Type),
				toMillis(time.Now().UTC()),
			)
			if err != nil {
				if isSQLiteBusyError(err) {
					lastBusyErr = err
					return false, true, nil
				}
				return false, false, fmt.Errorf("reserve projection apply checkpoint %s/%d: %w", evt.AggregateID, evt.Seq, err)
			}

			rowsAffected, err := checkpointResult.RowsAffected()
			if err != nil {
				return false, false, fmt.Errorf("inspect projection apply checkpoint reservation %s/%d: %w", evt.AggregateID, evt.Seq, err)
			}
			if rowsAffected == 0 {
				return false, false, nil
			}

			if err := apply(ctx, evt, s.withTx(tx)); err != nil {
				return false, false, err
			}

			if err := tx.Commit(); err != nil {
				if isSQLiteBusyError(err) {
					lastBusyErr = err
					return false, true, nil
				}
				return false, false, fmt.Errorf("commit projection apply tx: %w", err)
			}

			return true, false, nil
		}()
		if retry {
			if attempt < maxBusyRetries {
				if waitErr := waitForRetry(attempt); waitErr != nil {
					return false, waitErr
				}
				continue
			}
			if lastBusyErr != nil {
				return false, fmt.Errorf("projection apply checkpoint %s/%d remained busy: %w", evt.AggregateID, evt.Seq, lastBusyErr)
			}
			return false, fmt.Errorf("projection apply checkpoint %s/%d remained busy", evt.AggregateID, evt.Seq)
		}
		return applied, err
	}
}

// GetProjectionCheckpoint returns the applied timestamp for one
// (aggregate, seq) checkpoint, or false when the event has not applied yet.
func (s *Store) GetProjectionCheckpoint(ctx context.Context, aggregateID string, seq uint64) (time.Time, bool, error) {
	if err := ctx.Err(); err != nil {
		return time.Time{}, false, err
	}
	if s == nil || s.sqlDB == nil {
		return time.Time{}, false, fmt.Errorf("storage is not configured")
	}

	var appliedAt int64
	err := s.db.QueryRowContext(
		ctx,
		`SELECT applied_at FROM projection_apply_checkpoints WHERE aggregate_id = ? AND seq = ?`,
		aggregateID,
		int64(seq),
	).Scan(&appliedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("get projection checkpoint: %w", err)
	}
	return fromMillis(appliedAt), true, nil
}
