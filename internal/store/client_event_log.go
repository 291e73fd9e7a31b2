// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/models"
)

// eventLogRepository is the SQLite-backed implementation of
// [PendingEventLog]: the durable outbound queue every local mutation passes
// through before it reaches the server.
//
// Enqueue is idempotent by event id, so re-running a mutation handler after
// a crash never duplicates an event. Events leave the queue only through
// Remove (terminal acknowledgement) or sit parked via MarkDead.
type eventLogRepository struct {
	*DB
	logger *logger.Logger
}

// NewEventLogRepository constructs a [PendingEventLog] backed by the agent's
// local database.
func NewEventLogRepository(db *DB, logger *logger.Logger) PendingEventLog {
	logger.Debug().Msg("creating pending event log repository")
	return &eventLogRepository{
		DB:     db,
		logger: logger,
	}
}

// Enqueue appends one event to the queue and assigns it the next per-device
// sequence number. Enqueuing an event id that is already queued is a no-op,
// so callers may safely replay after partial failures.
func (e *eventLogRepository) Enqueue(ctx context.Context, event models.SyncEvent) error {
	log := logger.FromContext(ctx)

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "eventLogRepository.Enqueue").
			Str("event_id", event.ID).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	var seq int64
	if scanErr := tx.QueryRowContext(ctx, selectNextSeq).Scan(&seq); scanErr != nil {
		log.Err(scanErr).
			Str("func", "eventLogRepository.Enqueue").
			Str("event_id", event.ID).
			Msg("failed to read next sequence number")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	if _, bumpErr := tx.ExecContext(ctx, bumpNextSeq); bumpErr != nil {
		log.Err(bumpErr).
			Str("func", "eventLogRepository.Enqueue").
			Str("event_id", event.ID).
			Msg("failed to bump sequence counter")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, bumpErr)
	}

	result, insertErr := tx.ExecContext(ctx, enqueueEvent,
		event.ID,
		string(event.EntityType),
		string(event.Operation),
		event.TargetID,
		[]byte(event.Payload),
		event.OccurredAt.UTC(),
		seq,
		time.Now().UTC(),
	)
	if insertErr != nil {
		log.Err(insertErr).
			Str("func", "eventLogRepository.Enqueue").
			Str("event_id", event.ID).
			Msg("failed to insert pending event")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, insertErr)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		// already queued; the deferred rollback undoes the seq bump
		log.Debug().
			Str("func", "eventLogRepository.Enqueue").
			Str("event_id", event.ID).
			Msg("event already queued, skipping")
		return nil
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "eventLogRepository.Enqueue").
			Str("event_id", event.ID).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	log.Debug().
		Str("func", "eventLogRepository.Enqueue").
		Str("event_id", event.ID).
		Str("entity_type", string(event.EntityType)).
		Str("operation", string(event.Operation)).
		Int64("seq", seq).
		Msg("event queued")

	return nil
}

// ListReady returns queued events eligible for a push at the given moment:
// not dead and past any backoff deferral, in creation order, capped at limit.
func (e *eventLogRepository) ListReady(ctx context.Context, now time.Time, limit int) ([]models.PendingEvent, error) {
	log := logger.FromContext(ctx)

	rows, queryErr := e.DB.QueryContext(ctx, listReadyEvents, now.UTC(), limit)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "eventLogRepository.ListReady").
			Msg("failed to execute query for listing ready events")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	return scanPendingEvents(ctx, rows)
}

// Remove deletes events from the queue after a terminal acknowledgement.
// A single id executes directly; multiple ids share one transaction.
// Returns [ErrEventNotFound] when an id is not queued.
func (e *eventLogRepository) Remove(ctx context.Context, eventIDs ...string) error {
	log := logger.FromContext(ctx)

	if len(eventIDs) == 0 {
		log.Warn().
			Str("func", "eventLogRepository.Remove").
			Msg("no event ids provided")
		return nil
	}

	if len(eventIDs) == 1 {
		return e.removeSingleEvent(ctx, eventIDs[0])
	}

	return e.removeMultipleEvents(ctx, eventIDs)
}

func (e *eventLogRepository) removeSingleEvent(ctx context.Context, eventID string) error {
	log := logger.FromContext(ctx)

	result, err := e.DB.ExecContext(ctx, removeEvent, eventID)
	if err != nil {
		log.Err(err).
			Str("func", "eventLogRepository.removeSingleEvent").
			Str("event_id", eventID).
			Msg("failed to execute delete query")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Warn().
			Str("func", "eventLogRepository.removeSingleEvent").
			Str("event_id", eventID).
			Msg("event not found")
		return ErrEventNotFound
	}

	return nil
}

func (e *eventLogRepository) removeMultipleEvents(ctx context.Context, eventIDs []string) error {
	log := logger.FromContext(ctx)

	tx, err := e.DB.BeginTx(ctx, nil)
	if err != nil {
		log.Err(err).
			Str("func", "eventLogRepository.removeMultipleEvents").
			Int("events_count", len(eventIDs)).
			Msg("failed to begin transaction")
		return fmt.Errorf("%w: %w", ErrBeginningTransaction, err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, removeEvent)
	if err != nil {
		log.Err(err).
			Str("func", "eventLogRepository.removeMultipleEvents").
			Int("events_count", len(eventIDs)).
			Msg("failed to prepare statement")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}
	defer stmt.Close()

	for idx, eventID := range eventIDs {
		result, execErr := stmt.ExecContext(ctx, eventID)
		if execErr != nil {
			log.Err(execErr).
				Str("func", "eventLogRepository.removeMultipleEvents").
				Int("iteration", idx+1).
				Str("event_id", eventID).
				Msg("failed to execute prepared delete")
			return fmt.Errorf("%w: %w", ErrExecutingStatement, execErr)
		}

		rowsAffected, _ := result.RowsAffected()
		if rowsAffected == 0 {
			log.Warn().
				Str("func", "eventLogRepository.removeMultipleEvents").
				Int("iteration", idx+1).
				Str("event_id", eventID).
				Msg("event not found")
			return fmt.Errorf("failed to remove event at index %d: %w", idx, ErrEventNotFound)
		}
	}

	if commitErr := tx.Commit(); commitErr != nil {
		log.Err(commitErr).
			Str("func", "eventLogRepository.removeMultipleEvents").
			Int("events_count", len(eventIDs)).
			Msg("failed to commit transaction")
		return fmt.Errorf("%w: %w", ErrCommitingTransaction, commitErr)
	}

	return nil
}

// IncrementAttempt bumps the attempt counter after a retryable failure and
// defers the event until nextAttemptAt. Returns [ErrEventNotFound] when the
// event is not queued.
func (e *eventLogRepository) IncrementAttempt(ctx context.Context, eventID string, nextAttemptAt time.Time) error {
	log := logger.FromContext(ctx)

	result, err := e.DB.ExecContext(ctx, incrementEventAttempt, nextAttemptAt.UTC(), eventID)
	if err != nil {
		log.Err(err).
			Str("func", "eventLogRepository.IncrementAttempt").
			Str("event_id", eventID).
			Msg("failed to execute increment attempt query")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Warn().
			Str("func", "eventLogRepository.IncrementAttempt").
			Str("event_id", eventID).
			Msg("event not found")
		return ErrEventNotFound
	}

	return nil
}

// MarkDead parks an event that exhausted its retry budget. Dead events are
// excluded from pushes and surfaced through DeadLetters.
func (e *eventLogRepository) MarkDead(ctx context.Context, eventID string) error {
	log := logger.FromContext(ctx)

	result, err := e.DB.ExecContext(ctx, markEventDead, eventID)
	if err != nil {
		log.Err(err).
			Str("func", "eventLogRepository.MarkDead").
			Str("event_id", eventID).
			Msg("failed to execute mark dead query")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Warn().
			Str("func", "eventLogRepository.MarkDead").
			Str("event_id", eventID).
			Msg("event not found")
		return ErrEventNotFound
	}

	log.Warn().
		Str("func", "eventLogRepository.MarkDead").
		Str("event_id", eventID).
		Msg("event dead-lettered")

	return nil
}

// CountForTarget returns how many live queued events still target the given
// record. The sync client clears a record's pending flag only when this
// reaches zero.
func (e *eventLogRepository) CountForTarget(ctx context.Context, entityType models.EntityType, targetID string) (int, error) {
	log := logger.FromContext(ctx)

	var count int
	scanErr := e.DB.QueryRowContext(ctx, countEventsForTarget, string(entityType), targetID).Scan(&count)
	if scanErr != nil {
		log.Err(scanErr).
			Str("func", "eventLogRepository.CountForTarget").
			Str("entity_type", string(entityType)).
			Str("target_id", targetID).
			Msg("failed to count events for target")
		return 0, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	return count, nil
}

// DeadLetters returns every dead-lettered event in creation order for manual
// inspection.
func (e *eventLogRepository) DeadLetters(ctx context.Context) ([]models.PendingEvent, error) {
	log := logger.FromContext(ctx)

	rows, queryErr := e.DB.QueryContext(ctx, listDeadEvents)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "eventLogRepository.DeadLetters").
			Msg("failed to execute query for listing dead events")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	return scanPendingEvents(ctx, rows)
}

// scanPendingEvents consumes a pending_events result set.
func scanPendingEvents(ctx context.Context, rows *sql.Rows) ([]models.PendingEvent, error) {
	log := logger.FromContext(ctx)

	events := make([]models.PendingEvent, 0, 16)

	for rows.Next() {
		var event models.PendingEvent
		var entityType, operation string
		var payload []byte
		var nextAttemptAt sql.NullTime

		scanErr := rows.Scan(
			&event.ID,
			&entityType,
			&operation,
			&event.TargetID,
			&payload,
			&event.OccurredAt,
			&event.Seq,
			&event.CreatedAt,
			&event.AttemptCount,
			&nextAttemptAt,
			&event.Dead,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "scanPendingEvents").
				Msg("failed to scan pending event row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		event.EntityType = models.EntityType(entityType)
		event.Operation = models.Operation(operation)
		event.Payload = payload
		if nextAttemptAt.Valid {
			event.NextAttemptAt = nextAttemptAt.Time
		}

		events = append(events, event)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "scanPendingEvents").
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return events, nil
}
