package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/MKhiriev/go-nest-keeper/internal/logger"
)

// syncStateRepository persists the device's single-row sync bookkeeping:
// the pull cursor and the moment of the last completed full sync. The row is
// seeded by the schema, so reads never miss.
type syncStateRepository struct {
	*DB
	logger *logger.Logger
}

// NewSyncStateRepository constructs a [SyncStateRepository] backed by the
// agent's local database.
func NewSyncStateRepository(db *DB, logger *logger.Logger) SyncStateRepository {
	logger.Debug().Msg("creating sync state repository")
	return &syncStateRepository{
		DB:     db,
		logger: logger,
	}
}

// Cursor returns the pull cursor of the last completed pull. Empty means the
// device has never pulled and the next pull starts from the beginning.
func (s *syncStateRepository) Cursor(ctx context.Context) (string, error) {
	log := logger.FromContext(ctx)

	var cursor string
	scanErr := s.DB.QueryRowContext(ctx, getSyncCursor).Scan(&cursor)
	if scanErr != nil {
		log.Err(scanErr).
			Str("func", "syncStateRepository.Cursor").
			Msg("failed to read sync cursor")
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	return cursor, nil
}

// SetCursor advances the pull cursor after a completed pull.
func (s *syncStateRepository) SetCursor(ctx context.Context, cursor string) error {
	log := logger.FromContext(ctx)

	_, err := s.DB.ExecContext(ctx, setSyncCursor, cursor)
	if err != nil {
		log.Err(err).
			Str("func", "syncStateRepository.SetCursor").
			Str("cursor", cursor).
			Msg("failed to store sync cursor")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// LastFullSyncAt returns when the last full sync cycle completed.
// Zero means never.
func (s *syncStateRepository) LastFullSyncAt(ctx context.Context) (time.Time, error) {
	log := logger.FromContext(ctx)

	var lastFullSyncAt sql.NullTime
	scanErr := s.DB.QueryRowContext(ctx, getLastFullSyncAt).Scan(&lastFullSyncAt)
	if scanErr != nil {
		log.Err(scanErr).
			Str("func", "syncStateRepository.LastFullSyncAt").
			Msg("failed to read last full sync time")
		return time.Time{}, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	if !lastFullSyncAt.Valid {
		return time.Time{}, nil
	}

	return lastFullSyncAt.Time, nil
}

// SetLastFullSyncAt records the completion of a full sync cycle.
func (s *syncStateRepository) SetLastFullSyncAt(ctx context.Context, completedAt time.Time) error {
	log := logger.FromContext(ctx)

	_, err := s.DB.ExecContext(ctx, setLastFullSyncAt, completedAt.UTC())
	if err != nil {
		log.Err(err).
			Str("func", "syncStateRepository.SetLastFullSyncAt").
			Msg("failed to store last full sync time")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}
