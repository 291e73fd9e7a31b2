package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/models"
)

// localRecordRepository is the SQLite-backed implementation of
// [LocalRecordRepository]: the device's replica of the family's records.
//
// Local writes land immediately with pending_sync set, so the UI reads its
// own writes without waiting for the network. ApplyRemote merges pulled
// changes by last-write-wins against the stored logical timestamp, with one
// carve-out: a record carrying an unsent local edit is never overwritten by
// an older remote value.
type localRecordRepository struct {
	*DB
	logger *logger.Logger
}

// NewLocalRecordRepository constructs a [LocalRecordRepository] backed by
// the agent's local database.
func NewLocalRecordRepository(db *DB, logger *logger.Logger) LocalRecordRepository {
	logger.Debug().Msg("creating local record repository")
	return &localRecordRepository{
		DB:     db,
		logger: logger,
	}
}

// Save upserts a record after a local mutation and flags it pending_sync.
func (l *localRecordRepository) Save(ctx context.Context, record models.LocalRecord) error {
	log := logger.FromContext(ctx)

	_, err := l.DB.ExecContext(ctx, saveLocalRecord,
		string(record.EntityType),
		record.ID,
		[]byte(record.Payload),
		record.UpdatedAt.UTC(),
		record.Deleted,
	)
	if err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.Save").
			Str("entity_type", string(record.EntityType)).
			Str("record_id", record.ID).
			Msg("failed to save local record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return nil
}

// Get returns one record, tombstoned or not.
// Returns [ErrRecordNotFound] when the record was never stored.
func (l *localRecordRepository) Get(ctx context.Context, entityType models.EntityType, id string) (models.LocalRecord, error) {
	log := logger.FromContext(ctx)

	row := l.DB.QueryRowContext(ctx, getLocalRecord, string(entityType), id)

	record, scanErr := scanLocalRecord(row.Scan)
	if scanErr != nil {
		if errors.Is(scanErr, sql.ErrNoRows) {
			log.Warn().
				Str("func", "localRecordRepository.Get").
				Str("entity_type", string(entityType)).
				Str("record_id", id).
				Msg("record not found")
			return models.LocalRecord{}, ErrRecordNotFound
		}

		log.Err(scanErr).
			Str("func", "localRecordRepository.Get").
			Str("entity_type", string(entityType)).
			Str("record_id", id).
			Msg("failed to scan local record")
		return models.LocalRecord{}, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
	}

	return record, nil
}

// List returns the device's records of one entity type, newest first.
// Tombstones are filtered out unless includeDeleted is set.
func (l *localRecordRepository) List(ctx context.Context, entityType models.EntityType, includeDeleted bool) ([]models.LocalRecord, error) {
	log := logger.FromContext(ctx)

	query := listLocalRecords
	if includeDeleted {
		query = listLocalRecordsWithDeleted
	}

	rows, queryErr := l.DB.QueryContext(ctx, query, string(entityType))
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "localRecordRepository.List").
			Str("entity_type", string(entityType)).
			Msg("failed to execute query for listing local records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	records := make([]models.LocalRecord, 0, 50)

	for rows.Next() {
		record, scanErr := scanLocalRecord(rows.Scan)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "localRecordRepository.List").
				Str("entity_type", string(entityType)).
				Msg("failed to scan local record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}
		records = append(records, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "localRecordRepository.List").
			Str("entity_type", string(entityType)).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return records, nil
}

// ApplyRemote merges one pulled change into the local replica. The change is
// discarded when the stored record is newer, or when it carries an unsent
// local edit the change does not supersede. Reports whether the change was
// applied.
func (l *localRecordRepository) ApplyRemote(ctx context.Context, change models.RecordChange, syncedAt time.Time) (bool, error) {
	log := logger.FromContext(ctx)

	result, err := l.DB.ExecContext(ctx, applyRemoteRecord,
		string(change.EntityType),
		change.ID,
		[]byte(change.Payload),
		change.UpdatedAt.UTC(),
		syncedAt.UTC(),
		change.Deleted,
	)
	if err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.ApplyRemote").
			Str("entity_type", string(change.EntityType)).
			Str("record_id", change.ID).
			Msg("failed to apply remote change")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Debug().
			Str("func", "localRecordRepository.ApplyRemote").
			Str("entity_type", string(change.EntityType)).
			Str("record_id", change.ID).
			Msg("remote change lost to local record")
		return false, nil
	}

	return true, nil
}

// MarkSynced clears the pending flag of a record whose queued events were all
// acknowledged. The writtenAt guard keeps the flag set when the user edited
// the record again while the push was in flight. Reports whether the flag
// was cleared.
func (l *localRecordRepository) MarkSynced(ctx context.Context, entityType models.EntityType, id string, writtenAt, syncedAt time.Time) (bool, error) {
	log := logger.FromContext(ctx)

	result, err := l.DB.ExecContext(ctx, markRecordSynced,
		syncedAt.UTC(),
		string(entityType),
		id,
		writtenAt.UTC(),
	)
	if err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.MarkSynced").
			Str("entity_type", string(entityType)).
			Str("record_id", id).
			Msg("failed to mark record synced")
		return false, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Debug().
			Str("func", "localRecordRepository.MarkSynced").
			Str("entity_type", string(entityType)).
			Str("record_id", id).
			Msg("record changed since push, pending flag kept")
		return false, nil
	}

	return true, nil
}

// Delete tombstones a record locally and flags it pending_sync. The payload
// is kept so an interrupted delete can still be inspected. Returns
// [ErrRecordNotFound] when the record was never stored.
func (l *localRecordRepository) Delete(ctx context.Context, entityType models.EntityType, id string, deletedAt time.Time) error {
	log := logger.FromContext(ctx)

	result, err := l.DB.ExecContext(ctx, deleteLocalRecord,
		deletedAt.UTC(),
		string(entityType),
		id,
	)
	if err != nil {
		log.Err(err).
			Str("func", "localRecordRepository.Delete").
			Str("entity_type", string(entityType)).
			Str("record_id", id).
			Msg("failed to delete local record")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Warn().
			Str("func", "localRecordRepository.Delete").
			Str("entity_type", string(entityType)).
			Str("record_id", id).
			Msg("record not found")
		return ErrRecordNotFound
	}

	return nil
}

// scanLocalRecord scans one records row through the given scan function, so
// it serves both QueryRow and rows-iteration call sites.
func scanLocalRecord(scan func(dest ...any) error) (models.LocalRecord, error) {
	var record models.LocalRecord
	var entityType string
	var payload []byte
	var syncedAt sql.NullTime

	scanErr := scan(
		&entityType,
		&record.ID,
		&payload,
		&record.UpdatedAt,
		&record.PendingSync,
		&syncedAt,
		&record.Deleted,
	)
	if scanErr != nil {
		return models.LocalRecord{}, scanErr
	}

	record.EntityType = models.EntityType(entityType)
	record.Payload = payload
	if syncedAt.Valid {
		record.SyncedAt = &syncedAt.Time
	}

	return record, nil
}
