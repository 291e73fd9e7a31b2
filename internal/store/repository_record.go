// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

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

// recordRepository is the PostgreSQL-backed implementation of
// [RecordRepository] for a single entity table. One instance exists per
// replicated entity type; the sync service resolves the right one through
// the registry in [Repositories.Records].
//
// Every public method obtains a context-scoped logger via
// [logger.FromContext] so all database interactions are traced with
// structured fields (family_id, record id, entity type).
type recordRepository struct {
	*DB
	entityType models.EntityType
	table      string
	logger     *logger.Logger
}

// NewRecordRepository constructs a [RecordRepository] for the given entity
// type, backed by the provided database connection and logger.
//
// Returns an error when the entity type has no registered table; table names
// are interpolated into SQL, so only registered types are ever accepted.
func NewRecordRepository(db *DB, entityType models.EntityType, logger *logger.Logger) (RecordRepository, error) {
	table, ok := EntityTable(entityType)
	if !ok {
		return nil, fmt.Errorf("no table registered for entity type %q", entityType)
	}

	return &recordRepository{
		DB:         db,
		entityType: entityType,
		table:      table,
		logger:     logger,
	}, nil
}

// ApplyChange applies one pushed change to the entity table under
// last-write-wins and reports the outcome through sentinel errors:
//
//   - nil — the change was applied (or, for deletes, the target was already
//     a tombstone and the delete is an idempotent no-op).
//   - [ErrStaleWrite] — the stored record carries a newer logical timestamp;
//     the change lost the conflict and was discarded.
//   - [ErrRecordNotFound] — an update targeted a record that does not exist
//     or is already deleted.
//   - [ErrFamilyMismatch] — the record exists but belongs to another family.
//
// Create and delete operations upsert (a delete of an absent record plants
// a tombstone); update operations never create rows.
func (r *recordRepository) ApplyChange(ctx context.Context, operation models.Operation, record models.Record) error {
	log := logger.FromContext(ctx)

	query, args := buildApplyChangeQuery(r.table, operation, record)

	var appliedID *string
	var targetFamilyID *int64
	var targetUpdatedAt *time.Time
	var targetDeleted *bool

	queryRowErr := r.DB.QueryRowContext(ctx, query, args...).Scan(&appliedID, &targetFamilyID, &targetUpdatedAt, &targetDeleted)
	if queryRowErr != nil {
		log.Err(queryRowErr).
			Str("func", "recordRepository.ApplyChange").
			Str("entity_type", string(r.entityType)).
			Str("record_id", record.ID).
			Msg("failed to execute apply change query")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, queryRowErr)
	}

	// change applied: insert arm fired or the LWW predicate let the update through
	if appliedID != nil {
		return nil
	}

	// no pre-existing row: only the update template can end up here
	if targetFamilyID == nil {
		log.Warn().
			Str("func", "recordRepository.ApplyChange").
			Str("entity_type", string(r.entityType)).
			Str("record_id", record.ID).
			Msg("record not found")
		return ErrRecordNotFound
	}

	if *targetFamilyID != record.FamilyID {
		log.Warn().
			Str("func", "recordRepository.ApplyChange").
			Str("entity_type", string(r.entityType)).
			Str("record_id", record.ID).
			Int64("family_id", record.FamilyID).
			Int64("owner_family_id", *targetFamilyID).
			Msg("record belongs to another family")
		return ErrFamilyMismatch
	}

	if targetDeleted != nil && *targetDeleted {
		// deleting a tombstone again is a success, updating one is not
		if operation == models.OperationDelete {
			return nil
		}

		log.Warn().
			Str("func", "recordRepository.ApplyChange").
			Str("entity_type", string(r.entityType)).
			Str("record_id", record.ID).
			Msg("record is already deleted")
		return ErrRecordNotFound
	}

	log.Debug().
		Str("func", "recordRepository.ApplyChange").
		Str("entity_type", string(r.entityType)).
		Str("record_id", record.ID).
		Time("stored_updated_at", derefTime(targetUpdatedAt)).
		Time("change_updated_at", record.UpdatedAt).
		Msg("change lost last-write-wins")

	return ErrStaleWrite
}

// GetRecord retrieves one record by id, regardless of owning family.
// Returns [ErrRecordNotFound] when no row exists.
func (r *recordRepository) GetRecord(ctx context.Context, id string) (models.Record, error) {
	log := logger.FromContext(ctx)

	query := fmt.Sprintf(getRecordQueryTemplate, r.table)

	var record models.Record
	scanErr := r.DB.QueryRowContext(ctx, query, id).Scan(
		&record.ID,
		&record.FamilyID,
		&record.Payload,
		&record.UpdatedAt,
		&record.ServerUpdatedAt,
		&record.Deleted,
		&record.CreatedAt,
	)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return models.Record{}, ErrRecordNotFound
	}
	if scanErr != nil {
		log.Err(scanErr).
			Str("func", "recordRepository.GetRecord").
			Str("entity_type", string(r.entityType)).
			Str("record_id", id).
			Msg("failed to execute query for getting record")
		return models.Record{}, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	record.EntityType = r.entityType
	return record, nil
}

// ListChangedSince returns every record of the family whose server clock
// timestamp is strictly after the given watermark, oldest first, capped at
// limit. Tombstones are included so deletions propagate. A zero watermark
// returns the family's full data set.
func (r *recordRepository) ListChangedSince(ctx context.Context, familyID int64, since time.Time, limit uint64) ([]models.Record, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListChangedSinceQuery(ctx, r.table, familyID, since, limit)
	if err != nil {
		log.Err(err).
			Str("func", "recordRepository.ListChangedSince").
			Str("entity_type", string(r.entityType)).
			Int64("family_id", familyID).
			Msg("failed to create query")
		return nil, err
	}

	rows, queryErr := r.DB.QueryContext(ctx, query, args...)
	if queryErr != nil {
		log.Err(queryErr).
			Str("func", "recordRepository.ListChangedSince").
			Str("entity_type", string(r.entityType)).
			Int64("family_id", familyID).
			Msg("failed to execute query for listing changed records")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, queryErr)
	}
	defer rows.Close()

	results := make([]models.Record, 0, 50)

	for rows.Next() {
		var record models.Record

		scanErr := rows.Scan(
			&record.ID,
			&record.FamilyID,
			&record.Payload,
			&record.UpdatedAt,
			&record.ServerUpdatedAt,
			&record.Deleted,
			&record.CreatedAt,
		)
		if scanErr != nil {
			log.Err(scanErr).
				Str("func", "recordRepository.ListChangedSince").
				Str("entity_type", string(r.entityType)).
				Int64("family_id", familyID).
				Msg("failed to scan record row")
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, scanErr)
		}

		record.EntityType = r.entityType
		results = append(results, record)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		log.Err(rowsErr).
			Str("func", "recordRepository.ListChangedSince").
			Str("entity_type", string(r.entityType)).
			Int64("family_id", familyID).
			Msg("error occurred during rows iteration")
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, rowsErr)
	}

	return results, nil
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
