package store

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-nest-keeper/models"
	sq "github.com/Masterminds/squirrel"
)

// entityTables maps every replicated entity type to its PostgreSQL table.
// Table names are interpolated into query templates, so only values from
// this map may ever reach [fmt.Sprintf]; anything else is rejected upstream
// with an unknown-entity acknowledgement.
var entityTables = map[models.EntityType]string{
	models.EntityFeeding:        "feedings",
	models.EntitySleepSession:   "sleep_sessions",
	models.EntityMedicationDose: "medication_doses",
}

// EntityTable resolves the table name for an entity type. The second return
// value is false for entity types the server does not replicate.
func EntityTable(entityType models.EntityType) (string, bool) {
	table, ok := entityTables[entityType]
	return table, ok
}

const (
	// upsertChangeQueryTemplate applies a create or delete change under
	// last-write-wins in a single round trip. The target_record CTE captures
	// the pre-existing row (if any) so the caller can tell the outcomes apart
	// from the scanned NULLs:
	//
	//   applied id non-NULL                  -> change applied (insert or LWW winner)
	//   applied id NULL, target family NULL  -> cannot happen (insert arm always fires)
	//   applied id NULL, family differs      -> record owned by another family
	//   applied id NULL, family matches      -> stored record is newer, change lost LWW
	//
	// Equal logical timestamps apply: replaying the winning write is harmless
	// and keeps the comparison deterministic for the retry path.
	upsertChangeQueryTemplate = `
		WITH target_record AS (
			SELECT id, family_id, updated_at, deleted
			FROM %[1]s
			WHERE id = $1
		), applied AS (
			INSERT INTO %[1]s (id, family_id, payload, updated_at, server_updated_at, deleted, created_at)
			VALUES ($1, $2, $3, $4, NOW(), $5, NOW())
			ON CONFLICT (id) DO UPDATE SET
				payload           = EXCLUDED.payload,
				updated_at        = EXCLUDED.updated_at,
				server_updated_at = NOW(),
				deleted           = EXCLUDED.deleted
			WHERE %[1]s.family_id = EXCLUDED.family_id
			  AND %[1]s.updated_at <= EXCLUDED.updated_at
			RETURNING id
		)
		SELECT
			(SELECT id FROM applied),
			(SELECT family_id FROM target_record),
			(SELECT updated_at FROM target_record),
			(SELECT deleted FROM target_record);`

	// updateChangeQueryTemplate applies an update change. Unlike the upsert
	// variant it has no insert arm: updates on records that were never created
	// or are already tombstoned must surface as not-found, not as silent
	// resurrections. Outcome decoding mirrors [upsertChangeQueryTemplate] with
	// one extra case: target deleted=true means the record is gone.
	updateChangeQueryTemplate = `
		WITH target_record AS (
			SELECT id, family_id, updated_at, deleted
			FROM %[1]s
			WHERE id = $1
		), applied AS (
			UPDATE %[1]s SET
				payload           = $3,
				updated_at        = $4,
				server_updated_at = NOW()
			WHERE id = $1
			  AND family_id = $2
			  AND deleted = false
			  AND updated_at <= $4
			RETURNING id
		)
		SELECT
			(SELECT id FROM applied),
			(SELECT family_id FROM target_record),
			(SELECT updated_at FROM target_record),
			(SELECT deleted FROM target_record);`

	// getRecordQueryTemplate fetches one record by id regardless of family;
	// the repository layer decides whether the caller may see it.
	getRecordQueryTemplate = `
		SELECT
			id,
			family_id,
			payload,
			updated_at,
			server_updated_at,
			deleted,
			created_at
		FROM %s
		WHERE id = $1;`

	upsertDevicePushState = `
		INSERT INTO device_sync_state (device_id, family_id, user_id, last_push_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (device_id) DO UPDATE SET
			family_id    = EXCLUDED.family_id,
			user_id      = EXCLUDED.user_id,
			last_push_at = EXCLUDED.last_push_at,
			updated_at   = NOW();`

	upsertDevicePullCursor = `
		INSERT INTO device_sync_state (device_id, family_id, user_id, last_cursor, updated_at)
		VALUES ($1, $2, $3, $4, NOW())
		ON CONFLICT (device_id) DO UPDATE SET
			family_id   = EXCLUDED.family_id,
			user_id     = EXCLUDED.user_id,
			last_cursor = EXCLUDED.last_cursor,
			updated_at  = NOW();`

	selectServerClock = `SELECT NOW();`

	getDeviceState = `
		SELECT
			device_id,
			family_id,
			user_id,
			last_push_at,
			last_cursor,
			updated_at
		FROM device_sync_state
		WHERE device_id = $1;`
)

// buildApplyChangeQuery renders the apply query for one change together with
// its positional arguments. Create and delete operations use the upsert
// template; update operations use the update-only template (their argument
// list omits the deleted flag, the UPDATE never touches it). The table name
// must come from [EntityTable].
func buildApplyChangeQuery(table string, operation models.Operation, record models.Record) (string, []any) {
	if operation == models.OperationUpdate {
		query := fmt.Sprintf(updateChangeQueryTemplate, table)
		args := []any{
			record.ID,
			record.FamilyID,
			record.Payload,
			record.UpdatedAt,
		}
		return query, args
	}

	query := fmt.Sprintf(upsertChangeQueryTemplate, table)
	args := []any{
		record.ID,
		record.FamilyID,
		record.Payload,
		record.UpdatedAt,
		record.Deleted,
	}
	return query, args
}

// buildListChangedSinceQuery builds the incremental pull query for one entity
// table: every record of the family whose server_updated_at is strictly after
// the given watermark, oldest first, capped at limit.
//
// A zero watermark means "from the beginning" and drops the time filter so an
// empty cursor returns the full family data set, tombstones included.
func buildListChangedSinceQuery(ctx context.Context, table string, familyID int64, since time.Time, limit uint64) (string, []any, error) {
	builder := sq.
		Select(
			"id",
			"family_id",
			"payload",
			"updated_at",
			"server_updated_at",
			"deleted",
			"created_at",
		).
		From(table).
		Where(sq.Eq{"family_id": familyID}).
		OrderBy("server_updated_at ASC", "id ASC").
		PlaceholderFormat(sq.Dollar)

	if !since.IsZero() {
		builder = builder.Where(sq.Gt{"server_updated_at": since})
	}

	if limit > 0 {
		builder = builder.Limit(limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return "", nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return query, args, nil
}
