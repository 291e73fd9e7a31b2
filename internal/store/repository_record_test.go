package store

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/models"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func newDBFromSQL(db *sql.DB) *DB {
	return &DB{
		DB:                 db,
		errorClassificator: NewPostgresErrorClassifier(),
		logger:             logger.Nop(),
	}
}

func newTestRecordRepo(t *testing.T, db *sql.DB, entityType models.EntityType) RecordRepository {
	t.Helper()
	repo, err := NewRecordRepository(newDBFromSQL(db), entityType, logger.Nop())
	require.NoError(t, err)
	return repo
}

func testContext() context.Context {
	l := zerolog.Nop()
	return l.WithContext(context.Background())
}

var applyOutcomeColumns = []string{"applied_id", "target_family_id", "target_updated_at", "target_deleted"}

func TestNewRecordRepository(t *testing.T) {
	db, _ := newTestDB(t)

	t.Run("registered entity types", func(t *testing.T) {
		for _, entityType := range []models.EntityType{
			models.EntityFeeding,
			models.EntitySleepSession,
			models.EntityMedicationDose,
		} {
			repo, err := NewRecordRepository(newDBFromSQL(db), entityType, logger.Nop())
			require.NoError(t, err)
			require.NotNil(t, repo)
		}
	})

	t.Run("unregistered entity type is rejected", func(t *testing.T) {
		repo, err := NewRecordRepository(newDBFromSQL(db), models.EntityType("diaper_change"), logger.Nop())
		require.Error(t, err)
		assert.Nil(t, repo)
		assert.Contains(t, err.Error(), "no table registered")
	})
}

func TestApplyChange(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)
	older := now.Add(-time.Hour)
	newer := now.Add(time.Hour)

	appliedID := "rec-1"
	ownFamily := int64(7)
	otherFamily := int64(99)
	deletedTrue := true
	deletedFalse := false

	payload := json.RawMessage(`{"amount_ml":120}`)

	record := models.Record{
		ID:        "rec-1",
		FamilyID:  ownFamily,
		Payload:   payload,
		UpdatedAt: now,
		Deleted:   false,
	}

	upsertQuery := fmt.Sprintf(upsertChangeQueryTemplate, "feedings")
	updateQuery := fmt.Sprintf(updateChangeQueryTemplate, "feedings")

	type mockSetup struct {
		query           string
		args            []driver.Value
		appliedID       *string
		targetFamilyID  *int64
		targetUpdatedAt *time.Time
		targetDeleted   *bool
		queryErr        error
	}

	type want struct {
		err     error
		errWrap string
	}

	tests := []struct {
		name      string
		operation models.Operation
		record    models.Record
		mock      mockSetup
		want      want
	}{
		{
			name:      "create applied: no pre-existing row, insert arm fires",
			operation: models.OperationCreate,
			record:    record,
			mock: mockSetup{
				query:     upsertQuery,
				args:      []driver.Value{"rec-1", ownFamily, []byte(payload), now, false},
				appliedID: &appliedID,
			},
		},
		{
			name:      "create applied: change wins last-write-wins over stored row",
			operation: models.OperationCreate,
			record:    record,
			mock: mockSetup{
				query:           upsertQuery,
				args:            []driver.Value{"rec-1", ownFamily, []byte(payload), now, false},
				appliedID:       &appliedID,
				targetFamilyID:  &ownFamily,
				targetUpdatedAt: &older,
				targetDeleted:   &deletedFalse,
			},
		},
		{
			name:      "create stale: stored row carries a newer timestamp",
			operation: models.OperationCreate,
			record:    record,
			mock: mockSetup{
				query:           upsertQuery,
				args:            []driver.Value{"rec-1", ownFamily, []byte(payload), now, false},
				targetFamilyID:  &ownFamily,
				targetUpdatedAt: &newer,
				targetDeleted:   &deletedFalse,
			},
			want: want{err: ErrStaleWrite},
		},
		{
			name:      "create rejected: record owned by another family",
			operation: models.OperationCreate,
			record:    record,
			mock: mockSetup{
				query:           upsertQuery,
				args:            []driver.Value{"rec-1", ownFamily, []byte(payload), now, false},
				targetFamilyID:  &otherFamily,
				targetUpdatedAt: &older,
				targetDeleted:   &deletedFalse,
			},
			want: want{err: ErrFamilyMismatch},
		},
		{
			name:      "update applied",
			operation: models.OperationUpdate,
			record:    record,
			mock: mockSetup{
				query:           updateQuery,
				args:            []driver.Value{"rec-1", ownFamily, []byte(payload), now},
				appliedID:       &appliedID,
				targetFamilyID:  &ownFamily,
				targetUpdatedAt: &older,
				targetDeleted:   &deletedFalse,
			},
		},
		{
			name:      "update rejected: record never existed",
			operation: models.OperationUpdate,
			record:    record,
			mock: mockSetup{
				query: updateQuery,
				args:  []driver.Value{"rec-1", ownFamily, []byte(payload), now},
			},
			want: want{err: ErrRecordNotFound},
		},
		{
			name:      "update rejected: record is already a tombstone",
			operation: models.OperationUpdate,
			record:    record,
			mock: mockSetup{
				query:           updateQuery,
				args:            []driver.Value{"rec-1", ownFamily, []byte(payload), now},
				targetFamilyID:  &ownFamily,
				targetUpdatedAt: &older,
				targetDeleted:   &deletedTrue,
			},
			want: want{err: ErrRecordNotFound},
		},
		{
			name:      "update stale: stored row carries a newer timestamp",
			operation: models.OperationUpdate,
			record:    record,
			mock: mockSetup{
				query:           updateQuery,
				args:            []driver.Value{"rec-1", ownFamily, []byte(payload), now},
				targetFamilyID:  &ownFamily,
				targetUpdatedAt: &newer,
				targetDeleted:   &deletedFalse,
			},
			want: want{err: ErrStaleWrite},
		},
		{
			name:      "delete applied: tombstone planted",
			operation: models.OperationDelete,
			record:    models.Record{ID: "rec-1", FamilyID: ownFamily, UpdatedAt: now, Deleted: true},
			mock: mockSetup{
				query:     upsertQuery,
				args:      []driver.Value{"rec-1", ownFamily, []byte(nil), now, true},
				appliedID: &appliedID,
			},
		},
		{
			name:      "delete idempotent: target already a newer tombstone",
			operation: models.OperationDelete,
			record:    models.Record{ID: "rec-1", FamilyID: ownFamily, UpdatedAt: now, Deleted: true},
			mock: mockSetup{
				query:           upsertQuery,
				args:            []driver.Value{"rec-1", ownFamily, []byte(nil), now, true},
				targetFamilyID:  &ownFamily,
				targetUpdatedAt: &newer,
				targetDeleted:   &deletedTrue,
			},
		},
		{
			name:      "delete rejected: record owned by another family",
			operation: models.OperationDelete,
			record:    models.Record{ID: "rec-1", FamilyID: ownFamily, UpdatedAt: now, Deleted: true},
			mock: mockSetup{
				query:           upsertQuery,
				args:            []driver.Value{"rec-1", ownFamily, []byte(nil), now, true},
				targetFamilyID:  &otherFamily,
				targetUpdatedAt: &older,
				targetDeleted:   &deletedFalse,
			},
			want: want{err: ErrFamilyMismatch},
		},
		{
			name:      "error: query execution fails",
			operation: models.OperationCreate,
			record:    record,
			mock: mockSetup{
				query:    upsertQuery,
				args:     []driver.Value{"rec-1", ownFamily, []byte(payload), now, false},
				queryErr: errors.New("connection refused"),
			},
			want: want{errWrap: "error executing sql query"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			repo := newTestRecordRepo(t, db, models.EntityFeeding)
			ctx := testContext()

			expectation := mock.ExpectQuery(regexp.QuoteMeta(tc.mock.query)).
				WithArgs(tc.mock.args...)

			if tc.mock.queryErr != nil {
				expectation.WillReturnError(tc.mock.queryErr)
			} else {
				rows := sqlmock.NewRows(applyOutcomeColumns).
					AddRow(
						driver.Value(tc.mock.appliedID),
						driver.Value(tc.mock.targetFamilyID),
						driver.Value(tc.mock.targetUpdatedAt),
						driver.Value(tc.mock.targetDeleted),
					)
				expectation.WillReturnRows(rows)
			}

			err := repo.ApplyChange(ctx, tc.operation, tc.record)

			switch {
			case tc.want.err != nil:
				require.ErrorIs(t, err, tc.want.err)
			case tc.want.errWrap != "":
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.want.errWrap)
			default:
				require.NoError(t, err)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGetRecord(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)

	const query = `
		SELECT
			id,
			family_id,
			payload,
			updated_at,
			server_updated_at,
			deleted,
			created_at
		FROM sleep_sessions
		WHERE id = $1;`

	recordColumns := []string{"id", "family_id", "payload", "updated_at", "server_updated_at", "deleted", "created_at"}

	t.Run("success", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestRecordRepo(t, db, models.EntitySleepSession)
		ctx := testContext()

		rows := sqlmock.NewRows(recordColumns).
			AddRow("rec-9", int64(7), []byte(`{"ended_at":null}`), now, now, false, now)

		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs("rec-9").
			WillReturnRows(rows)

		record, err := repo.GetRecord(ctx, "rec-9")
		require.NoError(t, err)

		assert.Equal(t, "rec-9", record.ID)
		assert.Equal(t, models.EntitySleepSession, record.EntityType)
		assert.Equal(t, int64(7), record.FamilyID)
		assert.JSONEq(t, `{"ended_at":null}`, string(record.Payload))
		assert.False(t, record.Deleted)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("not found", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestRecordRepo(t, db, models.EntitySleepSession)
		ctx := testContext()

		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs("rec-missing").
			WillReturnError(sql.ErrNoRows)

		_, err := repo.GetRecord(ctx, "rec-missing")
		require.ErrorIs(t, err, ErrRecordNotFound)

		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("error: query execution fails", func(t *testing.T) {
		db, mock := newTestDB(t)
		repo := newTestRecordRepo(t, db, models.EntitySleepSession)
		ctx := testContext()

		mock.ExpectQuery(regexp.QuoteMeta(query)).
			WithArgs("rec-9").
			WillReturnError(errors.New("connection refused"))

		_, err := repo.GetRecord(ctx, "rec-9")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "error executing sql query")

		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestListChangedSince(t *testing.T) {
	now := time.Now().Truncate(time.Millisecond)
	since := now.Add(-time.Hour)

	const baseQuery = `SELECT id, family_id, payload, updated_at, server_updated_at, deleted, created_at FROM medication_doses WHERE family_id = $1`
	const sinceQuery = baseQuery + ` AND server_updated_at > $2 ORDER BY server_updated_at ASC, id ASC LIMIT 2`
	const fullQuery = baseQuery + ` ORDER BY server_updated_at ASC, id ASC`

	recordColumns := []string{"id", "family_id", "payload", "updated_at", "server_updated_at", "deleted", "created_at"}

	type recordRow struct {
		id              string
		familyID        int64
		payload         []byte
		updatedAt       time.Time
		serverUpdatedAt time.Time
		deleted         bool
		createdAt       time.Time
	}

	toArgs := func(r recordRow) []driver.Value {
		return []driver.Value{r.id, r.familyID, r.payload, r.updatedAt, r.serverUpdatedAt, r.deleted, r.createdAt}
	}

	type mockSetup struct {
		query    string
		args     []driver.Value
		rows     []recordRow
		queryErr error
		rowErr   error
	}

	type want struct {
		err       string
		resultIDs []string
	}

	tests := []struct {
		name     string
		familyID int64
		since    time.Time
		limit    uint64
		mock     mockSetup
		want     want
	}{
		{
			name:     "success: incremental pull with watermark and limit",
			familyID: 7,
			since:    since,
			limit:    2,
			mock: mockSetup{
				query: sinceQuery,
				args:  []driver.Value{int64(7), since},
				rows: []recordRow{
					{id: "dose-1", familyID: 7, payload: []byte(`{"medication":"ibuprofen"}`), updatedAt: now, serverUpdatedAt: now, createdAt: now},
					{id: "dose-2", familyID: 7, payload: []byte(`{}`), updatedAt: now, serverUpdatedAt: now.Add(time.Second), deleted: true, createdAt: now},
				},
			},
			want: want{resultIDs: []string{"dose-1", "dose-2"}},
		},
		{
			name:     "success: zero watermark returns the full family data set",
			familyID: 7,
			mock: mockSetup{
				query: fullQuery,
				args:  []driver.Value{int64(7)},
				rows: []recordRow{
					{id: "dose-1", familyID: 7, payload: []byte(`{}`), updatedAt: now, serverUpdatedAt: now, createdAt: now},
				},
			},
			want: want{resultIDs: []string{"dose-1"}},
		},
		{
			name:     "success: empty result",
			familyID: 8,
			mock: mockSetup{
				query: fullQuery,
				args:  []driver.Value{int64(8)},
				rows:  []recordRow{},
			},
			want: want{resultIDs: []string{}},
		},
		{
			name:     "error: query execution fails",
			familyID: 7,
			mock: mockSetup{
				query:    fullQuery,
				args:     []driver.Value{int64(7)},
				queryErr: errors.New("connection refused"),
			},
			want: want{err: "error executing sql query"},
		},
		{
			name:     "error: rows iteration error",
			familyID: 7,
			mock: mockSetup{
				query: fullQuery,
				args:  []driver.Value{int64(7)},
				rows: []recordRow{
					{id: "dose-1", familyID: 7, payload: []byte(`{}`), updatedAt: now, serverUpdatedAt: now, createdAt: now},
				},
				rowErr: errors.New("network interruption"),
			},
			want: want{err: "failed to scan rows"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db, mock := newTestDB(t)
			repo := newTestRecordRepo(t, db, models.EntityMedicationDose)
			ctx := testContext()

			expectation := mock.ExpectQuery(regexp.QuoteMeta(tc.mock.query)).
				WithArgs(tc.mock.args...)

			if tc.mock.queryErr != nil {
				expectation.WillReturnError(tc.mock.queryErr)
			} else {
				mockRows := sqlmock.NewRows(recordColumns)
				for i, r := range tc.mock.rows {
					mockRows.AddRow(toArgs(r)...)
					if tc.mock.rowErr != nil {
						mockRows.RowError(i, tc.mock.rowErr)
					}
				}
				expectation.WillReturnRows(mockRows)
			}

			result, err := repo.ListChangedSince(ctx, tc.familyID, tc.since, tc.limit)

			if tc.want.err != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.want.err)
				assert.Nil(t, result)
				require.NoError(t, mock.ExpectationsWereMet())
				return
			}

			require.NoError(t, err)
			require.Len(t, result, len(tc.want.resultIDs))

			for i, id := range tc.want.resultIDs {
				assert.Equal(t, id, result[i].ID, "ID[%d]", i)
				assert.Equal(t, models.EntityMedicationDose, result[i].EntityType, "EntityType[%d]", i)
				assert.Equal(t, tc.familyID, result[i].FamilyID, "FamilyID[%d]", i)
			}

			require.NoError(t, mock.ExpectationsWereMet())
		})
	}
}
