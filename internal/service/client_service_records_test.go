package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/MKhiriev/go-nest-keeper/internal/mock"
	"github.com/MKhiriev/go-nest-keeper/internal/store"
	"github.com/MKhiriev/go-nest-keeper/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// newTestRecordSvc — хелпер для создания clientRecordService с моками
func newTestRecordSvc(t *testing.T, ctrl *gomock.Controller) (ClientRecordService, *mock.MockLocalRecordRepository, *mock.MockPendingEventLog) {
	t.Helper()
	records := mock.NewMockLocalRecordRepository(ctrl)
	events := mock.NewMockPendingEventLog(ctrl)
	return NewClientRecordService(records, events), records, events
}

// ── Create ───────────────────────────────────────────────────────────────────

func TestClientRecordService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, records, events := newTestRecordSvc(t, ctrl)
	ctx := testContext()
	payload := json.RawMessage(`{"amount_ml":120,"kind":"bottle"}`)

	var savedRecord models.LocalRecord
	records.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, record models.LocalRecord) error {
			savedRecord = record
			return nil
		},
	)

	var queuedEvent models.SyncEvent
	events.EXPECT().Enqueue(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, event models.SyncEvent) error {
			queuedEvent = event
			return nil
		},
	)

	created, err := svc.Create(ctx, models.EntityFeeding, payload)
	require.NoError(t, err)

	// запись получила свежий UUID и бейдж pending
	_, parseErr := uuid.Parse(created.ID)
	require.NoError(t, parseErr)
	assert.True(t, created.PendingSync)
	assert.JSONEq(t, string(payload), string(created.Payload))
	assert.Equal(t, savedRecord, created)

	// событие ссылается на запись, но живёт под собственным идентификатором
	assert.Equal(t, models.OperationCreate, queuedEvent.Operation)
	assert.Equal(t, created.ID, queuedEvent.TargetID)
	assert.NotEqual(t, created.ID, queuedEvent.ID)
	assert.True(t, queuedEvent.OccurredAt.Equal(created.UpdatedAt))
}

func TestClientRecordService_Create_SaveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, records, _ := newTestRecordSvc(t, ctrl)
	ctx := testContext()

	records.EXPECT().Save(ctx, gomock.Any()).Return(errBackend)

	// Enqueue не ожидается: без локальной записи событие не ставим
	_, err := svc.Create(ctx, models.EntityFeeding, json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "save created record")
}

func TestClientRecordService_Create_EnqueueError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, records, events := newTestRecordSvc(t, ctrl)
	ctx := testContext()

	records.EXPECT().Save(ctx, gomock.Any()).Return(nil)
	events.EXPECT().Enqueue(ctx, gomock.Any()).Return(errBackend)

	_, err := svc.Create(ctx, models.EntityFeeding, json.RawMessage(`{}`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "enqueue create event")
}

// ── Update ───────────────────────────────────────────────────────────────────

func TestClientRecordService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, records, events := newTestRecordSvc(t, ctrl)
	ctx := testContext()

	existing := models.LocalRecord{
		EntityType: models.EntitySleepSession,
		ID:         "rec-1",
		Payload:    json.RawMessage(`{"started_at":"2026-03-14T08:00:00Z"}`),
		UpdatedAt:  baseTime.Add(-time.Hour),
	}
	newPayload := json.RawMessage(`{"started_at":"2026-03-14T08:00:00Z","ended_at":"2026-03-14T09:30:00Z"}`)

	records.EXPECT().Get(ctx, models.EntitySleepSession, "rec-1").Return(existing, nil)

	var savedRecord models.LocalRecord
	records.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, record models.LocalRecord) error {
			savedRecord = record
			return nil
		},
	)

	var queuedEvent models.SyncEvent
	events.EXPECT().Enqueue(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, event models.SyncEvent) error {
			queuedEvent = event
			return nil
		},
	)

	updated, err := svc.Update(ctx, models.EntitySleepSession, "rec-1", newPayload)
	require.NoError(t, err)

	assert.Equal(t, "rec-1", updated.ID)
	assert.JSONEq(t, string(newPayload), string(savedRecord.Payload))
	assert.True(t, savedRecord.PendingSync)
	assert.True(t, savedRecord.UpdatedAt.After(existing.UpdatedAt))

	assert.Equal(t, models.OperationUpdate, queuedEvent.Operation)
	assert.Equal(t, "rec-1", queuedEvent.TargetID)
}

func TestClientRecordService_Update_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, records, _ := newTestRecordSvc(t, ctrl)
	ctx := testContext()

	records.EXPECT().Get(ctx, models.EntityFeeding, "rec-missing").Return(models.LocalRecord{}, store.ErrRecordNotFound)

	_, err := svc.Update(ctx, models.EntityFeeding, "rec-missing", json.RawMessage(`{}`))
	require.ErrorIs(t, err, store.ErrRecordNotFound)
}

// ── Delete ───────────────────────────────────────────────────────────────────

func TestClientRecordService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, records, events := newTestRecordSvc(t, ctrl)
	ctx := testContext()

	records.EXPECT().Get(ctx, models.EntityMedicationDose, "rec-1").Return(models.LocalRecord{
		EntityType: models.EntityMedicationDose,
		ID:         "rec-1",
	}, nil)
	records.EXPECT().Delete(ctx, models.EntityMedicationDose, "rec-1", gomock.Any()).Return(nil)

	var queuedEvent models.SyncEvent
	events.EXPECT().Enqueue(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, event models.SyncEvent) error {
			queuedEvent = event
			return nil
		},
	)

	err := svc.Delete(ctx, models.EntityMedicationDose, "rec-1")
	require.NoError(t, err)

	// delete едет без payload
	assert.Equal(t, models.OperationDelete, queuedEvent.Operation)
	assert.Equal(t, "rec-1", queuedEvent.TargetID)
	assert.Nil(t, queuedEvent.Payload)
}

func TestClientRecordService_Delete_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, records, _ := newTestRecordSvc(t, ctrl)
	ctx := testContext()

	records.EXPECT().Get(ctx, models.EntityFeeding, "rec-missing").Return(models.LocalRecord{}, store.ErrRecordNotFound)

	err := svc.Delete(ctx, models.EntityFeeding, "rec-missing")
	require.ErrorIs(t, err, store.ErrRecordNotFound)
}

// ── Get / List ───────────────────────────────────────────────────────────────

func TestClientRecordService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, records, _ := newTestRecordSvc(t, ctrl)
	ctx := testContext()

	want := models.LocalRecord{EntityType: models.EntityFeeding, ID: "rec-1"}
	records.EXPECT().Get(ctx, models.EntityFeeding, "rec-1").Return(want, nil)

	got, err := svc.Get(ctx, models.EntityFeeding, "rec-1")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestClientRecordService_List_FiltersTombstones(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, records, _ := newTestRecordSvc(t, ctrl)
	ctx := testContext()

	want := []models.LocalRecord{{EntityType: models.EntityFeeding, ID: "rec-1"}}
	records.EXPECT().List(ctx, models.EntityFeeding, false).Return(want, nil)

	got, err := svc.List(ctx, models.EntityFeeding)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
