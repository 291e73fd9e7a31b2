package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/internal/service"
	"github.com/MKhiriev/go-nest-keeper/internal/store"
	"github.com/MKhiriev/go-nest-keeper/internal/utils"
	"github.com/MKhiriev/go-nest-keeper/models"
)

type mockSyncService struct {
	pushFn   func(ctx context.Context, userID, familyID int64, deviceID string, request models.PushRequest) (models.PushResponse, error)
	pullFn   func(ctx context.Context, userID, familyID int64, deviceID, since string) (models.PullResponse, error)
	statusFn func(ctx context.Context, deviceID string) (models.StatusResponse, error)
}

func (m *mockSyncService) Push(ctx context.Context, userID, familyID int64, deviceID string, request models.PushRequest) (models.PushResponse, error) {
	return m.pushFn(ctx, userID, familyID, deviceID, request)
}

func (m *mockSyncService) Pull(ctx context.Context, userID, familyID int64, deviceID, since string) (models.PullResponse, error) {
	return m.pullFn(ctx, userID, familyID, deviceID, since)
}

func (m *mockSyncService) Status(ctx context.Context, deviceID string) (models.StatusResponse, error) {
	return m.statusFn(ctx, deviceID)
}

func newHandlerWithSyncService(sync service.SyncService) *Handler {
	return &Handler{
		services: &service.Services{
			SyncService: sync,
		},
		logger: logger.Nop(),
	}
}

// withIdentity populates the context the way the auth middleware does.
func withIdentity(ctx context.Context, userID, familyID int64, deviceID string) context.Context {
	ctx = context.WithValue(ctx, utils.UserIDCtxKey, userID)
	ctx = context.WithValue(ctx, utils.FamilyIDCtxKey, familyID)
	return context.WithValue(ctx, utils.DeviceIDCtxKey, deviceID)
}

func TestPushEvents_Success(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()

	request := models.PushRequest{
		DeviceID: "device-1",
		Events: []models.SyncEvent{
			{
				ID:         "evt-1",
				EntityType: models.EntityFeeding,
				Operation:  models.OperationCreate,
				TargetID:   "rec-1",
				Payload:    json.RawMessage(`{"amount_ml":120}`),
				OccurredAt: now,
			},
		},
	}

	expected := models.PushResponse{
		Acks: []models.EventAck{
			{EventID: "evt-1", Status: models.AckApplied},
		},
	}

	mockSvc := &mockSyncService{
		pushFn: func(ctx context.Context, userID, familyID int64, deviceID string, got models.PushRequest) (models.PushResponse, error) {
			if userID != 1 || familyID != 7 || deviceID != "device-1" {
				t.Fatalf("identity mismatch: user=%d family=%d device=%s", userID, familyID, deviceID)
			}
			if len(got.Events) != 1 || got.Events[0].ID != "evt-1" {
				t.Fatalf("unexpected request body")
			}
			return expected, nil
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	body, _ := json.Marshal(request)
	req := httptest.NewRequest(http.MethodPost, "/sync/push", bytes.NewBuffer(body))
	req = req.WithContext(withIdentity(req.Context(), 1, 7, "device-1"))

	rr := httptest.NewRecorder()
	h.pushEvents(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp models.PushResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if !reflect.DeepEqual(resp, expected) {
		t.Fatalf("unexpected response body")
	}
}

func TestPushEvents_NoIdentityInContext(t *testing.T) {
	h := newHandlerWithSyncService(&mockSyncService{})

	req := httptest.NewRequest(http.MethodPost, "/sync/push", bytes.NewBufferString(`{}`))

	rr := httptest.NewRecorder()
	h.pushEvents(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestPushEvents_InvalidJSON(t *testing.T) {
	h := newHandlerWithSyncService(&mockSyncService{})

	req := httptest.NewRequest(http.MethodPost, "/sync/push", bytes.NewBufferString("invalid"))
	req = req.WithContext(withIdentity(req.Context(), 1, 7, "device-1"))

	rr := httptest.NewRecorder()
	h.pushEvents(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
}

func TestPushEvents_DeviceMismatch(t *testing.T) {
	mockSvc := &mockSyncService{
		pushFn: func(ctx context.Context, userID, familyID int64, deviceID string, request models.PushRequest) (models.PushResponse, error) {
			return models.PushResponse{}, service.ErrDeviceMismatch
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/sync/push", bytes.NewBufferString(`{"device_id":"other-device","events":[]}`))
	req = req.WithContext(withIdentity(req.Context(), 1, 7, "device-1"))

	rr := httptest.NewRecorder()
	h.pushEvents(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rr.Code)
	}
	if !bytes.Contains(rr.Body.Bytes(), []byte("does not match the access token")) {
		t.Fatalf("expected device mismatch message, got %q", rr.Body.String())
	}
}

func TestPushEvents_ServiceError(t *testing.T) {
	mockSvc := &mockSyncService{
		pushFn: func(ctx context.Context, userID, familyID int64, deviceID string, request models.PushRequest) (models.PushResponse, error) {
			return models.PushResponse{}, errors.New("service error")
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	req := httptest.NewRequest(http.MethodPost, "/sync/push", bytes.NewBufferString(`{"device_id":"device-1","events":[]}`))
	req = req.WithContext(withIdentity(req.Context(), 1, 7, "device-1"))

	rr := httptest.NewRecorder()
	h.pushEvents(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}

func TestPullChanges_Success(t *testing.T) {
	now := time.Unix(1700000000, 0).UTC()

	expected := models.PullResponse{
		Records: []models.RecordChange{
			{
				EntityType: models.EntityFeeding,
				ID:         "rec-1",
				Payload:    json.RawMessage(`{"amount_ml":90}`),
				UpdatedAt:  now,
			},
			{
				EntityType: models.EntitySleepSession,
				ID:         "rec-2",
				UpdatedAt:  now.Add(time.Second),
				Deleted:    true,
			},
		},
		Cursor: "cur-next",
	}

	mockSvc := &mockSyncService{
		pullFn: func(ctx context.Context, userID, familyID int64, deviceID, since string) (models.PullResponse, error) {
			if since != "cur-prev" {
				t.Fatalf("expected since=cur-prev, got %q", since)
			}
			return expected, nil
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/sync/pull?since=cur-prev", nil)
	req = req.WithContext(withIdentity(req.Context(), 1, 7, "device-1"))

	rr := httptest.NewRecorder()
	h.pullChanges(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp models.PullResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if resp.Cursor != expected.Cursor {
		t.Fatalf("cursor mismatch: %q", resp.Cursor)
	}
	if len(resp.Records) != len(expected.Records) {
		t.Fatalf("records length mismatch")
	}
	if !resp.Records[1].Deleted {
		t.Fatalf("tombstone flag lost in transit")
	}
}

func TestPullChanges_EmptyCursorOnFirstPull(t *testing.T) {
	mockSvc := &mockSyncService{
		pullFn: func(ctx context.Context, userID, familyID int64, deviceID, since string) (models.PullResponse, error) {
			if since != "" {
				t.Fatalf("expected empty since, got %q", since)
			}
			return models.PullResponse{Cursor: "cur-0"}, nil
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/sync/pull", nil)
	req = req.WithContext(withIdentity(req.Context(), 1, 7, "device-1"))

	rr := httptest.NewRecorder()
	h.pullChanges(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestPullChanges_FamilyMismatch(t *testing.T) {
	mockSvc := &mockSyncService{
		pullFn: func(ctx context.Context, userID, familyID int64, deviceID, since string) (models.PullResponse, error) {
			return models.PullResponse{}, fmt.Errorf("loading changes: %w", store.ErrFamilyMismatch)
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/sync/pull", nil)
	req = req.WithContext(withIdentity(req.Context(), 1, 7, "device-1"))

	rr := httptest.NewRecorder()
	h.pullChanges(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rr.Code)
	}
}

func TestPullChanges_NoIdentityInContext(t *testing.T) {
	h := newHandlerWithSyncService(&mockSyncService{})

	req := httptest.NewRequest(http.MethodGet, "/sync/pull", nil)

	rr := httptest.NewRecorder()
	h.pullChanges(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
}

func TestSyncStatus_Success(t *testing.T) {
	lastPush := time.Unix(1700000000, 0).UTC()

	mockSvc := &mockSyncService{
		statusFn: func(ctx context.Context, deviceID string) (models.StatusResponse, error) {
			if deviceID != "device-1" {
				t.Fatalf("expected device-1, got %q", deviceID)
			}
			return models.StatusResponse{LastPushAt: &lastPush, LastPullCursor: "cur-9"}, nil
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/sync/status", nil)
	req = req.WithContext(withIdentity(req.Context(), 1, 7, "device-1"))

	rr := httptest.NewRecorder()
	h.syncStatus(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	var resp models.StatusResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}

	if resp.LastPullCursor != "cur-9" {
		t.Fatalf("cursor mismatch: %q", resp.LastPullCursor)
	}
	if resp.LastPushAt == nil || !resp.LastPushAt.Equal(lastPush) {
		t.Fatalf("last push timestamp mismatch")
	}
}

func TestSyncStatus_StoreError(t *testing.T) {
	mockSvc := &mockSyncService{
		statusFn: func(ctx context.Context, deviceID string) (models.StatusResponse, error) {
			return models.StatusResponse{}, fmt.Errorf("%w: timeout", store.ErrExecutingQuery)
		},
	}

	h := newHandlerWithSyncService(mockSvc)

	req := httptest.NewRequest(http.MethodGet, "/sync/status", nil)
	req = req.WithContext(withIdentity(req.Context(), 1, 7, "device-1"))

	rr := httptest.NewRecorder()
	h.syncStatus(rr, req)

	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}
