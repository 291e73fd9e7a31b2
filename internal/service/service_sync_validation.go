package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-nest-keeper/internal/validators"
	"github.com/MKhiriev/go-nest-keeper/models"
)

// SyncValidationService guards the sync core against malformed requests.
// Request-level faults fail the whole call; event-level faults are judged
// inside the core so every event still receives its own acknowledgement.
type SyncValidationService struct {
	inner     SyncService
	validator validators.Validator
}

func NewSyncValidationService() SyncServiceWrapper {
	return &SyncValidationService{
		validator: validators.NewSyncEventValidator(),
	}
}

// Push validates the request shape and verifies the body's device id against
// the one vouched for by the access token before delegating.
func (v *SyncValidationService) Push(ctx context.Context, userID, familyID int64, deviceID string, request models.PushRequest) (models.PushResponse, error) {
	if err := v.validator.Validate(ctx, request); err != nil {
		return models.PushResponse{}, fmt.Errorf("%w: %w", ErrInvalidDataProvided, err)
	}

	if request.DeviceID != deviceID {
		return models.PushResponse{}, ErrDeviceMismatch
	}

	return v.inner.Push(ctx, userID, familyID, deviceID, request)
}

func (v *SyncValidationService) Pull(ctx context.Context, userID, familyID int64, deviceID, since string) (models.PullResponse, error) {
	return v.inner.Pull(ctx, userID, familyID, deviceID, since)
}

func (v *SyncValidationService) Status(ctx context.Context, deviceID string) (models.StatusResponse, error) {
	return v.inner.Status(ctx, deviceID)
}

func (v *SyncValidationService) Wrap(inner SyncService) SyncService {
	v.inner = inner
	return v
}
