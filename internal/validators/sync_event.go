package validators

import (
	"context"

	"github.com/MKhiriev/go-nest-keeper/models"
)

// Field name constants used to specify which fields should be validated.
// These constants are passed to Validate or internal validation methods
// to restrict validation to a subset of fields (field-level scoping).
const (
	FieldEventID      = "event_id"
	FieldOperation    = "operation"
	FieldTargetID     = "target_id"
	FieldPayload      = "payload"
	FieldOccurredAt   = "occurred_at"
	FieldDeviceID     = "device_id"
	FieldEvents       = "events"
	FieldRefreshToken = "refresh_token"
)

type SyncEventValidator struct {
}

func NewSyncEventValidator() Validator {
	return &SyncEventValidator{}
}

func (v *SyncEventValidator) Validate(ctx context.Context, obj any, fields ...string) error {
	switch value := obj.(type) {
	case models.SyncEvent:
		return v.validateEvent(ctx, value, fields...)
	case *models.SyncEvent:
		return v.validateEvent(ctx, *value, fields...)

	case models.PushRequest:
		return v.validatePushRequest(ctx, value, fields...)
	case *models.PushRequest:
		return v.validatePushRequest(ctx, *value, fields...)

	case models.RefreshRequest:
		return v.validateRefreshRequest(ctx, value, fields...)
	case *models.RefreshRequest:
		return v.validateRefreshRequest(ctx, *value, fields...)

	default:
		return ErrUnsupportedType
	}
}

func (v *SyncEventValidator) validateEvent(ctx context.Context, event models.SyncEvent, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldEventID, FieldOperation, FieldTargetID, FieldPayload, FieldOccurredAt}
	}

	for _, f := range fields {
		switch f {
		case FieldEventID:
			if event.ID == "" {
				return ErrInvalidEventID
			}
		case FieldOperation:
			if !event.Operation.Valid() {
				return ErrInvalidOperation
			}
		case FieldTargetID:
			if event.TargetID == "" {
				return ErrInvalidTargetID
			}
		case FieldPayload:
			// deletes carry no payload; one present anyway is ignored
			if event.Operation != models.OperationDelete && len(event.Payload) == 0 {
				return ErrEmptyPayload
			}
		case FieldOccurredAt:
			if event.OccurredAt.IsZero() {
				return ErrInvalidOccurredAt
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncEventValidator) validatePushRequest(ctx context.Context, request models.PushRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDeviceID, FieldEvents}
	}

	for _, f := range fields {
		switch f {
		case FieldDeviceID:
			if request.DeviceID == "" {
				return ErrInvalidDeviceID
			}
		case FieldEvents:
			if len(request.Events) == 0 {
				return ErrNoEventsProvided
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}

func (v *SyncEventValidator) validateRefreshRequest(ctx context.Context, request models.RefreshRequest, fields ...string) error {
	if len(fields) == 0 {
		fields = []string{FieldDeviceID, FieldRefreshToken}
	}

	for _, f := range fields {
		switch f {
		case FieldDeviceID:
			if request.DeviceID == "" {
				return ErrInvalidDeviceID
			}
		case FieldRefreshToken:
			if request.RefreshToken == "" {
				return ErrInvalidRefreshToken
			}
		default:
			return ErrUnknownField
		}
	}

	return nil
}
