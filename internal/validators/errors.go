package validators

import "errors"

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")
	ErrUnknownField    = errors.New("unknown field for validation")

	ErrInvalidEventID    = errors.New("invalid event id")
	ErrInvalidOperation  = errors.New("invalid operation")
	ErrInvalidTargetID   = errors.New("invalid target id")
	ErrEmptyPayload      = errors.New("payload is required")
	ErrInvalidOccurredAt = errors.New("occurred at timestamp is required")

	ErrInvalidDeviceID     = errors.New("invalid device ID")
	ErrNoEventsProvided    = errors.New("events list cannot be empty")
	ErrInvalidRefreshToken = errors.New("refresh token is required")
)
