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

// deviceStateRepository is the PostgreSQL-backed implementation of
// [DeviceStateRepository]. It keeps one bookkeeping row per device:
// when the device last pushed and which pull cursor it last confirmed.
type deviceStateRepository struct {
	*DB
	logger *logger.Logger
}

// NewDeviceStateRepository constructs a [DeviceStateRepository] backed by the
// provided database connection and logger.
func NewDeviceStateRepository(db *DB, logger *logger.Logger) DeviceStateRepository {
	logger.Debug().Msg("creating device state repository")
	return &deviceStateRepository{
		DB:     db,
		logger: logger,
	}
}

// StampPush records that the device completed a push at the given moment.
// The row is created on first contact.
func (r *deviceStateRepository) StampPush(ctx context.Context, state models.DeviceSyncState, pushedAt time.Time) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, upsertDevicePushState, state.DeviceID, state.FamilyID, state.UserID, pushedAt)
	if err != nil {
		log.Err(err).
			Str("func", "deviceStateRepository.StampPush").
			Str("device_id", state.DeviceID).
			Int64("family_id", state.FamilyID).
			Msg("failed to execute query for stamping push state")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Error().
			Str("func", "deviceStateRepository.StampPush").
			Str("device_id", state.DeviceID).
			Msg("push state was not stamped")
		return ErrDeviceStateNotFound
	}

	return nil
}

// StampCursor records the pull cursor the device last confirmed. The row is
// created on first contact.
func (r *deviceStateRepository) StampCursor(ctx context.Context, state models.DeviceSyncState, cursor string) error {
	log := logger.FromContext(ctx)

	result, err := r.DB.ExecContext(ctx, upsertDevicePullCursor, state.DeviceID, state.FamilyID, state.UserID, cursor)
	if err != nil {
		log.Err(err).
			Str("func", "deviceStateRepository.StampCursor").
			Str("device_id", state.DeviceID).
			Int64("family_id", state.FamilyID).
			Msg("failed to execute query for stamping pull cursor")
		return fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected == 0 {
		log.Error().
			Str("func", "deviceStateRepository.StampCursor").
			Str("device_id", state.DeviceID).
			Msg("pull cursor was not stamped")
		return ErrDeviceStateNotFound
	}

	return nil
}

// GetState returns the stored sync state for one device.
// Returns [ErrDeviceStateNotFound] when the device has never pushed or pulled.
func (r *deviceStateRepository) GetState(ctx context.Context, deviceID string) (models.DeviceSyncState, error) {
	log := logger.FromContext(ctx)

	var state models.DeviceSyncState
	var lastPushAt sql.NullTime
	var lastCursor sql.NullString

	scanErr := r.DB.QueryRowContext(ctx, getDeviceState, deviceID).Scan(
		&state.DeviceID,
		&state.FamilyID,
		&state.UserID,
		&lastPushAt,
		&lastCursor,
		&state.UpdatedAt,
	)
	if errors.Is(scanErr, sql.ErrNoRows) {
		return models.DeviceSyncState{}, ErrDeviceStateNotFound
	}
	if scanErr != nil {
		log.Err(scanErr).
			Str("func", "deviceStateRepository.GetState").
			Str("device_id", deviceID).
			Msg("failed to execute query for getting device state")
		return models.DeviceSyncState{}, fmt.Errorf("%w: %w", ErrExecutingQuery, scanErr)
	}

	if lastPushAt.Valid {
		state.LastPushAt = &lastPushAt.Time
	}
	if lastCursor.Valid {
		state.LastCursor = lastCursor.String
	}

	return state, nil
}
