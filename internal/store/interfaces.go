package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-nest-keeper/models"
)

// RecordRepository persists the server-side state of one replicated entity
// collection. One implementation exists per entity table; the sync service
// resolves them through [Repositories.Records].
type RecordRepository interface {
	// ApplyChange applies one pushed change under last-write-wins.
	// Outcomes are reported through sentinel errors: nil for applied,
	// ErrStaleWrite for a lost conflict, ErrRecordNotFound for updates on
	// missing or deleted targets, ErrFamilyMismatch for foreign records.
	ApplyChange(ctx context.Context, operation models.Operation, record models.Record) error

	// GetRecord fetches one record by id regardless of owning family.
	GetRecord(ctx context.Context, id string) (models.Record, error)

	// ListChangedSince returns family records changed after the watermark,
	// ordered by server timestamp, tombstones included.
	ListChangedSince(ctx context.Context, familyID int64, since time.Time, limit uint64) ([]models.Record, error)
}

// DeviceStateRepository keeps per-device replication bookkeeping: last push
// time and last confirmed pull cursor.
type DeviceStateRepository interface {
	StampPush(ctx context.Context, state models.DeviceSyncState, pushedAt time.Time) error
	StampCursor(ctx context.Context, state models.DeviceSyncState, cursor string) error
	GetState(ctx context.Context, deviceID string) (models.DeviceSyncState, error)
}

// DatabaseClock reads the authoritative time from the database server.
// Record watermarks are stamped by NOW() inside the database, so pull
// cursors must come from the same clock; minting them from the process
// clock would let a skewed cursor run ahead of rows not yet written.
type DatabaseClock interface {
	Now(ctx context.Context) (time.Time, error)
}

// DedupLedger remembers the acknowledgement of every processed event for the
// dedup window, making push replays idempotent.
type DedupLedger interface {
	// Lookup returns the recorded ack for an event id; the bool is false
	// when the event is unseen or its entry expired.
	Lookup(ctx context.Context, eventID string) (models.EventAck, bool, error)

	// Record stores the ack for an event id for the dedup window.
	Record(ctx context.Context, eventID string, ack models.EventAck) error
}

// SessionStore holds device refresh sessions. Sessions are provisioned
// externally (device enrollment); the server only validates and revokes them.
type SessionStore interface {
	// Validate checks a presented refresh token against the stored session
	// and returns the session identities on success.
	Validate(ctx context.Context, deviceID, refreshToken string) (models.DeviceSession, error)

	// Seed provisions or replaces the session for a device.
	Seed(ctx context.Context, session models.DeviceSession, refreshToken string) error

	// Revoke removes the session for a device.
	Revoke(ctx context.Context, deviceID string) error
}
