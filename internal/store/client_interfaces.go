package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-nest-keeper/models"
)

//go:generate mockgen -source=client_interfaces.go -destination=../mock/client_store_mock.go -package=mock

// PendingEventLog is the device's durable outbound queue. Every local
// mutation enqueues one event here before anything touches the network, and
// events leave only through a terminal acknowledgement or dead-lettering.
type PendingEventLog interface {
	// Enqueue appends one event and assigns its sequence number.
	// Enqueuing an already-queued event id is a no-op.
	Enqueue(ctx context.Context, event models.SyncEvent) error

	// ListReady returns live events past their backoff deferral at the
	// given moment, in sequence order, capped at limit.
	ListReady(ctx context.Context, now time.Time, limit int) ([]models.PendingEvent, error)

	// Remove deletes acknowledged events from the queue.
	Remove(ctx context.Context, eventIDs ...string) error

	// IncrementAttempt bumps the attempt counter after a retryable
	// failure and defers the event until nextAttemptAt.
	IncrementAttempt(ctx context.Context, eventID string, nextAttemptAt time.Time) error

	// MarkDead parks an event that exhausted its retry budget.
	MarkDead(ctx context.Context, eventID string) error

	// CountForTarget returns how many live events still target a record.
	CountForTarget(ctx context.Context, entityType models.EntityType, targetID string) (int, error)

	// DeadLetters returns every dead-lettered event.
	DeadLetters(ctx context.Context) ([]models.PendingEvent, error)
}

// LocalRecordRepository is the device's replica of the family's records.
type LocalRecordRepository interface {
	// Save upserts a locally mutated record and flags it pending_sync.
	Save(ctx context.Context, record models.LocalRecord) error

	// Get returns one record, tombstoned or not.
	Get(ctx context.Context, entityType models.EntityType, id string) (models.LocalRecord, error)

	// List returns the records of one entity type, newest first,
	// filtering tombstones unless includeDeleted is set.
	List(ctx context.Context, entityType models.EntityType, includeDeleted bool) ([]models.LocalRecord, error)

	// ApplyRemote merges one pulled change by last-write-wins and
	// reports whether it was applied.
	ApplyRemote(ctx context.Context, change models.RecordChange, syncedAt time.Time) (bool, error)

	// MarkSynced clears the pending flag unless the record changed
	// after writtenAt, and reports whether it was cleared.
	MarkSynced(ctx context.Context, entityType models.EntityType, id string, writtenAt, syncedAt time.Time) (bool, error)

	// Delete tombstones a record locally and flags it pending_sync.
	Delete(ctx context.Context, entityType models.EntityType, id string, deletedAt time.Time) error
}

// SyncStateRepository persists the device's pull cursor and full sync
// bookkeeping.
type SyncStateRepository interface {
	// Cursor returns the pull cursor of the last completed pull.
	Cursor(ctx context.Context) (string, error)

	// SetCursor advances the pull cursor.
	SetCursor(ctx context.Context, cursor string) error

	// LastFullSyncAt returns when the last full sync completed.
	LastFullSyncAt(ctx context.Context) (time.Time, error)

	// SetLastFullSyncAt records the completion of a full sync cycle.
	SetLastFullSyncAt(ctx context.Context, completedAt time.Time) error
}
