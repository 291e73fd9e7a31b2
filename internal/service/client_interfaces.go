package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/MKhiriev/go-nest-keeper/models"
)

// ClientRecordService is the client-side contract for mutating family
// records. Every mutation is optimistic: it lands in the local store and the
// pending event queue in the same call and becomes visible to the UI
// immediately. The network is never touched on this path; replication is the
// sync service's job.
type ClientRecordService interface {
	// Create mints a record id, writes the record to the local store and
	// queues a create event. Returns the stored record so the caller can
	// render it right away.
	// Returns an error if the local save or the enqueue fails.
	Create(ctx context.Context, entityType models.EntityType, payload json.RawMessage) (models.LocalRecord, error)

	// Update overwrites the payload of an existing local record and
	// queues an update event. The record keeps its id; its logical
	// timestamp moves to now.
	// Returns store.ErrRecordNotFound if the record does not exist
	// locally.
	Update(ctx context.Context, entityType models.EntityType, id string, payload json.RawMessage) (models.LocalRecord, error)

	// Delete tombstones the record locally and queues a delete event.
	// Deleting an already tombstoned record is a no-op that still queues
	// the event, so a deletion that never reached the server is retried.
	Delete(ctx context.Context, entityType models.EntityType, id string) error

	// Get returns one local record, tombstoned or not.
	Get(ctx context.Context, entityType models.EntityType, id string) (models.LocalRecord, error)

	// List returns the live local records of one entity type, newest
	// first.
	List(ctx context.Context, entityType models.EntityType) ([]models.LocalRecord, error)
}

// ClientSyncService is the client-side contract for replicating the local
// state with the server. All methods report their outcome through
// models.SyncReport; an error is returned only when a cycle could not run or
// had to stop early, and the report still describes everything that happened
// before the failure.
type ClientSyncService interface {
	// Push drains the pending event queue in batches and settles every
	// acknowledgement: applied and stale events leave the queue, rejected
	// ones are dropped and reported, retryable ones are deferred with
	// backoff or dead-lettered once their attempt budget is spent.
	// A transport failure leaves the queue untouched.
	Push(ctx context.Context) (models.SyncReport, error)

	// Pull fetches record changes past the stored cursor and merges them
	// into the local store by last-write-wins, looping until the server
	// has nothing newer. The cursor only advances after a page has been
	// fully applied, so an interrupted pull resumes without loss.
	Pull(ctx context.Context) (models.SyncReport, error)

	// FullSync runs one push followed by one pull and merges both
	// reports. Concurrent calls coalesce into a single cycle that all
	// callers observe.
	FullSync(ctx context.Context) (models.SyncReport, error)

	// Status fetches the server's replication bookkeeping for this
	// device.
	Status(ctx context.Context) (models.StatusResponse, error)

	// DeadLetters lists events parked after exhausting their retry
	// budget.
	DeadLetters(ctx context.Context) ([]models.PendingEvent, error)
}

// ClientSyncJob is the contract for the background worker that keeps the
// device converging while the app is running.
type ClientSyncJob interface {
	// Start launches the background sync goroutine. It runs FullSync
	// every interval, defaulting to 5 minutes if interval is zero or
	// negative. Any previously running job is stopped before the new one
	// begins.
	Start(ctx context.Context, interval time.Duration)

	// Stop signals the background goroutine to exit and blocks until it
	// has fully terminated.
	Stop()
}
