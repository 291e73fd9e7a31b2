// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

import (
	"encoding/json"
	"time"
)

// SyncEvent is a single mutation produced on a device and replicated to the
// server. It is the wire form carried inside a push request; the client keeps
// the same structure at the core of its pending event log.
type SyncEvent struct {
	// ID is a client-generated UUID identifying the event itself.
	// The server's dedup ledger is keyed by this value, which makes
	// replaying the same event after a lost response a no-op.
	ID string `json:"id"`

	// EntityType names the record collection the event targets.
	EntityType EntityType `json:"entity_type"`

	// Operation is the mutation kind: create, update or delete.
	Operation Operation `json:"operation"`

	// TargetID is the identifier of the record being mutated.
	// For creates the client generates it up front so the record
	// exists locally before the server ever hears about it.
	TargetID string `json:"target_id"`

	// Payload is the opaque structured body of the record after the
	// mutation. Empty for deletes. The sync engine never interprets it.
	Payload json.RawMessage `json:"payload,omitempty"`

	// OccurredAt is the logical timestamp of the mutation on the device.
	// Conflict resolution compares these values: the latest one wins.
	OccurredAt time.Time `json:"occurred_at"`

	// Seq is the position the event was assigned in the device's local
	// log. The server orders same-target events of a batch by
	// (OccurredAt, Seq) so per-record history applies in creation order
	// even when the batch arrives shuffled.
	Seq int64 `json:"seq"`
}

// PendingEvent is a sync event waiting in the device's durable outbound
// queue, together with the delivery bookkeeping the queue maintains.
type PendingEvent struct {
	SyncEvent

	// CreatedAt is the moment the event was enqueued.
	CreatedAt time.Time `json:"-"`

	// AttemptCount is how many pushes have already failed for this
	// event with a retryable status.
	AttemptCount int `json:"-"`

	// NextAttemptAt defers the event until the backoff window elapses.
	// Zero means the event is ready immediately.
	NextAttemptAt time.Time `json:"-"`

	// Dead marks an event that exhausted its retry budget. Dead events
	// are excluded from pushes and surfaced for manual inspection.
	Dead bool `json:"-"`
}

// AckStatus is the server's verdict for one pushed event.
type AckStatus string

const (
	// AckApplied means the event mutated server state.
	AckApplied AckStatus = "applied"

	// AckStale means a newer mutation of the same record was already
	// applied; the event was discarded by last-write-wins. Terminal for
	// the client: the event leaves the queue and the next pull carries
	// the winning value.
	AckStale AckStatus = "stale"

	// AckRejected means the event can never be applied (unknown entity
	// type, missing target, foreign family). Terminal; the reason says
	// why.
	AckRejected AckStatus = "rejected"

	// AckRetryable means a transient server-side failure; the client
	// keeps the event and retries it with backoff.
	AckRetryable AckStatus = "retryable"
)

// Terminal reports whether the status removes the event from the queue.
func (s AckStatus) Terminal() bool {
	return s == AckApplied || s == AckStale || s == AckRejected
}

// Ack reason codes returned alongside rejected and retryable statuses.
const (
	ReasonNotFound      = "not_found"
	ReasonForbidden     = "forbidden"
	ReasonUnknownEntity = "unknown_entity_type"
	ReasonInvalidEvent  = "invalid_event"
	ReasonInternal      = "internal"
)

// EventAck is the per-event outcome inside a push response. Acks are
// returned in the order the events appeared in the request.
type EventAck struct {
	// EventID echoes the ID of the acknowledged event.
	EventID string `json:"event_id"`

	// Status is the verdict: applied, stale, rejected or retryable.
	Status AckStatus `json:"status"`

	// Reason carries a machine-readable explanation for rejected and
	// retryable statuses. Empty otherwise.
	Reason string `json:"reason,omitempty"`
}
