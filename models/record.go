package models

import (
	"encoding/json"
	"time"
)

// Record is the server-side state of one family record.
//
// Two timestamps live side by side on purpose. UpdatedAt is the logical
// time of the winning mutation as reported by the device that made it;
// last-write-wins compares these. ServerUpdatedAt is stamped from the
// server clock on every accepted change and is the basis for pull
// cursors, so cursor math never depends on device clocks.
type Record struct {
	// ID is the record identifier, generated by the creating device.
	ID string `json:"id"`

	// EntityType names the collection the record belongs to.
	EntityType EntityType `json:"entity_type"`

	// FamilyID scopes the record to one family. Every operation
	// verifies the caller's token carries the same family.
	FamilyID int64 `json:"family_id"`

	// Payload is the opaque record body. Nil once the record is deleted.
	Payload json.RawMessage `json:"payload,omitempty"`

	// UpdatedAt is the logical timestamp of the last applied mutation.
	UpdatedAt time.Time `json:"updated_at"`

	// ServerUpdatedAt is the server-clock time of the last applied
	// mutation, including deletions.
	ServerUpdatedAt time.Time `json:"server_updated_at"`

	// Deleted marks a tombstone. Tombstones stay in the table so late
	// pulls can propagate the deletion to every device.
	Deleted bool `json:"deleted"`

	// CreatedAt is the server-clock time the record first appeared.
	CreatedAt time.Time `json:"created_at"`
}

// RecordChange is one entry of a pull response: the portion of a server
// record a client needs to bring its local store up to date.
type RecordChange struct {
	// EntityType names the collection the change belongs to.
	EntityType EntityType `json:"entity_type"`

	// ID is the record identifier.
	ID string `json:"id"`

	// Payload is the current record body. Null for tombstones.
	Payload json.RawMessage `json:"payload,omitempty"`

	// UpdatedAt is the logical timestamp of the record's last mutation.
	UpdatedAt time.Time `json:"updated_at"`

	// Deleted is true when the change is a tombstone and the client
	// must remove its local copy.
	Deleted bool `json:"deleted"`
}

// LocalRecord is a row of the device's local record store: the immediately
// visible state the UI reads, regardless of replication progress.
type LocalRecord struct {
	// EntityType and ID key the record.
	EntityType EntityType `json:"entity_type"`
	ID         string     `json:"id"`

	// Payload is the record body as last written locally or pulled.
	Payload json.RawMessage `json:"payload,omitempty"`

	// UpdatedAt is the logical timestamp of the last local or pulled
	// mutation.
	UpdatedAt time.Time `json:"updated_at"`

	// PendingSync is true while at least one queued event still targets
	// this record. It lets the UI badge unsynced entries.
	PendingSync bool `json:"pending_sync"`

	// SyncedAt is the last time this record was confirmed consistent
	// with the server, nil if never.
	SyncedAt *time.Time `json:"synced_at,omitempty"`

	// Deleted marks a locally deleted record whose deletion has not
	// necessarily reached the server yet.
	Deleted bool `json:"deleted"`
}
