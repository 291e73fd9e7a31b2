package models

import "time"

// DeviceSyncState is the server's per-device replication bookkeeping,
// reported by the status endpoint and updated on every push and pull.
type DeviceSyncState struct {
	DeviceID   string     `json:"device_id"`
	FamilyID   int64      `json:"family_id"`
	UserID     int64      `json:"user_id"`
	LastPushAt *time.Time `json:"last_push_at,omitempty"`
	LastCursor string     `json:"last_cursor,omitempty"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// SyncReport summarizes one client sync cycle for the caller. Sync never
// blocks the UI on errors; everything noteworthy lands here instead.
type SyncReport struct {
	// Pushed is the number of events sent in this cycle.
	Pushed int `json:"pushed"`

	// Applied counts events the server accepted.
	Applied int `json:"applied"`

	// Conflicts lists events discarded by last-write-wins. The local
	// record converges to the winning value on the following pull.
	Conflicts []EventAck `json:"conflicts,omitempty"`

	// Rejected lists events the server refused permanently.
	Rejected []EventAck `json:"rejected,omitempty"`

	// Retried counts events kept in the queue for a later attempt.
	Retried int `json:"retried"`

	// DeadLettered counts events that exhausted their retry budget in
	// this cycle.
	DeadLettered int `json:"dead_lettered"`

	// Pulled is the number of record changes applied from the server,
	// Tombstones of them deletions.
	Pulled     int `json:"pulled"`
	Tombstones int `json:"tombstones"`

	// Skipped counts malformed pull entries that were logged and
	// dropped without aborting the cycle.
	Skipped int `json:"skipped"`

	// Cursor is the cursor position after the cycle.
	Cursor string `json:"cursor,omitempty"`
}

// Merge folds another report into r. FullSync uses it to combine the push
// and pull halves of a cycle.
func (r *SyncReport) Merge(other SyncReport) {
	r.Pushed += other.Pushed
	r.Applied += other.Applied
	r.Conflicts = append(r.Conflicts, other.Conflicts...)
	r.Rejected = append(r.Rejected, other.Rejected...)
	r.Retried += other.Retried
	r.DeadLettered += other.DeadLettered
	r.Pulled += other.Pulled
	r.Tombstones += other.Tombstones
	r.Skipped += other.Skipped
	if other.Cursor != "" {
		r.Cursor = other.Cursor
	}
}
