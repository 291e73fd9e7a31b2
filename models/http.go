package models

import "time"

// PushRequest uploads a batch of pending events from one device.
// Events appear in local log order; the server still orders same-target
// events itself, so a batch shuffled by the network applies identically.
type PushRequest struct {
	// DeviceID identifies the pushing device. It must match the device
	// claim of the access token.
	DeviceID string `json:"device_id"`

	// Events is the batch, oldest first.
	Events []SyncEvent `json:"events"`
}

// PushResponse acknowledges every event of a push batch, in request order.
type PushResponse struct {
	Acks []EventAck `json:"acks"`
}

// PullResponse carries all record changes visible after the client's
// cursor, merged across entity types, plus the cursor for the next pull.
type PullResponse struct {
	// Records are the changed records ordered by server change time.
	// Tombstones are included.
	Records []RecordChange `json:"records"`

	// Cursor is the opaque token to pass as "since" on the next pull.
	// Returned even when Records is empty.
	Cursor string `json:"cursor"`
}

// StatusResponse summarizes the calling device's replication state.
type StatusResponse struct {
	// LastPushAt is the server time of the device's last accepted push,
	// nil if the device never pushed.
	LastPushAt *time.Time `json:"last_push_at,omitempty"`

	// LastPullCursor is the cursor the device most recently pulled up
	// to, empty if the device never pulled.
	LastPullCursor string `json:"last_pull_cursor,omitempty"`
}

// RefreshRequest exchanges a long-lived refresh token for a fresh access
// token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
	DeviceID     string `json:"device_id"`
}

// RefreshResponse returns the new access token and its expiry.
type RefreshResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}
