package models

import "time"

// DeviceSession is the durable server-side half of a device's refresh
// credential. The refresh token itself is never stored; only its bcrypt
// hash is kept, so a leaked session store cannot mint tokens.
type DeviceSession struct {
	// DeviceID is the device the session was provisioned for.
	DeviceID string `json:"device_id"`

	// UserID and FamilyID are the identities baked into access tokens
	// issued against this session.
	UserID   int64 `json:"user_id"`
	FamilyID int64 `json:"family_id"`

	// RefreshTokenHash is the bcrypt hash of the provisioned refresh token.
	RefreshTokenHash string `json:"refresh_token_hash"`

	// ExpiresAt is when the session stops accepting refresh requests.
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its lifetime at the given
// moment.
func (s DeviceSession) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}
