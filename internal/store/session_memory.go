package store

import (
	"context"
	"sync"
	"time"

	"github.com/MKhiriev/go-nest-keeper/models"
)

// memorySessionStore is the in-process implementation of [SessionStore],
// used when no redis instance is configured. Sessions do not survive a
// restart, so devices must be re-seeded; acceptable for development and
// tests only.
type memorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]models.DeviceSession
}

// NewMemorySessionStore constructs an in-process [SessionStore].
func NewMemorySessionStore() SessionStore {
	return &memorySessionStore{
		sessions: make(map[string]models.DeviceSession),
	}
}

// Validate checks the presented refresh token against the stored session.
func (s *memorySessionStore) Validate(_ context.Context, deviceID, refreshToken string) (models.DeviceSession, error) {
	s.mu.RLock()
	session, ok := s.sessions[deviceID]
	s.mu.RUnlock()

	if !ok || session.Expired(time.Now()) {
		return models.DeviceSession{}, ErrSessionNotFound
	}

	if err := compareRefreshToken(session.RefreshTokenHash, refreshToken); err != nil {
		return models.DeviceSession{}, ErrRefreshTokenMismatch
	}

	return session, nil
}

// Seed provisions (or replaces) the session for a device.
func (s *memorySessionStore) Seed(_ context.Context, session models.DeviceSession, refreshToken string) error {
	hash, err := hashRefreshToken(refreshToken)
	if err != nil {
		return err
	}
	session.RefreshTokenHash = hash

	s.mu.Lock()
	s.sessions[session.DeviceID] = session
	s.mu.Unlock()

	return nil
}

// Revoke removes the session for a device.
func (s *memorySessionStore) Revoke(_ context.Context, deviceID string) error {
	s.mu.Lock()
	delete(s.sessions, deviceID)
	s.mu.Unlock()

	return nil
}
