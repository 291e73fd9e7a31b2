package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/models"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

const sessionKeyPrefix = "sync:session:"

// redisSessionStore is the redis-backed implementation of [SessionStore].
//
// One session lives under "sync:session:<device_id>" as JSON, with the
// session lifetime as TTL. The refresh token itself is never stored, only
// its bcrypt hash; Validate recomputes the comparison on every refresh.
type redisSessionStore struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisSessionStore constructs a [SessionStore] backed by the provided
// redis client.
func NewRedisSessionStore(client *redis.Client, logger *logger.Logger) SessionStore {
	logger.Debug().Msg("creating redis session store")
	return &redisSessionStore{
		client: client,
		logger: logger,
	}
}

// Validate loads the session for the device and checks the presented refresh
// token against the stored hash.
//
// Returns [ErrSessionNotFound] when no session exists or it has expired, and
// [ErrRefreshTokenMismatch] when the token does not match.
func (s *redisSessionStore) Validate(ctx context.Context, deviceID, refreshToken string) (models.DeviceSession, error) {
	log := logger.FromContext(ctx)

	jsonData, err := s.client.Get(ctx, sessionKeyPrefix+deviceID).Result()
	if errors.Is(err, redis.Nil) {
		return models.DeviceSession{}, ErrSessionNotFound
	}
	if err != nil {
		log.Err(err).
			Str("func", "redisSessionStore.Validate").
			Str("device_id", deviceID).
			Msg("failed to get session")
		return models.DeviceSession{}, fmt.Errorf("failed to get session: %w", err)
	}

	var session models.DeviceSession
	if unmarshalErr := json.Unmarshal([]byte(jsonData), &session); unmarshalErr != nil {
		log.Err(unmarshalErr).
			Str("func", "redisSessionStore.Validate").
			Str("device_id", deviceID).
			Msg("failed to unmarshal session")
		return models.DeviceSession{}, fmt.Errorf("failed to unmarshal session: %w", unmarshalErr)
	}

	if session.Expired(time.Now()) {
		return models.DeviceSession{}, ErrSessionNotFound
	}

	if compareErr := compareRefreshToken(session.RefreshTokenHash, refreshToken); compareErr != nil {
		log.Warn().
			Str("func", "redisSessionStore.Validate").
			Str("device_id", deviceID).
			Msg("refresh token does not match session")
		return models.DeviceSession{}, ErrRefreshTokenMismatch
	}

	return session, nil
}

// Seed provisions (or replaces) the session for a device. The plaintext
// refresh token is hashed before the session is written; it never reaches
// redis.
func (s *redisSessionStore) Seed(ctx context.Context, session models.DeviceSession, refreshToken string) error {
	log := logger.FromContext(ctx)

	hash, hashErr := hashRefreshToken(refreshToken)
	if hashErr != nil {
		return hashErr
	}
	session.RefreshTokenHash = hash

	jsonData, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	// redis treats 0 as "no expiration"
	var ttl time.Duration
	if !session.ExpiresAt.IsZero() {
		ttl = time.Until(session.ExpiresAt)
		if ttl <= 0 {
			return ErrSessionNotFound
		}
	}

	if setErr := s.client.Set(ctx, sessionKeyPrefix+session.DeviceID, jsonData, ttl).Err(); setErr != nil {
		log.Err(setErr).
			Str("func", "redisSessionStore.Seed").
			Str("device_id", session.DeviceID).
			Msg("failed to set session")
		return fmt.Errorf("failed to set session: %w", setErr)
	}

	return nil
}

// Revoke removes the session for a device so its refresh token stops working.
func (s *redisSessionStore) Revoke(ctx context.Context, deviceID string) error {
	log := logger.FromContext(ctx)

	if err := s.client.Del(ctx, sessionKeyPrefix+deviceID).Err(); err != nil {
		log.Err(err).
			Str("func", "redisSessionStore.Revoke").
			Str("device_id", deviceID).
			Msg("failed to delete session")
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

func hashRefreshToken(refreshToken string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(refreshToken), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash refresh token: %w", err)
	}
	return string(hash), nil
}

func compareRefreshToken(hash, refreshToken string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(refreshToken))
}
