// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

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
)

const dedupKeyPrefix = "sync:dedup:"

// redisDedupLedger is the redis-backed implementation of [DedupLedger].
//
// Each processed event id is stored under "sync:dedup:<event_id>" with the
// recorded acknowledgement as JSON and the dedup window as TTL. Replaying an
// event inside the window returns the recorded ack without touching the
// record tables; once the key expires a replay is applied again, which
// last-write-wins keeps harmless.
type redisDedupLedger struct {
	client *redis.Client
	window time.Duration
	logger *logger.Logger
}

// NewRedisDedupLedger constructs a [DedupLedger] backed by the provided redis
// client. Recorded acknowledgements expire after the given window.
func NewRedisDedupLedger(client *redis.Client, window time.Duration, logger *logger.Logger) DedupLedger {
	logger.Debug().Dur("window", window).Msg("creating redis dedup ledger")
	return &redisDedupLedger{
		client: client,
		window: window,
		logger: logger,
	}
}

// Lookup returns the acknowledgement recorded for the event id, if any.
// The second return value is false when the event was never seen or its
// ledger entry has expired.
func (l *redisDedupLedger) Lookup(ctx context.Context, eventID string) (models.EventAck, bool, error) {
	log := logger.FromContext(ctx)

	jsonData, err := l.client.Get(ctx, dedupKeyPrefix+eventID).Result()
	if errors.Is(err, redis.Nil) {
		return models.EventAck{}, false, nil
	}
	if err != nil {
		log.Err(err).
			Str("func", "redisDedupLedger.Lookup").
			Str("event_id", eventID).
			Msg("failed to get ledger entry")
		return models.EventAck{}, false, fmt.Errorf("failed to get ledger entry: %w", err)
	}

	var ack models.EventAck
	if unmarshalErr := json.Unmarshal([]byte(jsonData), &ack); unmarshalErr != nil {
		// corrupt entry: treat as a miss, re-applying the event is safe
		log.Warn().
			Str("func", "redisDedupLedger.Lookup").
			Str("event_id", eventID).
			Msg("failed to unmarshal ledger entry, treating as unseen")
		return models.EventAck{}, false, nil
	}

	return ack, true, nil
}

// Record stores the acknowledgement for the event id for the dedup window.
func (l *redisDedupLedger) Record(ctx context.Context, eventID string, ack models.EventAck) error {
	log := logger.FromContext(ctx)

	jsonData, err := json.Marshal(ack)
	if err != nil {
		return fmt.Errorf("failed to marshal ack: %w", err)
	}

	if setErr := l.client.Set(ctx, dedupKeyPrefix+eventID, jsonData, l.window).Err(); setErr != nil {
		log.Err(setErr).
			Str("func", "redisDedupLedger.Record").
			Str("event_id", eventID).
			Msg("failed to set ledger entry")
		return fmt.Errorf("failed to set ledger entry: %w", setErr)
	}

	return nil
}
