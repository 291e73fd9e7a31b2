// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-nest-keeper/internal/adapter"
	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/internal/store"
	"github.com/MKhiriev/go-nest-keeper/models"
	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"
)

const (
	// defaultPushBatchSize caps one push request when the queue config
	// leaves it unset.
	defaultPushBatchSize = 100

	// defaultMaxAttempts is the retry budget before dead-lettering.
	defaultMaxAttempts = 5

	// baseBackoffDelay seeds the exponential deferral schedule for
	// retryable events.
	baseBackoffDelay = 30 * time.Second

	// maxBackoffDelay caps the deferral so a long-lived event still goes
	// out about once an hour.
	maxBackoffDelay = time.Hour

	// transportRetryBase and transportRetries bound the in-call retry of
	// pull and status requests on transient transport failures.
	transportRetryBase = 500 * time.Millisecond
	transportRetries   = 2
)

type clientSyncService struct {
	adapter   adapter.ServerAdapter
	events    store.PendingEventLog
	records   store.LocalRecordRepository
	syncState store.SyncStateRepository

	deviceID      string
	pushBatchSize int
	maxAttempts   int

	flight singleflight.Group
	logger *logger.Logger
}

// NewClientSyncService wires the replication driver to the local storages
// and the server transport. Zero or negative queue settings fall back to the
// package defaults.
func NewClientSyncService(storages *store.ClientStorages, serverAdapter adapter.ServerAdapter, appCfg config.AgentApp, queueCfg config.AgentQueue, logger *logger.Logger) ClientSyncService {
	batchSize := queueCfg.PushBatchSize
	if batchSize <= 0 {
		batchSize = defaultPushBatchSize
	}
	maxAttempts := queueCfg.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &clientSyncService{
		adapter:       serverAdapter,
		events:        storages.Events,
		records:       storages.Records,
		syncState:     storages.SyncState,
		deviceID:      appCfg.DeviceID,
		pushBatchSize: batchSize,
		maxAttempts:   maxAttempts,
		logger:        logger,
	}
}

func (s *clientSyncService) Push(ctx context.Context) (models.SyncReport, error) {
	report := models.SyncReport{}

	for {
		pending, err := s.events.ListReady(ctx, time.Now().UTC(), s.pushBatchSize)
		if err != nil {
			return report, fmt.Errorf("list ready events: %w", err)
		}
		if len(pending) == 0 {
			return report, nil
		}

		batch, err := s.pushBatch(ctx, pending)
		report.Merge(batch)
		if err != nil {
			return report, err
		}
		if len(pending) < s.pushBatchSize {
			return report, nil
		}
	}
}

// pushBatch sends one batch and settles its acknowledgements. A transport
// failure leaves the queue untouched; the batch goes out again next cycle
// and the server's dedup ledger keeps the replay harmless.
func (s *clientSyncService) pushBatch(ctx context.Context, pending []models.PendingEvent) (models.SyncReport, error) {
	report := models.SyncReport{}

	events := make([]models.SyncEvent, 0, len(pending))
	byID := make(map[string]models.PendingEvent, len(pending))
	for _, p := range pending {
		events = append(events, p.SyncEvent)
		byID[p.ID] = p
	}

	response, err := s.adapter.PushEvents(ctx, models.PushRequest{DeviceID: s.deviceID, Events: events})
	if err != nil {
		return report, fmt.Errorf("push %d events: %w", len(events), mapAdapterError(err))
	}
	report.Pushed = len(events)

	for _, ack := range response.Acks {
		event, ok := byID[ack.EventID]
		if !ok {
			s.logger.Warn().Str("event_id", ack.EventID).Msg("ack for an event absent from the batch")
			continue
		}
		s.settle(ctx, &report, event, ack)
	}

	return report, nil
}

// settle applies one acknowledgement to the queue and the local replica.
// Bookkeeping failures are logged, not returned: the event is replayed on
// the next push and the server answers with the same recorded verdict.
func (s *clientSyncService) settle(ctx context.Context, report *models.SyncReport, event models.PendingEvent, ack models.EventAck) {
	switch ack.Status {
	case models.AckApplied, models.AckStale:
		if err := s.events.Remove(ctx, event.ID); err != nil {
			s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("remove acknowledged event")
			return
		}
		s.markTargetSynced(ctx, event)
		if ack.Status == models.AckStale {
			report.Conflicts = append(report.Conflicts, ack)
		} else {
			report.Applied++
		}

	case models.AckRejected:
		if err := s.events.Remove(ctx, event.ID); err != nil {
			s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("remove rejected event")
			return
		}
		s.markTargetSynced(ctx, event)
		report.Rejected = append(report.Rejected, ack)
		s.logger.Warn().Str("event_id", event.ID).Str("reason", ack.Reason).Msg("event rejected by server")

	case models.AckRetryable:
		s.deferEvent(ctx, report, event)

	default:
		s.logger.Warn().Str("event_id", event.ID).Str("status", string(ack.Status)).Msg("unknown ack status, keeping event queued")
	}
}

// deferEvent pushes a retryable event further down the schedule, or parks it
// once its attempt budget is spent.
func (s *clientSyncService) deferEvent(ctx context.Context, report *models.SyncReport, event models.PendingEvent) {
	attempt := event.AttemptCount + 1
	if attempt >= s.maxAttempts {
		if err := s.events.MarkDead(ctx, event.ID); err != nil {
			s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("dead-letter event")
			return
		}
		report.DeadLettered++
		s.logger.Error().Str("event_id", event.ID).Int("attempts", attempt).Msg("event dead-lettered after exhausting retries")
		return
	}

	nextAttemptAt := time.Now().UTC().Add(s.retryDelay(attempt))
	if err := s.events.IncrementAttempt(ctx, event.ID, nextAttemptAt); err != nil {
		s.logger.Warn().Err(err).Str("event_id", event.ID).Msg("defer retryable event")
		return
	}
	report.Retried++
}

// markTargetSynced clears the record's pending badge once no queued event
// targets it anymore.
func (s *clientSyncService) markTargetSynced(ctx context.Context, event models.PendingEvent) {
	count, err := s.events.CountForTarget(ctx, event.EntityType, event.TargetID)
	if err != nil {
		s.logger.Warn().Err(err).Str("target_id", event.TargetID).Msg("count live events for target")
		return
	}
	if count > 0 {
		return
	}

	if _, err = s.records.MarkSynced(ctx, event.EntityType, event.TargetID, event.OccurredAt, time.Now().UTC()); err != nil {
		s.logger.Warn().Err(err).Str("target_id", event.TargetID).Msg("clear pending flag")
	}
}

// retryDelay computes the deferral before the given attempt goes out again.
// The schedule doubles from baseBackoffDelay with a little jitter so devices
// that failed together do not retry together, capped at maxBackoffDelay.
func (s *clientSyncService) retryDelay(attempt int) time.Duration {
	backoff := retry.WithCappedDuration(maxBackoffDelay, retry.WithJitterPercent(10, retry.NewExponential(baseBackoffDelay)))

	delay := baseBackoffDelay
	for i := 0; i < attempt; i++ {
		next, stop := backoff.Next()
		if stop {
			break
		}
		delay = next
	}
	return delay
}

func (s *clientSyncService) Pull(ctx context.Context) (models.SyncReport, error) {
	report := models.SyncReport{}

	cursor, err := s.syncState.Cursor(ctx)
	if err != nil {
		return report, fmt.Errorf("load pull cursor: %w", err)
	}

	for {
		response, err := s.pullPage(ctx, cursor)
		if err != nil {
			return report, fmt.Errorf("pull changes: %w", mapAdapterError(err))
		}

		appliedAt := time.Now().UTC()
		for _, change := range response.Records {
			if !pullable(change) {
				report.Skipped++
				s.logger.Warn().Str("entity_type", string(change.EntityType)).Str("id", change.ID).Msg("skipping malformed pull entry")
				continue
			}

			applied, err := s.records.ApplyRemote(ctx, change, appliedAt)
			if err != nil {
				// cursor stays put, the next pull replays this page
				return report, fmt.Errorf("apply pulled %s/%s: %w", change.EntityType, change.ID, err)
			}
			if applied {
				report.Pulled++
				if change.Deleted {
					report.Tombstones++
				}
			}
		}

		if err = s.syncState.SetCursor(ctx, response.Cursor); err != nil {
			return report, fmt.Errorf("advance pull cursor: %w", err)
		}
		report.Cursor = response.Cursor
		cursor = response.Cursor

		if len(response.Records) == 0 {
			return report, nil
		}
	}
}

// pullPage fetches one page of changes, retrying briefly on transient
// transport failures so a wifi hiccup does not abort the whole cycle.
func (s *clientSyncService) pullPage(ctx context.Context, cursor string) (models.PullResponse, error) {
	var response models.PullResponse

	backoff := retry.WithMaxRetries(transportRetries, retry.NewExponential(transportRetryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		page, err := s.adapter.PullSince(ctx, cursor)
		if err != nil {
			if adapter.IsTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		response = page
		return nil
	})

	return response, err
}

// pullable filters entries the local store could not key or render.
func pullable(change models.RecordChange) bool {
	if change.ID == "" || change.EntityType == "" {
		return false
	}
	if !change.Deleted && len(change.Payload) == 0 {
		return false
	}
	return true
}

func (s *clientSyncService) FullSync(ctx context.Context) (models.SyncReport, error) {
	value, err, shared := s.flight.Do("full-sync", func() (any, error) {
		return s.fullSync(ctx)
	})
	if shared {
		s.logger.Debug().Msg("joined an in-flight sync cycle")
	}

	report, ok := value.(models.SyncReport)
	if !ok {
		report = models.SyncReport{}
	}
	return report, err
}

func (s *clientSyncService) fullSync(ctx context.Context) (models.SyncReport, error) {
	report, err := s.Push(ctx)
	if err != nil {
		return report, fmt.Errorf("push phase: %w", err)
	}

	pullReport, err := s.Pull(ctx)
	report.Merge(pullReport)
	if err != nil {
		return report, fmt.Errorf("pull phase: %w", err)
	}

	if err = s.syncState.SetLastFullSyncAt(ctx, time.Now().UTC()); err != nil {
		s.logger.Warn().Err(err).Msg("record full sync completion")
	}

	return report, nil
}

func (s *clientSyncService) Status(ctx context.Context) (models.StatusResponse, error) {
	var response models.StatusResponse

	backoff := retry.WithMaxRetries(transportRetries, retry.NewExponential(transportRetryBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		status, err := s.adapter.FetchStatus(ctx)
		if err != nil {
			if adapter.IsTransient(err) {
				return retry.RetryableError(err)
			}
			return err
		}
		response = status
		return nil
	})
	if err != nil {
		return models.StatusResponse{}, fmt.Errorf("fetch sync status: %w", mapAdapterError(err))
	}

	return response, nil
}

func (s *clientSyncService) DeadLetters(ctx context.Context) ([]models.PendingEvent, error) {
	return s.events.DeadLetters(ctx)
}
