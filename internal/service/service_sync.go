package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/internal/store"
	"github.com/MKhiriev/go-nest-keeper/internal/validators"
	"github.com/MKhiriev/go-nest-keeper/models"
)

const (
	defaultPullLimit = 500

	// pullCursorLag is the grace window subtracted from the database
	// clock before it becomes a cursor. A push transaction stamps NOW()
	// at statement time but its row is invisible until commit; a cursor
	// past that stamp would skip the row forever. Re-serving the window
	// is harmless, local apply is idempotent.
	pullCursorLag = 2 * time.Second
)

// syncService is the concrete implementation of SyncService.
// It applies pushed events against the per-entity record repositories under
// last-write-wins, seals every terminal verdict in the dedup ledger so
// replayed batches answer identically, and serves cursor-based pulls merged
// across all entity types.
type syncService struct {
	// records maps every replicated entity type to its repository.
	records map[models.EntityType]store.RecordRepository

	// deviceStates keeps per-device push times and pull cursors.
	deviceStates store.DeviceStateRepository

	// dedup remembers terminal acknowledgements for the dedup window.
	dedup store.DedupLedger

	// classifier separates transient apply failures (acked retryable)
	// from permanent ones (acked rejected).
	classifier store.ErrorClassificator

	// validator checks the structure of individual events.
	validator validators.Validator

	// clock is the database server's clock, the only clock record
	// watermarks and pull cursors are allowed to come from.
	clock store.DatabaseClock

	// pullLimit caps the number of record changes served per pull.
	pullLimit uint64

	logger *logger.Logger
}

// NewSyncService wires the sync core to the server storage layer.
func NewSyncService(repositories *store.Repositories, cfg config.Sync, logger *logger.Logger) SyncService {
	pullLimit := cfg.PullLimit
	if pullLimit <= 0 {
		pullLimit = defaultPullLimit
	}

	return &syncService{
		records:      repositories.Records,
		deviceStates: repositories.DeviceStates,
		dedup:        repositories.Dedup,
		classifier:   repositories.Classifier,
		validator:    validators.NewSyncEventValidator(),
		clock:        repositories.Clock,
		pullLimit:    uint64(pullLimit),
		logger:       logger,
	}
}

// Push implements SyncService.
//
// The batch is not atomic: every event is applied and acknowledged on its
// own, and the acks are returned in request order. Same-target events are
// applied in the order the device created them, (occurred_at, seq), no
// matter how the batch was shuffled in transit.
//
// ctx cancellation is checked before each event; a cancelled push returns an
// error and the client resubmits the whole batch, which the dedup ledger
// makes harmless.
func (s *syncService) Push(ctx context.Context, userID, familyID int64, deviceID string, request models.PushRequest) (models.PushResponse, error) {
	events := request.Events
	acks := make([]models.EventAck, len(events))

	// Sort indexes instead of events: apply order is (occurred_at, seq),
	// ack order is request order.
	order := make([]int, len(events))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ea, eb := events[order[a]], events[order[b]]
		if !ea.OccurredAt.Equal(eb.OccurredAt) {
			return ea.OccurredAt.Before(eb.OccurredAt)
		}
		return ea.Seq < eb.Seq
	})

	for _, idx := range order {
		if err := ctx.Err(); err != nil {
			return models.PushResponse{}, fmt.Errorf("push aborted: %w", err)
		}
		acks[idx] = s.applyEvent(ctx, familyID, events[idx])
	}

	state := models.DeviceSyncState{DeviceID: deviceID, FamilyID: familyID, UserID: userID}
	if err := s.deviceStates.StampPush(ctx, state, time.Now().UTC()); err != nil {
		// bookkeeping only; the events are already applied and acked
		logger.FromContext(ctx).Warn().Err(err).
			Str("device_id", deviceID).
			Msg("failed to stamp push time")
	}

	return models.PushResponse{Acks: acks}, nil
}

// applyEvent produces the acknowledgement for a single event.
//
// The dedup ledger is consulted first: an event id seen within the window
// returns its recorded verdict without touching the record again. Terminal
// verdicts (applied, stale, rejected) are sealed back into the ledger;
// retryable ones are not, so the client's next attempt re-executes.
func (s *syncService) applyEvent(ctx context.Context, familyID int64, event models.SyncEvent) models.EventAck {
	log := logger.FromContext(ctx)

	if event.ID != "" {
		recorded, seen, err := s.dedup.Lookup(ctx, event.ID)
		if err != nil {
			// degraded mode: apply anyway, last-write-wins keeps a
			// double apply harmless
			log.Warn().Err(err).
				Str("event_id", event.ID).
				Msg("dedup lookup failed, applying without replay protection")
		} else if seen {
			log.Debug().
				Str("event_id", event.ID).
				Str("status", string(recorded.Status)).
				Msg("event replayed within dedup window, returning recorded ack")
			return recorded
		}
	}

	if err := s.validator.Validate(ctx, event); err != nil {
		log.Debug().Err(err).
			Str("event_id", event.ID).
			Str("entity_type", string(event.EntityType)).
			Msg("event failed validation")
		return s.seal(ctx, models.EventAck{EventID: event.ID, Status: models.AckRejected, Reason: models.ReasonInvalidEvent})
	}

	repository, ok := s.records[event.EntityType]
	if !ok {
		log.Debug().
			Str("event_id", event.ID).
			Str("entity_type", string(event.EntityType)).
			Msg("event targets an unknown entity type")
		return s.seal(ctx, models.EventAck{EventID: event.ID, Status: models.AckRejected, Reason: models.ReasonUnknownEntity})
	}

	record := models.Record{
		ID:         event.TargetID,
		EntityType: event.EntityType,
		FamilyID:   familyID,
		Payload:    event.Payload,
		UpdatedAt:  event.OccurredAt,
		Deleted:    event.Operation == models.OperationDelete,
	}

	err := repository.ApplyChange(ctx, event.Operation, record)
	switch {
	case err == nil:
		return s.seal(ctx, models.EventAck{EventID: event.ID, Status: models.AckApplied})

	case errors.Is(err, store.ErrStaleWrite):
		return s.seal(ctx, models.EventAck{EventID: event.ID, Status: models.AckStale})

	case errors.Is(err, store.ErrRecordNotFound):
		return s.seal(ctx, models.EventAck{EventID: event.ID, Status: models.AckRejected, Reason: models.ReasonNotFound})

	case errors.Is(err, store.ErrFamilyMismatch):
		return s.seal(ctx, models.EventAck{EventID: event.ID, Status: models.AckRejected, Reason: models.ReasonForbidden})

	case s.classifier.Classify(err) == store.Retryable:
		log.Warn().Err(err).
			Str("event_id", event.ID).
			Str("entity_type", string(event.EntityType)).
			Msg("transient failure applying event")
		return models.EventAck{EventID: event.ID, Status: models.AckRetryable, Reason: models.ReasonInternal}

	default:
		log.Err(err).
			Str("event_id", event.ID).
			Str("entity_type", string(event.EntityType)).
			Msg("failed to apply event")
		return s.seal(ctx, models.EventAck{EventID: event.ID, Status: models.AckRejected, Reason: models.ReasonInternal})
	}
}

// seal records a terminal acknowledgement in the dedup ledger and returns it.
// Events without an id cannot be keyed and are returned unrecorded; their
// verdict is deterministic anyway.
func (s *syncService) seal(ctx context.Context, ack models.EventAck) models.EventAck {
	if ack.EventID == "" {
		return ack
	}

	if err := s.dedup.Record(ctx, ack.EventID, ack); err != nil {
		logger.FromContext(ctx).Warn().Err(err).
			Str("event_id", ack.EventID).
			Msg("failed to record ack in dedup ledger")
	}

	return ack
}

// Pull implements SyncService.
//
// Changes are collected from every entity repository, merged into one
// server-time ordering and capped at the pull limit. Tombstones ride along
// so deletions propagate. The returned cursor is the watermark of the last
// served change, or the database clock minus a grace lag when nothing
// changed, so an idle device still converges its cursor. Record watermarks
// are stamped by the database, so the cursor is never minted from the
// process clock: skew between the two would let a cursor pass rows the
// device has not seen.
func (s *syncService) Pull(ctx context.Context, userID, familyID int64, deviceID, since string) (models.PullResponse, error) {
	log := logger.FromContext(ctx)

	watermark, err := decodeCursor(since)
	if err != nil {
		// A cursor the server cannot read is answered with a full
		// changeset instead of an error: local upserts are idempotent,
		// so the device replays history and recovers a usable cursor.
		log.Warn().Err(err).
			Str("device_id", deviceID).
			Str("since", since).
			Msg("unreadable pull cursor, serving full changeset")
		watermark = time.Time{}
	}

	changed := make([]models.Record, 0, s.pullLimit)
	for entityType, repository := range s.records {
		records, listErr := repository.ListChangedSince(ctx, familyID, watermark, s.pullLimit)
		if listErr != nil {
			return models.PullResponse{}, fmt.Errorf("failed to list %s changes: %w", entityType, listErr)
		}
		changed = append(changed, records...)
	}

	sort.Slice(changed, func(a, b int) bool {
		ra, rb := changed[a], changed[b]
		if !ra.ServerUpdatedAt.Equal(rb.ServerUpdatedAt) {
			return ra.ServerUpdatedAt.Before(rb.ServerUpdatedAt)
		}
		if ra.EntityType != rb.EntityType {
			return ra.EntityType < rb.EntityType
		}
		return ra.ID < rb.ID
	})

	if len(changed) > int(s.pullLimit) {
		cut := int(s.pullLimit)
		// never split records sharing one server timestamp across pages;
		// the next pull is strictly after the cursor and would skip them
		for cut < len(changed) && changed[cut].ServerUpdatedAt.Equal(changed[cut-1].ServerUpdatedAt) {
			cut++
		}
		changed = changed[:cut]
	}

	serverNow, err := s.clock.Now(ctx)
	if err != nil {
		return models.PullResponse{}, fmt.Errorf("failed to read server clock: %w", err)
	}

	// the cursor never outruns the database clock minus the grace lag,
	// and never moves behind the cursor the device already holds
	next := serverNow.Add(-pullCursorLag)
	if len(changed) > 0 && changed[len(changed)-1].ServerUpdatedAt.Before(next) {
		next = changed[len(changed)-1].ServerUpdatedAt
	}
	if next.Before(watermark) {
		next = watermark
	}

	response := models.PullResponse{
		Records: make([]models.RecordChange, 0, len(changed)),
		Cursor:  encodeCursor(next),
	}
	for _, record := range changed {
		response.Records = append(response.Records, models.RecordChange{
			EntityType: record.EntityType,
			ID:         record.ID,
			Payload:    record.Payload,
			UpdatedAt:  record.UpdatedAt,
			Deleted:    record.Deleted,
		})
	}

	state := models.DeviceSyncState{DeviceID: deviceID, FamilyID: familyID, UserID: userID}
	if err := s.deviceStates.StampCursor(ctx, state, response.Cursor); err != nil {
		// the client's own cursor is authoritative; the stamped copy
		// only feeds the status endpoint
		log.Warn().Err(err).
			Str("device_id", deviceID).
			Msg("failed to stamp pull cursor")
	}

	return response, nil
}

// Status implements SyncService. A device that has never pushed or pulled
// reports an empty state rather than an error.
func (s *syncService) Status(ctx context.Context, deviceID string) (models.StatusResponse, error) {
	state, err := s.deviceStates.GetState(ctx, deviceID)
	if err != nil {
		if errors.Is(err, store.ErrDeviceStateNotFound) {
			return models.StatusResponse{}, nil
		}
		return models.StatusResponse{}, fmt.Errorf("failed to load device sync state: %w", err)
	}

	return models.StatusResponse{
		LastPushAt:     state.LastPushAt,
		LastPullCursor: state.LastCursor,
	}, nil
}

// encodeCursor packs a server watermark into the opaque token clients echo
// back on their next pull. Clients never interpret it; the server never
// trusts device clocks.
func encodeCursor(watermark time.Time) string {
	return base64.RawURLEncoding.EncodeToString([]byte(watermark.UTC().Format(time.RFC3339Nano)))
}

// decodeCursor unpacks a token produced by encodeCursor. An empty cursor is
// the zero watermark: the device is pulling for the first time.
func decodeCursor(cursor string) (time.Time, error) {
	if cursor == "" {
		return time.Time{}, nil
	}

	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to decode cursor: %w", err)
	}

	watermark, err := time.Parse(time.RFC3339Nano, string(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse cursor watermark: %w", err)
	}

	return watermark, nil
}
