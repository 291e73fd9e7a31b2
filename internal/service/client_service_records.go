// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/MKhiriev/go-nest-keeper/internal/store"
	"github.com/MKhiriev/go-nest-keeper/internal/utils"
	"github.com/MKhiriev/go-nest-keeper/models"
)

type clientRecordService struct {
	records store.LocalRecordRepository
	events  store.PendingEventLog
	ids     *utils.UUIDGenerator
}

// NewClientRecordService creates the optimistic mutation path: local store
// plus event queue, one code path for every entity type.
func NewClientRecordService(records store.LocalRecordRepository, events store.PendingEventLog) ClientRecordService {
	return &clientRecordService{records: records, events: events, ids: utils.NewUUIDGenerator()}
}

func (s *clientRecordService) Create(ctx context.Context, entityType models.EntityType, payload json.RawMessage) (models.LocalRecord, error) {
	now := time.Now().UTC()
	record := models.LocalRecord{
		EntityType:  entityType,
		ID:          s.ids.Generate(),
		Payload:     payload,
		UpdatedAt:   now,
		PendingSync: true,
	}

	if err := s.records.Save(ctx, record); err != nil {
		return models.LocalRecord{}, fmt.Errorf("save created record to local store: %w", err)
	}
	if err := s.enqueue(ctx, models.OperationCreate, entityType, record.ID, payload, now); err != nil {
		return models.LocalRecord{}, err
	}

	return record, nil
}

func (s *clientRecordService) Update(ctx context.Context, entityType models.EntityType, id string, payload json.RawMessage) (models.LocalRecord, error) {
	record, err := s.records.Get(ctx, entityType, id)
	if err != nil {
		return models.LocalRecord{}, fmt.Errorf("load record for update %s: %w", id, err)
	}

	now := time.Now().UTC()
	record.Payload = payload
	record.UpdatedAt = now
	record.PendingSync = true
	record.Deleted = false

	if err = s.records.Save(ctx, record); err != nil {
		return models.LocalRecord{}, fmt.Errorf("save updated record to local store: %w", err)
	}
	if err = s.enqueue(ctx, models.OperationUpdate, entityType, id, payload, now); err != nil {
		return models.LocalRecord{}, err
	}

	return record, nil
}

func (s *clientRecordService) Delete(ctx context.Context, entityType models.EntityType, id string) error {
	if _, err := s.records.Get(ctx, entityType, id); err != nil {
		return fmt.Errorf("load record for delete %s: %w", id, err)
	}

	now := time.Now().UTC()
	if err := s.records.Delete(ctx, entityType, id, now); err != nil {
		return fmt.Errorf("tombstone record in local store: %w", err)
	}

	// deletes travel without a payload
	return s.enqueue(ctx, models.OperationDelete, entityType, id, nil, now)
}

func (s *clientRecordService) Get(ctx context.Context, entityType models.EntityType, id string) (models.LocalRecord, error) {
	return s.records.Get(ctx, entityType, id)
}

func (s *clientRecordService) List(ctx context.Context, entityType models.EntityType) ([]models.LocalRecord, error) {
	return s.records.List(ctx, entityType, false)
}

// enqueue appends one event to the durable queue. The queue assigns the
// sequence number; the event id is minted here so a replayed push of this
// very event dedups on the server.
func (s *clientRecordService) enqueue(ctx context.Context, operation models.Operation, entityType models.EntityType, targetID string, payload json.RawMessage, occurredAt time.Time) error {
	event := models.SyncEvent{
		ID:         s.ids.Generate(),
		EntityType: entityType,
		Operation:  operation,
		TargetID:   targetID,
		Payload:    payload,
		OccurredAt: occurredAt,
	}
	if err := s.events.Enqueue(ctx, event); err != nil {
		return fmt.Errorf("enqueue %s event for %s: %w", operation, targetID, err)
	}
	return nil
}
