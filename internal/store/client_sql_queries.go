// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

// clientSchema is the agent's local database layout.
//
// records mirrors the server state plus replication flags the UI reads
// (pending_sync, synced_at). pending_events is the durable outbound queue;
// seq comes from the counter in sync_state so per-device event order stays
// monotonic even after the queue drains. sync_state is a single-row table
// holding the pull cursor and the seq counter.
const clientSchema = `
	CREATE TABLE IF NOT EXISTS records (
		entity_type  TEXT      NOT NULL,
		id           TEXT      NOT NULL,
		payload      TEXT,
		updated_at   TIMESTAMP NOT NULL,
		pending_sync INTEGER   NOT NULL DEFAULT 0,
		synced_at    TIMESTAMP,
		deleted      INTEGER   NOT NULL DEFAULT 0,
		PRIMARY KEY (entity_type, id)
	);

	CREATE TABLE IF NOT EXISTS pending_events (
		event_id        TEXT      PRIMARY KEY,
		entity_type     TEXT      NOT NULL,
		operation       TEXT      NOT NULL,
		target_id       TEXT      NOT NULL,
		payload         TEXT,
		occurred_at     TIMESTAMP NOT NULL,
		seq             INTEGER   NOT NULL,
		created_at      TIMESTAMP NOT NULL,
		attempt_count   INTEGER   NOT NULL DEFAULT 0,
		next_attempt_at TIMESTAMP,
		dead            INTEGER   NOT NULL DEFAULT 0
	);

	CREATE INDEX IF NOT EXISTS idx_pending_events_ready
		ON pending_events (dead, next_attempt_at, seq);

	CREATE TABLE IF NOT EXISTS sync_state (
		id                INTEGER PRIMARY KEY CHECK (id = 1),
		last_cursor       TEXT      NOT NULL DEFAULT '',
		last_full_sync_at TIMESTAMP,
		next_seq          INTEGER   NOT NULL DEFAULT 1
	);

	INSERT OR IGNORE INTO sync_state (id) VALUES (1);`

const (
	enqueueEvent = `
		INSERT OR IGNORE INTO pending_events (
			event_id,
			entity_type,
			operation,
			target_id,
			payload,
			occurred_at,
			seq,
			created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?);`

	selectNextSeq = `
		SELECT next_seq
		FROM sync_state
		WHERE id = 1;`

	bumpNextSeq = `
		UPDATE sync_state
		SET next_seq = next_seq + 1
		WHERE id = 1;`

	listReadyEvents = `
		SELECT
			event_id,
			entity_type,
			operation,
			target_id,
			payload,
			occurred_at,
			seq,
			created_at,
			attempt_count,
			next_attempt_at,
			dead
		FROM pending_events
		WHERE dead = 0
		  AND (next_attempt_at IS NULL OR next_attempt_at <= ?)
		ORDER BY seq ASC
		LIMIT ?;`

	removeEvent = `
		DELETE FROM pending_events
		WHERE event_id = ?;`

	incrementEventAttempt = `
		UPDATE pending_events SET
			attempt_count   = attempt_count + 1,
			next_attempt_at = ?
		WHERE event_id = ?;`

	markEventDead = `
		UPDATE pending_events SET
			dead            = 1,
			next_attempt_at = NULL
		WHERE event_id = ?;`

	countEventsForTarget = `
		SELECT COUNT(*)
		FROM pending_events
		WHERE entity_type = ? AND target_id = ? AND dead = 0;`

	listDeadEvents = `
		SELECT
			event_id,
			entity_type,
			operation,
			target_id,
			payload,
			occurred_at,
			seq,
			created_at,
			attempt_count,
			next_attempt_at,
			dead
		FROM pending_events
		WHERE dead = 1
		ORDER BY seq ASC;`
)

const (
	saveLocalRecord = `
		INSERT INTO records (entity_type, id, payload, updated_at, pending_sync, deleted)
		VALUES (?, ?, ?, ?, 1, ?)
		ON CONFLICT (entity_type, id) DO UPDATE SET
			payload      = excluded.payload,
			updated_at   = excluded.updated_at,
			pending_sync = 1,
			deleted      = excluded.deleted;`

	applyRemoteRecord = `
		INSERT INTO records (entity_type, id, payload, updated_at, pending_sync, synced_at, deleted)
		VALUES (?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT (entity_type, id) DO UPDATE SET
			payload      = excluded.payload,
			updated_at   = excluded.updated_at,
			pending_sync = 0,
			synced_at    = excluded.synced_at,
			deleted      = excluded.deleted
		WHERE records.pending_sync = 0
		   OR records.updated_at <= excluded.updated_at;`

	getLocalRecord = `
		SELECT
			entity_type,
			id,
			payload,
			updated_at,
			pending_sync,
			synced_at,
			deleted
		FROM records
		WHERE entity_type = ? AND id = ?;`

	listLocalRecords = `
		SELECT
			entity_type,
			id,
			payload,
			updated_at,
			pending_sync,
			synced_at,
			deleted
		FROM records
		WHERE entity_type = ? AND deleted = 0
		ORDER BY updated_at DESC;`

	listLocalRecordsWithDeleted = `
		SELECT
			entity_type,
			id,
			payload,
			updated_at,
			pending_sync,
			synced_at,
			deleted
		FROM records
		WHERE entity_type = ?
		ORDER BY updated_at DESC;`

	markRecordSynced = `
		UPDATE records SET
			pending_sync = 0,
			synced_at    = ?
		WHERE entity_type = ? AND id = ? AND updated_at = ?;`

	deleteLocalRecord = `
		UPDATE records SET
			deleted      = 1,
			updated_at   = ?,
			pending_sync = 1
		WHERE entity_type = ? AND id = ?;`
)

const (
	getSyncCursor = `
		SELECT last_cursor
		FROM sync_state
		WHERE id = 1;`

	setSyncCursor = `
		UPDATE sync_state
		SET last_cursor = ?
		WHERE id = 1;`

	getLastFullSyncAt = `
		SELECT last_full_sync_at
		FROM sync_state
		WHERE id = 1;`

	setLastFullSyncAt = `
		UPDATE sync_state
		SET last_full_sync_at = ?
		WHERE id = 1;`
)
