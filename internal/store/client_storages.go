package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
)

// ClientStorages groups all agent-side storage repositories into a single
// value that can be passed around the service layer: the pending event log,
// the local record replica and the sync state row.
type ClientStorages struct {
	// Events is the durable outbound queue of unsent mutations.
	Events PendingEventLog

	// Records is the device's replica of the family's records.
	Records LocalRecordRepository

	// SyncState holds the pull cursor and full sync bookkeeping.
	SyncState SyncStateRepository

	db *DB
}

// NewClientStorages initialises the agent storage layer using the supplied
// configuration and logger. It performs the following steps:
//  1. Opens an SQLite connection to the file path specified in cfg.DBPath,
//     creating the database file if it does not yet exist.
//  2. Ensures the local schema is in place.
//  3. Constructs and returns a [ClientStorages] value wired to fresh
//     repositories sharing the connection.
//
// Returns an error if the database connection cannot be established or if
// the schema cannot be created.
func NewClientStorages(cfg config.AgentStorage, logger *logger.Logger) (*ClientStorages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectSQLite(context.Background(), cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("sqlite connection error: %w", err)
	}

	return &ClientStorages{
		Events:    NewEventLogRepository(db, logger),
		Records:   NewLocalRecordRepository(db, logger),
		SyncState: NewSyncStateRepository(db, logger),
		db:        db,
	}, nil
}

// Close releases the underlying database connection.
func (c *ClientStorages) Close() error {
	return c.db.Close()
}
