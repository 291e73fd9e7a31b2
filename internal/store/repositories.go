package store

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/MKhiriev/go-nest-keeper/models"
	"github.com/redis/go-redis/v9"
)

// Repositories groups all server-side storage components into a single value
// that is passed to the service layer.
type Repositories struct {
	// Records maps every replicated entity type to its repository.
	// The push path resolves each event's repository here; an entity type
	// missing from the map is acknowledged as unknown.
	Records map[models.EntityType]RecordRepository

	// DeviceStates tracks per-device push times and pull cursors.
	DeviceStates DeviceStateRepository

	// Dedup is the processed-event ledger backing idempotent push replays.
	Dedup DedupLedger

	// Sessions holds device refresh sessions.
	Sessions SessionStore

	// Classifier decides whether a failed database operation is worth a
	// retryable acknowledgement.
	Classifier ErrorClassificator

	// Clock reads the database server's time for pull cursor minting.
	Clock DatabaseClock

	db    *DB
	redis *redis.Client
}

// NewRepositories initialises the server storage layer. It performs the
// following steps:
//  1. Opens the PostgreSQL connection and runs pending schema migrations.
//  2. Builds one [RecordRepository] per registered entity type.
//  3. Connects redis for the dedup ledger and session store when a URL is
//     configured; otherwise falls back to the in-process implementations
//     (single-node development mode).
//
// Returns an error if a backend cannot be reached or migration fails.
func NewRepositories(ctx context.Context, cfg *config.StructuredConfig, logger *logger.Logger) (*Repositories, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnectPostgres(ctx, cfg.Storage.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("postgres connection error: %w", err)
	}

	if err := db.Migrate(); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	records := make(map[models.EntityType]RecordRepository, len(entityTables))
	for entityType := range entityTables {
		repo, repoErr := NewRecordRepository(db, entityType, logger)
		if repoErr != nil {
			return nil, fmt.Errorf("record repository init failed: %w", repoErr)
		}
		records[entityType] = repo
	}

	repos := &Repositories{
		Records:      records,
		DeviceStates: NewDeviceStateRepository(db, logger),
		Classifier:   db.errorClassificator,
		Clock:        db,
		db:           db,
	}

	if cfg.Storage.Redis.URL != "" {
		redisClient, redisErr := NewRedisClient(ctx, cfg.Storage.Redis, logger)
		if redisErr != nil {
			return nil, fmt.Errorf("redis connection error: %w", redisErr)
		}
		repos.redis = redisClient
		repos.Dedup = NewRedisDedupLedger(redisClient, cfg.Sync.DedupWindow, logger)
		repos.Sessions = NewRedisSessionStore(redisClient, logger)
	} else {
		logger.Warn().Msg("redis is not configured, using in-process dedup ledger and session store")
		repos.Dedup = NewMemoryDedupLedger(cfg.Sync.DedupWindow)
		repos.Sessions = NewMemorySessionStore()
	}

	return repos, nil
}

// Close releases the database and redis connections.
func (r *Repositories) Close() error {
	var firstErr error

	if r.db != nil {
		if err := r.db.Close(); err != nil {
			firstErr = err
		}
	}

	if r.redis != nil {
		if err := r.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	return firstErr
}
