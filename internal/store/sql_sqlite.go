package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
)

func NewConnectSQLite(ctx context.Context, cfg config.AgentStorage, log *logger.Logger) (*DB, error) {
	// db lives in a file; tests open :memory: directly
	if !strings.Contains(cfg.DBPath, ":memory:") {
		if err := createLocalDBFileIfNotExists(cfg.DBPath); err != nil {
			log.Err(err).Str("func", "NewConnectSQLite").Msg("error creating database file")
			return nil, fmt.Errorf("error creating database file")
		}
	}

	conn, err := sql.Open("sqlite3", cfg.DBPath)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database")
		return nil, fmt.Errorf("error opening connection to DB")
	}

	// sqlite has a single writer; one pooled connection serializes access
	// and keeps :memory: databases on the same connection
	conn.SetMaxOpenConns(1)

	// ping database
	err = conn.PingContext(ctx)
	if err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Debug().Str("func", "NewConnectSQLite").Msg("connected to database successfully")

	// construct a DB struct
	db := &DB{
		DB:     conn,
		logger: log,
	}

	if err := db.ensureClientSchema(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectSQLite").Msg("error ensuring client schema")
		return nil, err
	}

	return db, nil
}

// ensureClientSchema creates the agent's local tables when they do not exist
// yet. The agent database is schema-managed in place rather than through the
// server's migration chain: there is exactly one writer and the schema is
// small enough to keep as a single idempotent script.
func (db *DB) ensureClientSchema(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, clientSchema); err != nil {
		return fmt.Errorf("error creating client schema: %w", err)
	}

	return nil
}

func createLocalDBFileIfNotExists(dbFile string) error {
	if _, err := os.Stat(dbFile); os.IsNotExist(err) {
		// if not found - create
		f, err := os.Create(dbFile)
		if err != nil {
			return fmt.Errorf("error creating DB file: %w", err)
		}
		f.Close()
	}

	// file already exists
	return nil
}
