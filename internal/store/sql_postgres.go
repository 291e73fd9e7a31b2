package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-nest-keeper/internal/config"
	"github.com/MKhiriev/go-nest-keeper/internal/logger"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Pool sizing: push/pull are short statements, a handful of connections
// carries a whole family fleet.
const (
	pgMaxOpenConns = 10
	pgMaxIdleConns = 4
)

// NewConnectPostgres opens the authoritative store, verifies it with a ping
// and attaches the Postgres error classifier used by the ack policy.
func NewConnectPostgres(ctx context.Context, cfg config.DB, log *logger.Logger) (*DB, error) {
	conn, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error occured during database connection")
		return nil, fmt.Errorf("error occured during database connection: %w", err)
	}

	conn.SetMaxOpenConns(pgMaxOpenConns)
	conn.SetMaxIdleConns(pgMaxIdleConns)

	if err = conn.PingContext(ctx); err != nil {
		log.Err(err).Str("func", "NewConnectPostgres").Msg("error connecting database (ping)")
		return nil, err
	}
	log.Info().Str("func", "NewConnectPostgres").Msg("connected to database successfully")

	return &DB{
		DB:                 conn,
		logger:             log,
		errorClassificator: NewPostgresErrorClassifier(),
	}, nil
}

// Now returns the database server's current time. It backs the pull
// cursor, which must never be minted from the Go process clock: every
// record watermark comes from NOW() inside the database, and the two
// clocks are not the same.
func (db *DB) Now(ctx context.Context) (time.Time, error) {
	log := logger.FromContext(ctx)

	var now time.Time
	if err := db.QueryRowContext(ctx, selectServerClock).Scan(&now); err != nil {
		log.Err(err).Str("func", "DB.Now").Msg("failed to read server clock")
		return time.Time{}, fmt.Errorf("%w: %w", ErrExecutingStatement, err)
	}

	return now.UTC(), nil
}

// postgresError extracts the SQLSTATE code, or "" for non-Postgres errors.
func postgresError(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}

	return ""
}
