// Package warehouse provides read-only access to the Postgres data warehouse
// (dbt marts schema) backing the analytical API.
//
// This package contains:
//   - DB: connection pool wrapper and parameterized query executor
//   - Typed analytical queries over fct_messages, fct_image_detections and dim_channels
//   - The dynamic search-filter composer and the closed trend-metric expression map
//
// The service never writes; schema and ETL are owned by the upstream pipeline.
package warehouse

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	errs "github.com/karasolutions/telegram-medical-analytics/internal/core/errors"
	"github.com/karasolutions/telegram-medical-analytics/internal/observability"
)

const (
	defaultMaxConns          = int32(10)
	defaultMinConns          = int32(2)
	defaultMaxConnIdleTime   = 5 * time.Minute
	defaultMaxConnLifetime   = time.Hour
	defaultHealthCheckPeriod = time.Minute

	maxConnectionRetries = 5
	connectionRetrySleep = 2 * time.Second
)

// DB wraps a PostgreSQL connection pool and provides the analytical
// query methods used by the engine.
type DB struct {
	Pool   *pgxpool.Pool
	logger *zerolog.Logger

	messagesTable   string
	detectionsTable string
	channelsTable   string
}

// PoolOptions configures the warehouse connection pool.
type PoolOptions struct {
	MaxConns          int32
	MinConns          int32
	MaxConnIdleTime   time.Duration
	MaxConnLifetime   time.Duration
	HealthCheckPeriod time.Duration
}

// DefaultPoolOptions returns sensible default pool configuration.
func DefaultPoolOptions() PoolOptions {
	return PoolOptions{
		MaxConns:          defaultMaxConns,
		MinConns:          defaultMinConns,
		MaxConnIdleTime:   defaultMaxConnIdleTime,
		MaxConnLifetime:   defaultMaxConnLifetime,
		HealthCheckPeriod: defaultHealthCheckPeriod,
	}
}

// New creates a new warehouse connection with default pool options.
func New(ctx context.Context, dsn, schema string, logger *zerolog.Logger) (*DB, error) {
	return NewWithOptions(ctx, dsn, schema, DefaultPoolOptions(), logger)
}

// NewWithOptions creates a new warehouse connection with custom pool options.
func NewWithOptions(ctx context.Context, dsn, schema string, opts PoolOptions, logger *zerolog.Logger) (*DB, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse warehouse config: %w", err)
	}

	applyPoolOptions(config, opts)

	pool, err := connectWithRetries(ctx, config)
	if err != nil {
		return nil, err
	}

	return &DB{
		Pool:            pool,
		logger:          logger,
		messagesTable:   pgx.Identifier{schema, "fct_messages"}.Sanitize(),
		detectionsTable: pgx.Identifier{schema, "fct_image_detections"}.Sanitize(),
		channelsTable:   pgx.Identifier{schema, "dim_channels"}.Sanitize(),
	}, nil
}

// applyPoolOptions applies non-zero pool options to the config.
func applyPoolOptions(config *pgxpool.Config, opts PoolOptions) {
	if opts.MaxConns > 0 {
		config.MaxConns = opts.MaxConns
	}

	if opts.MinConns > 0 {
		config.MinConns = opts.MinConns
	}

	if opts.MaxConnIdleTime > 0 {
		config.MaxConnIdleTime = opts.MaxConnIdleTime
	}

	if opts.MaxConnLifetime > 0 {
		config.MaxConnLifetime = opts.MaxConnLifetime
	}

	if opts.HealthCheckPeriod > 0 {
		config.HealthCheckPeriod = opts.HealthCheckPeriod
	}
}

// connectWithRetries attempts to connect to the warehouse with retries.
func connectWithRetries(ctx context.Context, config *pgxpool.Config) (*pgxpool.Pool, error) {
	var pool *pgxpool.Pool

	var err error

	for i := 0; i < maxConnectionRetries; i++ {
		pool, err = pgxpool.NewWithConfig(ctx, config)
		if err == nil {
			if err = pool.Ping(ctx); err == nil {
				return pool, nil
			}
		}

		if pool != nil {
			pool.Close()
		}

		time.Sleep(connectionRetrySleep)
	}

	return nil, fmt.Errorf("failed to connect to warehouse after retries: %w", err)
}

// Close closes the warehouse connection pool.
func (db *DB) Close() {
	db.Pool.Close()
}

// Ping verifies the warehouse is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.Pool.Ping(ctx)
}

// query runs one parameterized analytical query and records its outcome.
// Callers own the returned rows and must report scan/iteration failures
// through failQuery so they are logged with the query text.
func (db *DB) query(ctx context.Context, op, sql string, args ...any) (pgx.Rows, error) {
	start := time.Now()

	rows, err := db.Pool.Query(ctx, sql, args...)

	observability.WarehouseQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, db.failQuery(op, sql, args, err)
	}

	observability.WarehouseQueries.WithLabelValues(op, "ok").Inc()

	return rows, nil
}

// queryRow runs one single-row query with the same timing and status
// accounting as query. A pgx.ErrNoRows outcome is returned untouched so
// callers can map it onto a domain error.
func (db *DB) queryRow(ctx context.Context, op, sql string, args []any, dest ...any) error {
	start := time.Now()

	err := db.Pool.QueryRow(ctx, sql, args...).Scan(dest...)

	observability.WarehouseQueryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return err
		}

		return db.failQuery(op, sql, args, err)
	}

	observability.WarehouseQueries.WithLabelValues(op, "ok").Inc()

	return nil
}

// failQuery logs a failing query with its parameters and wraps the error
// into the execution-error taxonomy. The query text never reaches callers.
func (db *DB) failQuery(op, query string, args []any, err error) error {
	observability.WarehouseQueries.WithLabelValues(op, "error").Inc()

	db.logger.Error().
		Err(err).
		Str("operation", op).
		Str("query", query).
		Interface("params", args).
		Msg("warehouse query failed")

	return fmt.Errorf("%s: %w: %v", op, errs.ErrQueryExecution, err)
}
