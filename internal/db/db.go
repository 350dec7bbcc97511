// Package db provides PostgreSQL storage for accounts, saved resumes,
// generation history and uploaded job descriptions.
package db

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/resume-builder/internal/retry"
)

//go:embed schema.sql
var schemaSQL string

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// ConnectOptions controls how Connect waits for the database.
type ConnectOptions struct {
	Retry retry.Options
}

// DefaultConnectOptions retries the initial ping with the default backoff.
func DefaultConnectOptions() ConnectOptions {
	opts := retry.DefaultOptions()
	opts.Label = "db"
	return ConnectOptions{Retry: opts}
}

// Connect establishes a connection pool and pings it, retrying while the
// database comes up.
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	return ConnectWithOptions(ctx, databaseURL, DefaultConnectOptions())
}

// ConnectWithOptions is Connect with explicit retry settings.
func ConnectWithOptions(ctx context.Context, databaseURL string, opts ConnectOptions) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	_, err = retry.Do(ctx, func(ctx context.Context) (struct{}, error) {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return struct{}{}, pool.Ping(pingCtx)
	}, opts.Retry)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping checks that the database is reachable.
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

// Migrate applies the embedded schema. Every statement is idempotent.
func (db *DB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Schema returns the embedded DDL.
func Schema() string {
	return schemaSQL
}
