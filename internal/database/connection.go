// Package database provides the PostgreSQL connection and schema
// migrations for the feedback store.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/sirupsen/logrus"
)

// Config holds database connection pool configuration
type Config struct {
	URL         string
	MaxConns    int
	MinConns    int
	MaxConnLife time.Duration
}

// DB wraps the sql.DB pool with additional functionality
type DB struct {
	Pool *sql.DB
	log  *logrus.Logger
}

// NewConnection creates a new database connection pool
func NewConnection(ctx context.Context, config Config, logger *logrus.Logger) (*DB, error) {
	pool, err := sql.Open("postgres", config.URL)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Configure connection pool settings
	pool.SetMaxOpenConns(config.MaxConns)
	pool.SetMaxIdleConns(config.MinConns)
	pool.SetConnMaxLifetime(config.MaxConnLife)

	// Test the connection
	if err := pool.PingContext(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	logger.WithFields(logrus.Fields{
		"max_conns": config.MaxConns,
		"min_conns": config.MinConns,
	}).Info("Database connection pool established")

	return &DB{
		Pool: pool,
		log:  logger,
	}, nil
}

// Close closes the database connection pool
func (db *DB) Close() {
	if db.Pool != nil {
		db.Pool.Close()
		db.log.Info("Database connection pool closed")
	}
}

// Health checks the database connection health
func (db *DB) Health(ctx context.Context) error {
	return db.Pool.PingContext(ctx)
}

// Stats returns connection pool statistics
func (db *DB) Stats() sql.DBStats {
	return db.Pool.Stats()
}
