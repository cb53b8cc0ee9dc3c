// Package db opens the Postgres database that backs shared preferences
package db

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/slhn-import/internal/config"
)

// Connection holds the database connection
type Connection struct {
	DB *sql.DB
}

// DSN returns databaseURL when set, otherwise a key/value DSN assembled from
// the libpq environment variables
func DSN(databaseURL string) string {
	if databaseURL != "" {
		return databaseURL
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		config.GetEnv("PGHOST", "localhost"),
		config.GetEnv("PGPORT", "5432"),
		config.GetEnv("PGUSER", "slhn"),
		config.GetEnv("PGPASSWORD", ""),
		config.GetEnv("PGDATABASE", "slhn_import"),
		config.GetEnv("PGSSLMODE", "disable"))
}

// NewConnection opens and pings a Postgres connection
func NewConnection(ctx context.Context, databaseURL string) (*Connection, error) {
	db, err := sql.Open("postgres", DSN(databaseURL))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Preferences are tiny and rarely written
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)

	return &Connection{DB: db}, nil
}

// Close closes the database connection
func (c *Connection) Close() error {
	return c.DB.Close()
}
