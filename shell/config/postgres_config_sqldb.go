package config

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // postgres driver
)

// OpenSQLDB creates a configured *sql.DB backed by lib/pq and pings it.
func (d Database) OpenSQLDB(ctx context.Context) (*sql.DB, error) {
	db, err := sql.Open("postgres", d.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(d.MaxConns)
	db.SetMaxIdleConns(d.MinConns)
	db.SetConnMaxLifetime(d.MaxConnLifetime)
	db.SetConnMaxIdleTime(d.MaxConnIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, d.ConnectTimeout)
	defer cancel()

	if pingErr := db.PingContext(pingCtx); pingErr != nil {
		_ = db.Close()

		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	return db, nil
}
