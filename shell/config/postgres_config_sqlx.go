package config

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // postgres driver
)

// OpenSQLX creates a configured *sqlx.DB backed by lib/pq and pings it.
func (d Database) OpenSQLX(ctx context.Context) (*sqlx.DB, error) {
	db, err := sqlx.Open("postgres", d.DSN)
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
