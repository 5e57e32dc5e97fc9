package config

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXPoolConfig creates a pgxpool.Config for the given DSN with the configured pool settings.
func (d Database) PGXPoolConfig(dsn string) (*pgxpool.Config, error) {
	dbConfig, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create a pgx pool config: %w", err)
	}

	dbConfig.MaxConns = int32(d.MaxConns)
	dbConfig.MinConns = int32(d.MinConns)
	dbConfig.MaxConnLifetime = d.MaxConnLifetime
	dbConfig.MaxConnIdleTime = d.MaxConnIdleTime
	dbConfig.ConnConfig.ConnectTimeout = d.ConnectTimeout

	return dbConfig, nil
}

// OpenPGXPool creates a pgx pool for the primary DSN and pings it.
func (d Database) OpenPGXPool(ctx context.Context) (*pgxpool.Pool, error) {
	return d.openPGXPool(ctx, d.DSN)
}

// OpenPGXReplicaPool creates a pgx pool for the replica DSN, nil when no replica is configured.
func (d Database) OpenPGXReplicaPool(ctx context.Context) (*pgxpool.Pool, error) {
	if d.ReplicaDSN == "" {
		return nil, nil
	}

	return d.openPGXPool(ctx, d.ReplicaDSN)
}

func (d Database) openPGXPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	dbConfig, err := d.PGXPoolConfig(dsn)
	if err != nil {
		return nil, err
	}

	pool, err := pgxpool.NewWithConfig(ctx, dbConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open pgx pool: %w", err)
	}

	if pingErr := pool.Ping(ctx); pingErr != nil {
		pool.Close()

		return nil, fmt.Errorf("failed to ping database: %w", pingErr)
	}

	return pool, nil
}
