// Package config loads the movierental runtime configuration and opens database connections.
//
// Values come from environment variables. If MOVIERENTAL_CONFIG names a YAML, TOML, JSON or .env file,
// that file is read first and environment variables override it.
//
// One factory exists per supported PostgreSQL driver: pgx.Pool, sql.DB with lib/pq, and sqlx.DB with lib/pq.
package config
