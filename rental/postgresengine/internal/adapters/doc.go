// Package adapters provide database adapter implementations for the PostgreSQL rental store.
//
// This package implements the adapter pattern to support multiple PostgreSQL database libraries:
// pgx.Pool, sql.DB, and sqlx.DB. All adapters provide equivalent functionality through
// a common DBAdapter interface, so the storage layer works with any supported connection type.
//
// Rows are exposed column-first: the column names once, then the raw values of each row
// as the driver decoded them.
package adapters
