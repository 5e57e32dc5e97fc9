// Package postgresengine provides a PostgreSQL implementation of rental.Store.
//
// The store supports three connection types through internal adapters: pgx.Pool (with an optional
// read replica), sql.DB and sqlx.DB, both with lib/pq. Statements are built with goqu and sent as
// prepared statements.
//
// Issuing is a single conditional INSERT ... SELECT guarded by NOT EXISTS and backed by a partial
// unique index on open rentals per movie. Returning updates only rows whose return date is unset.
// Deletes remove a row only while it has no open rental. Identifier collisions surface as
// rental.ErrConcurrencyConflict and are retried by the caller.
//
// ApplySchema creates the customer, movies, producers and issuetran tables if they do not exist.
package postgresengine
