// Package postgreswrapper provides test utilities for abstracting over the supported PostgreSQL database adapters.
//
// The same integration suite runs against pgx.Pool, sql.DB and sqlx.DB. The adapter is chosen by the
// ADAPTER_TYPE environment variable (pgx.pool, sql.db or sqlx.db, default pgx.pool), the database by
// MOVIERENTAL_TEST_DSN. Tests are skipped when the database is unreachable.
//
// Usage:
//
//	wrapper := postgreswrapper.CreateWrapperWithTestConfig(t)
//	defer wrapper.Close()
//
//	postgreswrapper.CleanUp(t, wrapper)
//	store := wrapper.GetStore()
package postgreswrapper
