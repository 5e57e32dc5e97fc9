// Package helper provides testing utilities for the movierental test suites.
//
// TestLogHandler captures slog records so tests can assert on the operational log output
// of the ledger, the catalogs and the PostgreSQL store.
package helper
