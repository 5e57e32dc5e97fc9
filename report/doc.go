// Package report aggregates movie, customer and rental statistics and writes them as XLSX workbooks or JSON.
//
// Aggregates are computed from the same query surface the ledger and the catalogs expose, so
// pending late fees and days overdue follow rental.Assess. Reports are read-only.
package report
