// Package memengine provides an in-memory implementation of rental.Store.
//
// It backs the unit tests of the ledger, the catalogs and the reports, and serves short-lived
// demo sessions of the command line tool. Nothing is persisted.
package memengine
