package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/AntonStoeckl/movierental-go/rental"
	"github.com/AntonStoeckl/movierental-go/rental/postgresengine"
	"github.com/AntonStoeckl/movierental-go/report"
	"github.com/AntonStoeckl/movierental-go/shell/config"
)

// errSchemaUnsupported is returned by "schema apply" when the store has no schema to manage.
var errSchemaUnsupported = errors.New("the configured store does not manage a schema")

type schemaStore interface {
	ApplySchema(ctx context.Context, producers ...rental.Producer) error
}

// app bundles the services a command runs against.
type app struct {
	ledger     rental.Ledger
	customers  rental.Customers
	movies     rental.Movies
	producers  rental.Producers
	reports    report.Generator
	schema     schemaStore
	reportsDir string
	close      func()
}

type openOptions struct {
	clock  rental.Clock
	logOut io.Writer
}

// opener creates the app for one command invocation.
type opener func(ctx context.Context, options openOptions) (*app, error)

func openFromConfig(ctx context.Context, options openOptions) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := newLogger(cfg.Log, options.logOut)
	if err != nil {
		return nil, err
	}

	store, closeStore, err := cfg.Database.OpenStore(ctx, postgresengine.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}

	a, err := newApp(store, store, logger, options.clock, cfg.Retry, cfg.Reports.Dir)
	if err != nil {
		closeStore()
		return nil, err
	}

	a.close = closeStore

	return a, nil
}

// newApp wires the ledger, the catalogs and the report generator on top of store.
// schema may be nil.
func newApp(
	store rental.Store,
	schema schemaStore,
	logger *slog.Logger,
	clock rental.Clock,
	retry config.Retry,
	reportsDir string,
) (*app, error) {

	options := []rental.Option{
		rental.WithLogger(logger),
		rental.WithClock(clock),
		rental.WithRetry(rental.WithMaxAttempts(retry.MaxAttempts), rental.WithBaseDelay(retry.BaseDelay)),
	}

	ledger, err := rental.NewLedger(store, options...)
	if err != nil {
		return nil, err
	}

	customers, err := rental.NewCustomers(store, options...)
	if err != nil {
		return nil, err
	}

	movies, err := rental.NewMovies(store, options...)
	if err != nil {
		return nil, err
	}

	producers, err := rental.NewProducers(store)
	if err != nil {
		return nil, err
	}

	reports, err := report.NewGenerator(ledger, movies, customers, nil)
	if err != nil {
		return nil, err
	}

	return &app{
		ledger:     ledger,
		customers:  customers,
		movies:     movies,
		producers:  producers,
		reports:    reports,
		schema:     schema,
		reportsDir: reportsDir,
	}, nil
}

func newLogger(cfg config.Log, out io.Writer) (*slog.Logger, error) {
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}

	handlerOptions := &slog.HandlerOptions{Level: level}

	if cfg.Format == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(out, handlerOptions)), nil
	}

	return slog.New(slog.NewTextHandler(out, handlerOptions)), nil
}

func (a *app) shutdown() {
	if a != nil && a.close != nil {
		a.close()
	}
}
