package adapters

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGXAdapter runs statements on a pgxpool.Pool.
// With a replica configured, Query reads from the replica while Exec always goes to the primary.
type PGXAdapter struct {
	primary *pgxpool.Pool
	reads   *pgxpool.Pool
}

// NewPGXAdapter returns an adapter reading from and writing to pool.
func NewPGXAdapter(pool *pgxpool.Pool) *PGXAdapter {
	return &PGXAdapter{primary: pool, reads: pool}
}

// NewPGXAdapterWithReplica returns an adapter writing to primary and reading from replica.
// A nil replica reads from primary.
func NewPGXAdapterWithReplica(primary, replica *pgxpool.Pool) *PGXAdapter {
	if replica == nil {
		return NewPGXAdapter(primary)
	}

	return &PGXAdapter{primary: primary, reads: replica}
}

func (p *PGXAdapter) Query(ctx context.Context, query string, args ...any) (DBRows, error) {
	rows, err := p.reads.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return pgxRows{Rows: rows}, nil
}

func (p *PGXAdapter) Exec(ctx context.Context, query string, args ...any) (DBResult, error) {
	tag, err := p.primary.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}

	return pgxResult(tag), nil
}

// pgxRows takes Next, Values and Err from pgx.Rows unchanged.
type pgxRows struct {
	pgx.Rows
}

func (r pgxRows) Columns() ([]string, error) {
	fields := r.FieldDescriptions()

	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.Name)
	}

	return names, nil
}

func (r pgxRows) Close() error {
	r.Rows.Close()

	return nil
}

type pgxResult pgconn.CommandTag

func (r pgxResult) RowsAffected() (int64, error) {
	return pgconn.CommandTag(r).RowsAffected(), nil
}
