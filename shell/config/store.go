package config

import (
	"context"
	"fmt"

	"github.com/AntonStoeckl/movierental-go/rental/postgresengine"
)

// OpenStore opens a connection with the configured driver and builds a postgresengine.Store on it.
// The returned close function releases the connection.
func (d Database) OpenStore(ctx context.Context, options ...postgresengine.Option) (postgresengine.Store, func(), error) {
	switch d.Driver {
	case DriverSQL:
		db, err := d.OpenSQLDB(ctx)
		if err != nil {
			return postgresengine.Store{}, nil, err
		}

		store, err := postgresengine.NewStoreFromSQLDB(db, options...)
		if err != nil {
			_ = db.Close()
			return postgresengine.Store{}, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	case DriverSQLX:
		db, err := d.OpenSQLX(ctx)
		if err != nil {
			return postgresengine.Store{}, nil, err
		}

		store, err := postgresengine.NewStoreFromSQLX(db, options...)
		if err != nil {
			_ = db.Close()
			return postgresengine.Store{}, nil, err
		}

		return store, func() { _ = db.Close() }, nil

	case DriverPGX:
		return d.openPGXStore(ctx, options)

	default:
		return postgresengine.Store{}, nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, d.Driver)
	}
}

func (d Database) openPGXStore(ctx context.Context, options []postgresengine.Option) (postgresengine.Store, func(), error) {
	pool, err := d.OpenPGXPool(ctx)
	if err != nil {
		return postgresengine.Store{}, nil, err
	}

	replica, err := d.OpenPGXReplicaPool(ctx)
	if err != nil {
		pool.Close()
		return postgresengine.Store{}, nil, err
	}

	if replica == nil {
		store, storeErr := postgresengine.NewStoreFromPGXPool(pool, options...)
		if storeErr != nil {
			pool.Close()
			return postgresengine.Store{}, nil, storeErr
		}

		return store, pool.Close, nil
	}

	store, err := postgresengine.NewStoreFromPGXPoolWithReplica(pool, replica, options...)
	if err != nil {
		pool.Close()
		replica.Close()

		return postgresengine.Store{}, nil, err
	}

	return store, func() {
		replica.Close()
		pool.Close()
	}, nil
}
