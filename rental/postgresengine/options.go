package postgresengine

import (
	"github.com/AntonStoeckl/movierental-go/rental"
)

// Option configures a Store at construction time.
type Option func(*Store) error

// WithLogger makes the Store log through logger, the same contract the ledger logs through.
// Statements and their timing go to Debug, blocked mutations and identifier collisions to Info,
// and failed statements to Error.
func WithLogger(logger rental.Logger) Option {
	return func(s *Store) error {
		if logger == nil {
			return ErrNilLogger
		}

		s.storage.logger = logger

		return nil
	}
}

// WithContextualLogger is WithLogger for loggers that read correlation data from the context.
func WithContextualLogger(logger rental.ContextualLogger) Option {
	return func(s *Store) error {
		if logger == nil {
			return ErrNilLogger
		}

		s.storage.contextualLogger = logger

		return nil
	}
}
