package rental

import (
	"errors"
	"time"
)

var (
	// ErrNilClock is returned when a nil clock is provided to WithClock.
	ErrNilClock = errors.New("clock must not be nil")

	// ErrNilLogger is returned when a nil logger is provided to WithLogger or WithContextualLogger.
	ErrNilLogger = errors.New("logger must not be nil")
)

// Clock returns the current instant. Only its calendar date is used.
type Clock func() time.Time

// settings are shared by the Ledger and the catalogs.
type settings struct {
	clock            Clock
	logger           Logger
	contextualLogger ContextualLogger
	retries          retryConfig
}

func newSettings(options []Option) (settings, error) {
	s := settings{
		clock:   time.Now,
		retries: defaultRetryConfig(),
	}

	for _, option := range options {
		if err := option(&s); err != nil {
			return settings{}, err
		}
	}

	return s, nil
}

// today returns the current calendar date as UTC midnight.
func (s settings) today() time.Time {
	return CalendarDate(s.clock())
}

// Option defines a functional option for configuring the Ledger and the catalogs.
type Option func(*settings) error

// WithClock replaces the wall clock, e.g. with a fixed date in tests.
func WithClock(clock Clock) Option {
	return func(s *settings) error {
		if clock == nil {
			return ErrNilClock
		}

		s.clock = clock

		return nil
	}
}

// WithLogger sets the logger.
//
// Info level: successful mutations with their identifiers
// Warn level: identifier collisions that needed a retry
// Error level: failed mutations.
func WithLogger(logger Logger) Option {
	return func(s *settings) error {
		if logger == nil {
			return ErrNilLogger
		}

		s.logger = logger

		return nil
	}
}

// WithContextualLogger sets the context-aware logger.
func WithContextualLogger(logger ContextualLogger) Option {
	return func(s *settings) error {
		if logger == nil {
			return ErrNilLogger
		}

		s.contextualLogger = logger

		return nil
	}
}

// WithRetry configures how identifier collisions on insert are retried.
func WithRetry(options ...RetryOption) Option {
	return func(s *settings) error {
		for _, option := range options {
			if err := option(&s.retries); err != nil {
				return err
			}
		}

		return nil
	}
}
