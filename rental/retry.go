package rental

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

const (
	defaultMaxAttempts  = 6
	defaultBaseDelay    = 10 * time.Millisecond
	defaultJitterFactor = 0.3
)

// Outcomes recorded in RetryMetadata.LastOutcome.
const (
	OutcomeOK               = "ok"
	OutcomeIdentifierTaken  = "identifier_taken"
	OutcomeCanceled         = "canceled"
	OutcomeDeadlineExceeded = "deadline_exceeded"
	OutcomeFailed           = "failed"
)

var (
	// ErrInvalidMaxAttempts is returned when max attempts are not positive.
	ErrInvalidMaxAttempts = errors.New("max attempts must be positive")

	// ErrNegativeBaseDelay is returned when the base delay is negative.
	ErrNegativeBaseDelay = errors.New("base delay must not be negative")

	// ErrInvalidJitterFactor is returned when the jitter factor is outside [0, 1].
	ErrInvalidJitterFactor = errors.New("jitter factor must be between 0.0 and 1.0")
)

// InsertFunc allocates an identifier and inserts with it. It runs again after a collision,
// so it must allocate a fresh identifier on every call.
type InsertFunc func(ctx context.Context) error

// RetryMetadata describes how an insert with identifier collisions went.
type RetryMetadata struct {
	Attempts    int
	TotalDelay  time.Duration
	LastOutcome string
}

type retryConfig struct {
	maxAttempts  int
	baseDelay    time.Duration
	jitterFactor float64
}

func defaultRetryConfig() retryConfig {
	return retryConfig{
		maxAttempts:  defaultMaxAttempts,
		baseDelay:    defaultBaseDelay,
		jitterFactor: defaultJitterFactor,
	}
}

// backoff is the pause before the given retry, counting retries from 1:
// baseDelay doubled per earlier retry, plus up to jitterFactor of that.
func (c retryConfig) backoff(retry int) time.Duration {
	delay := c.baseDelay << (retry - 1)
	jitter := time.Duration(rand.Float64() * c.jitterFactor * float64(delay)) //nolint:gosec

	return delay + jitter
}

// RetryOnIdentifierCollision runs insert and runs it again as long as it fails with
// ErrConcurrencyConflict, at most maxAttempts times in total.
// With the defaults the pauses are 10, 20, 40, 80 and 160 ms plus up to 30% jitter.
// Any other error, storage failures included, is returned at once.
func RetryOnIdentifierCollision(ctx context.Context, insert InsertFunc, options ...RetryOption) (RetryMetadata, error) {
	config := defaultRetryConfig()

	for _, option := range options {
		if err := option(&config); err != nil {
			return RetryMetadata{}, err
		}
	}

	return retry(ctx, config, insert)
}

func retry(ctx context.Context, config retryConfig, insert InsertFunc) (RetryMetadata, error) {
	var meta RetryMetadata

	for {
		meta.Attempts++

		err := insert(ctx)
		meta.LastOutcome = outcomeOf(err)

		if !errors.Is(err, ErrConcurrencyConflict) || meta.Attempts >= config.maxAttempts {
			return meta, err
		}

		pause := config.backoff(meta.Attempts)
		if err = sleep(ctx, pause); err != nil {
			meta.LastOutcome = outcomeOf(err)

			return meta, err
		}

		meta.TotalDelay += pause
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, ErrConcurrencyConflict):
		return OutcomeIdentifierTaken
	case errors.Is(err, context.Canceled):
		return OutcomeCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return OutcomeDeadlineExceeded
	default:
		return OutcomeFailed
	}
}

// RetryOption configures identifier collision retries.
type RetryOption func(*retryConfig) error

// WithMaxAttempts sets the number of insert attempts including the first.
func WithMaxAttempts(attempts int) RetryOption {
	return func(config *retryConfig) error {
		if attempts <= 0 {
			return ErrInvalidMaxAttempts
		}

		config.maxAttempts = attempts

		return nil
	}
}

// WithBaseDelay sets the pause before the first retry. Later pauses double.
func WithBaseDelay(delay time.Duration) RetryOption {
	return func(config *retryConfig) error {
		if delay < 0 {
			return ErrNegativeBaseDelay
		}

		config.baseDelay = delay

		return nil
	}
}

// WithJitterFactor sets the random extra pause as a fraction of the backoff, from 0.0 to 1.0.
func WithJitterFactor(factor float64) RetryOption {
	return func(config *retryConfig) error {
		if factor < 0.0 || factor > 1.0 {
			return ErrInvalidJitterFactor
		}

		config.jitterFactor = factor

		return nil
	}
}
