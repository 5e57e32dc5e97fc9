package rental

import (
	"context"

	"github.com/google/uuid"
)

const (
	logMsgOperation         = "rental operation: "
	logMsgOperationFailed   = "rental operation failed: "
	logMsgIdentifierRetried = "identifier collision retried"
	logAttrError            = "error"
	logAttrOperationID      = "operation_id"
	logAttrCustomerID       = "customer_id"
	logAttrMovieID          = "movie_id"
	logAttrRentalID         = "rental_id"
	logAttrProducerID       = "producer_id"
	logAttrDueDate          = "due_date"
	logAttrDaysLate         = "days_late"
	logAttrLateFee          = "late_fee"
	logAttrAttempts         = "attempts"
	logAttrOutcome          = "outcome"
	logAttrTotalDelayMS     = "total_delay_ms"
	logAttrAction           = "action"
	logActionIssue          = "issue"
	logActionReturn         = "return"
	logActionAddCustomer    = "add customer"
	logActionUpdateCustomer = "update customer"
	logActionDeleteCustomer = "delete customer"
	logActionAddMovie       = "add movie"
	logActionUpdateMovie    = "update movie"
	logActionDeleteMovie    = "delete movie"
	dateLayout              = "2006-01-02"
)

// Logger interface for operational logging of mutations and their failures.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// ContextualLogger interface for context-aware logging, e.g. with trace correlation.
// When both loggers are configured, both receive every record.
type ContextualLogger interface {
	DebugContext(ctx context.Context, msg string, args ...any)
	InfoContext(ctx context.Context, msg string, args ...any)
	WarnContext(ctx context.Context, msg string, args ...any)
	ErrorContext(ctx context.Context, msg string, args ...any)
}

func (s settings) logOperation(ctx context.Context, action string, args ...any) {
	if s.logger != nil {
		s.logger.Info(logMsgOperation+action, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.InfoContext(ctx, logMsgOperation+action, args...)
	}
}

func (s settings) logError(ctx context.Context, action string, err error, args ...any) {
	allArgs := []any{logAttrError, err.Error()}
	allArgs = append(allArgs, args...)

	if s.logger != nil {
		s.logger.Error(logMsgOperationFailed+action, allArgs...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.ErrorContext(ctx, logMsgOperationFailed+action, allArgs...)
	}
}

func (s settings) logRetries(ctx context.Context, action string, meta RetryMetadata) {
	if meta.Attempts <= 1 {
		return
	}

	args := []any{
		logAttrAction, action,
		logAttrAttempts, meta.Attempts,
		logAttrOutcome, meta.LastOutcome,
		logAttrTotalDelayMS, meta.TotalDelay.Milliseconds(),
	}

	if s.logger != nil {
		s.logger.Warn(logMsgIdentifierRetried, args...)
	}

	if s.contextualLogger != nil {
		s.contextualLogger.WarnContext(ctx, logMsgIdentifierRetried, args...)
	}
}

// newOperationID returns a time-ordered id used to correlate the log records of one mutation.
func newOperationID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return id.String()
}
