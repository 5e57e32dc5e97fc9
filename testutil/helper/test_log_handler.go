package helper

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

const attrDurationMS = "duration_ms"

// recordLog is shared by a TestLogHandler and the handlers derived from it with WithAttrs.
type recordLog struct {
	mu      sync.Mutex
	records []slog.Record
}

// TestLogHandler is a slog.Handler that keeps every record for later assertions.
// Attributes added with Logger.With are kept on the records. Groups are ignored.
type TestLogHandler struct {
	log    *recordLog
	attrs  []slog.Attr
	stdout slog.Handler
}

// NewTestLogHandler returns an empty handler.
// With echo set, records are also written to stdout as JSON, which helps when debugging a test.
func NewTestLogHandler(echo bool) *TestLogHandler {
	h := &TestLogHandler{log: &recordLog{}}
	if echo {
		h.stdout = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	return h
}

// Enabled reports true for every level.
func (h *TestLogHandler) Enabled(context.Context, slog.Level) bool {
	return true
}

// Handle keeps a copy of record.
func (h *TestLogHandler) Handle(ctx context.Context, record slog.Record) error {
	kept := record.Clone()
	kept.AddAttrs(h.attrs...)

	h.log.mu.Lock()
	h.log.records = append(h.log.records, kept)
	h.log.mu.Unlock()

	if h.stdout != nil {
		return h.stdout.Handle(ctx, kept)
	}

	return nil
}

// WithAttrs returns a handler writing to the same record log that adds attrs to each record.
func (h *TestLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	derived := *h
	derived.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)

	return &derived
}

// WithGroup returns h unchanged.
func (h *TestLogHandler) WithGroup(string) slog.Handler {
	return h
}

func (h *TestLogHandler) snapshot() []slog.Record {
	h.log.mu.Lock()
	defer h.log.mu.Unlock()

	return append([]slog.Record(nil), h.log.records...)
}

// GetRecordCount returns how many records were kept.
func (h *TestLogHandler) GetRecordCount() int {
	h.log.mu.Lock()
	defer h.log.mu.Unlock()

	return len(h.log.records)
}

// Reset drops all kept records.
func (h *TestLogHandler) Reset() {
	h.log.mu.Lock()
	defer h.log.mu.Unlock()

	h.log.records = nil
}

// CountAtLevel returns how many kept records have the given level and message.
func (h *TestLogHandler) CountAtLevel(level slog.Level, message string) int {
	return len(h.withMessage(level, message).records)
}

// HasDebugLogWithMessage selects the debug records with the given message.
func (h *TestLogHandler) HasDebugLogWithMessage(message string) *LogRecordMatcher {
	return h.withMessage(slog.LevelDebug, message)
}

// HasInfoLogWithMessage selects the info records with the given message.
func (h *TestLogHandler) HasInfoLogWithMessage(message string) *LogRecordMatcher {
	return h.withMessage(slog.LevelInfo, message)
}

// HasWarnLogWithMessage selects the warn records with the given message.
func (h *TestLogHandler) HasWarnLogWithMessage(message string) *LogRecordMatcher {
	return h.withMessage(slog.LevelWarn, message)
}

// HasErrorLogWithMessage selects the error records with the given message.
func (h *TestLogHandler) HasErrorLogWithMessage(message string) *LogRecordMatcher {
	return h.withMessage(slog.LevelError, message)
}

func (h *TestLogHandler) withMessage(level slog.Level, message string) *LogRecordMatcher {
	selected := &LogRecordMatcher{}

	for _, record := range h.snapshot() {
		if record.Level == level && record.Message == message {
			selected.records = append(selected.records, record)
		}
	}

	return selected
}

// LogRecordMatcher narrows a selection of records. Each With method keeps the records
// that have a matching attribute, Assert reports whether any record is left.
type LogRecordMatcher struct {
	records []slog.Record
}

// WithDurationMS keeps the records with a non-negative numeric duration_ms attribute.
func (m *LogRecordMatcher) WithDurationMS() *LogRecordMatcher {
	return m.keep(func(attr slog.Attr) bool {
		if attr.Key != attrDurationMS {
			return false
		}

		switch v := attr.Value; v.Kind() {
		case slog.KindFloat64:
			return v.Float64() >= 0
		case slog.KindInt64:
			return v.Int64() >= 0
		default:
			return false
		}
	})
}

// WithAttr keeps the records whose attribute key renders as want.
func (m *LogRecordMatcher) WithAttr(key, want string) *LogRecordMatcher {
	return m.keep(func(attr slog.Attr) bool {
		return attr.Key == key && attr.Value.String() == want
	})
}

// WithAttrKey keeps the records that carry the attribute key with any value.
func (m *LogRecordMatcher) WithAttrKey(key string) *LogRecordMatcher {
	return m.keep(func(attr slog.Attr) bool {
		return attr.Key == key
	})
}

func (m *LogRecordMatcher) keep(match func(slog.Attr) bool) *LogRecordMatcher {
	narrowed := &LogRecordMatcher{}

	for _, record := range m.records {
		matched := false

		record.Attrs(func(attr slog.Attr) bool {
			matched = match(attr)

			return !matched
		})

		if matched {
			narrowed.records = append(narrowed.records, record)
		}
	}

	return narrowed
}

// Assert reports whether at least one record survived the chain.
func (m *LogRecordMatcher) Assert() bool {
	return len(m.records) > 0
}
