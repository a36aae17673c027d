package testdoubles

import (
	"context"
	"log/slog"
	"os"
	"sync"
)

// LogHandlerSpy is a slog.Handler that captures log records for testing.
type LogHandlerSpy struct {
	records     []slog.Record
	mu          sync.Mutex
	logToStdout bool
}

// NewLogHandlerSpy creates a LogHandlerSpy.
// Switchable to log to stdout, which helps when debugging a failing test.
func NewLogHandlerSpy(logToStdout bool) *LogHandlerSpy {
	return &LogHandlerSpy{logToStdout: logToStdout}
}

func (s *LogHandlerSpy) Handle(ctx context.Context, record slog.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, record.Clone())

	if s.logToStdout {
		_ = slog.NewJSONHandler(os.Stdout, nil).Handle(ctx, record)
	}

	return nil
}

func (s *LogHandlerSpy) Enabled(_ context.Context, _ slog.Level) bool {
	return true
}

func (s *LogHandlerSpy) WithAttrs(_ []slog.Attr) slog.Handler {
	return s
}

func (s *LogHandlerSpy) WithGroup(_ string) slog.Handler {
	return s
}

// GetRecords returns a copy of all captured log records.
func (s *LogHandlerSpy) GetRecords() []slog.Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]slog.Record(nil), s.records...)
}

// HasRecord reports whether a record with the given level and message was captured.
func (s *LogHandlerSpy) HasRecord(level slog.Level, message string) bool {
	for _, r := range s.GetRecords() {
		if r.Level == level && r.Message == message {
			return true
		}
	}

	return false
}

// AttrValue returns the value of the first attribute with the given key on the first
// record with the given message.
func (s *LogHandlerSpy) AttrValue(message, key string) (slog.Value, bool) {
	for _, r := range s.GetRecords() {
		if r.Message != message {
			continue
		}

		var found slog.Value
		var ok bool

		r.Attrs(func(a slog.Attr) bool {
			if a.Key == key {
				found, ok = a.Value, true
				return false
			}

			return true
		})

		return found, ok
	}

	return slog.Value{}, false
}
