package testdoubles

import (
	"context"
	"sync"

	"github.com/stanleyamo/library-management-system/store"
)

// SpyContextualLogRecord represents a recorded contextual log call.
type SpyContextualLogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// ContextualLoggerSpy is a store.ContextualLogger that captures every call.
type ContextualLoggerSpy struct {
	records     []SpyContextualLogRecord
	mu          sync.Mutex
	recordCalls bool
}

// NewContextualLoggerSpy creates a spy; with recordCalls false it discards everything.
func NewContextualLoggerSpy(recordCalls bool) *ContextualLoggerSpy {
	return &ContextualLoggerSpy{recordCalls: recordCalls}
}

func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "error", msg, args)
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level, msg string, args []any) {
	if !s.recordCalls {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, SpyContextualLogRecord{Level: level, Message: msg, Args: args, Context: ctx})
}

// GetRecords returns a copy of every captured record in call order.
func (s *ContextualLoggerSpy) GetRecords() []SpyContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]SpyContextualLogRecord(nil), s.records...)
}

// GetRecordsForLevel returns the captured records of one level.
func (s *ContextualLoggerSpy) GetRecordsForLevel(level string) []SpyContextualLogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []SpyContextualLogRecord
	for _, r := range s.records {
		if r.Level == level {
			out = append(out, r)
		}
	}

	return out
}

func (s *ContextualLoggerSpy) HasDebugLog(message string) bool { return s.has("debug", message) }
func (s *ContextualLoggerSpy) HasInfoLog(message string) bool  { return s.has("info", message) }
func (s *ContextualLoggerSpy) HasWarnLog(message string) bool  { return s.has("warn", message) }
func (s *ContextualLoggerSpy) HasErrorLog(message string) bool { return s.has("error", message) }

func (s *ContextualLoggerSpy) has(level, message string) bool {
	for _, r := range s.GetRecordsForLevel(level) {
		if r.Message == message {
			return true
		}
	}

	return false
}

// Reset clears all recorded log calls.
func (s *ContextualLoggerSpy) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = nil
}

// Compile-time check to ensure ContextualLoggerSpy implements store.ContextualLogger.
var _ store.ContextualLogger = (*ContextualLoggerSpy)(nil)
