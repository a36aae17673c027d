package circulation

import (
	"errors"
	"time"

	"github.com/stanleyamo/library-management-system/circulation/shell"
)

// ErrNilClock is returned when WithClock is given a nil function.
var ErrNilClock = errors.New("clock must not be nil")

type serviceConfig struct {
	clock            func() time.Time
	retryOptions     []shell.RetryOption
	metricsCollector shell.MetricsCollector
	tracingCollector shell.TracingCollector
	contextualLogger shell.ContextualLogger
	logger           shell.Logger
}

// Option configures a Service.
type Option func(*serviceConfig) error

// WithClock sets the source of "now". Business dates are the calendar day of its result
// in the location it carries.
func WithClock(clock func() time.Time) Option {
	return func(c *serviceConfig) error {
		if clock == nil {
			return ErrNilClock
		}

		c.clock = clock

		return nil
	}
}

// WithRetryOptions configures the retry of every command handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(c *serviceConfig) error {
		c.retryOptions = opts
		return nil
	}
}

// WithMetrics records duration, count, rejection and retry metrics for every handler.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(c *serviceConfig) error {
		c.metricsCollector = collector
		return nil
	}
}

// WithTracing opens a span around every handler call.
func WithTracing(collector shell.TracingCollector) Option {
	return func(c *serviceConfig) error {
		c.tracingCollector = collector
		return nil
	}
}

// WithContextualLogger logs handler outcomes with the request context.
// It takes precedence over WithLogger.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(c *serviceConfig) error {
		c.contextualLogger = logger
		return nil
	}
}

// WithLogger logs handler outcomes without context.
func WithLogger(logger shell.Logger) Option {
	return func(c *serviceConfig) error {
		c.logger = logger
		return nil
	}
}
