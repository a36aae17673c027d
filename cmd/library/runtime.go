package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/stanleyamo/library-management-system/circulation"
	"github.com/stanleyamo/library-management-system/circulation/shell/config"
	"github.com/stanleyamo/library-management-system/store"
	"github.com/stanleyamo/library-management-system/store/memengine"
	"github.com/stanleyamo/library-management-system/store/oteladapters"
	"github.com/stanleyamo/library-management-system/store/sqlengine"
)

// runtime holds everything a subcommand needs: the engine, telemetry, and their cleanup.
type runtime struct {
	settings  config.Settings
	engine    store.Engine
	sqlEngine *sqlengine.Engine // nil for the memory driver

	providers *config.ObservabilityProviders
	logger    *oteladapters.SlogBridgeLogger
	metrics   *oteladapters.MetricsCollector
	tracing   *oteladapters.TracingCollector

	closers []func() error
}

func openRuntime(ctx context.Context, s config.Settings) (*runtime, error) {
	rt := &runtime{settings: s}

	if err := rt.openObservability(ctx); err != nil {
		return nil, err
	}

	if err := rt.openEngine(ctx); err != nil {
		_ = rt.Close(ctx)
		return nil, err
	}

	return rt, nil
}

func (rt *runtime) openObservability(ctx context.Context) error {
	s := rt.settings

	if !s.OTelEnabled {
		rt.logger = oteladapters.NewSlogBridgeLoggerWithHandler(
			slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: s.LogLevel}),
		)

		return nil
	}

	providers, err := config.NewObservabilityProviders(ctx, config.ObservabilityConfig{
		ServiceName:    serviceName,
		ServiceVersion: serviceVersion,
		OTLPEndpoint:   s.OTelEndpoint,
	})
	if err != nil {
		return fmt.Errorf("starting observability: %w", err)
	}

	rt.providers = providers
	rt.logger = oteladapters.NewSlogBridgeLogger(serviceName)
	rt.metrics = oteladapters.NewMetricsCollector(providers.MeterProvider.Meter(serviceName))
	rt.tracing = oteladapters.NewTracingCollector(providers.TracerProvider.Tracer(serviceName))

	return nil
}

func (rt *runtime) openEngine(ctx context.Context) error {
	s := rt.settings

	if s.DBDriver == config.DriverMemory {
		engine, err := memengine.NewEngine()
		if err != nil {
			return err
		}

		rt.engine = engine

		return nil
	}

	options := rt.sqlEngineOptions()

	var (
		engine *sqlengine.Engine
		err    error
	)

	switch s.DBDriver {
	case config.DriverPGX:
		engine, err = rt.openPGX(ctx, options)
	case config.DriverSQL:
		engine, err = rt.openSQL(ctx, options)
	case config.DriverSQLX:
		engine, err = rt.openSQLX(ctx, options)
	case config.DriverSQLite:
		engine, err = rt.openSQLite(ctx, options)
	default:
		err = fmt.Errorf("%w: %q", config.ErrUnknownDriver, s.DBDriver)
	}

	if err != nil {
		return err
	}

	rt.engine = engine
	rt.sqlEngine = engine

	return nil
}

func (rt *runtime) sqlEngineOptions() []sqlengine.Option {
	options := []sqlengine.Option{sqlengine.WithContextualLogger(rt.logger)}

	if rt.metrics != nil {
		options = append(options, sqlengine.WithMetrics(rt.metrics))
	}

	if rt.tracing != nil {
		options = append(options, sqlengine.WithTracing(rt.tracing))
	}

	if rt.settings.TablePrefix != "" {
		options = append(options, sqlengine.WithTableNamePrefix(rt.settings.TablePrefix))
	}

	return options
}

func (rt *runtime) openPGX(ctx context.Context, options []sqlengine.Option) (*sqlengine.Engine, error) {
	pool, err := config.NewPGXPool(ctx, rt.settings.DBDSN)
	if err != nil {
		return nil, err
	}

	rt.closers = append(rt.closers, func() error { pool.Close(); return nil })

	if rt.settings.DBReplicaDSN != "" {
		replica, err := config.NewPGXPool(ctx, rt.settings.DBReplicaDSN)
		if err != nil {
			return nil, err
		}

		rt.closers = append(rt.closers, func() error { replica.Close(); return nil })
		options = append(options, sqlengine.WithPGXReplica(replica))
	}

	return sqlengine.NewEngineFromPGXPool(pool, options...)
}

func (rt *runtime) openSQL(ctx context.Context, options []sqlengine.Option) (*sqlengine.Engine, error) {
	db, err := config.NewPostgresSQLDB(ctx, rt.settings.DBDSN)
	if err != nil {
		return nil, err
	}

	rt.closers = append(rt.closers, db.Close)

	if rt.settings.DBReplicaDSN != "" {
		replica, err := config.NewPostgresSQLDB(ctx, rt.settings.DBReplicaDSN)
		if err != nil {
			return nil, err
		}

		rt.closers = append(rt.closers, replica.Close)
		options = append(options, sqlengine.WithSQLReplica(replica))
	}

	return sqlengine.NewEngineFromSQLDB(db, options...)
}

func (rt *runtime) openSQLX(ctx context.Context, options []sqlengine.Option) (*sqlengine.Engine, error) {
	db, err := config.NewPostgresSQLX(ctx, rt.settings.DBDSN)
	if err != nil {
		return nil, err
	}

	rt.closers = append(rt.closers, db.Close)

	if rt.settings.DBReplicaDSN != "" {
		replica, err := config.NewPostgresSQLX(ctx, rt.settings.DBReplicaDSN)
		if err != nil {
			return nil, err
		}

		rt.closers = append(rt.closers, replica.Close)
		options = append(options, sqlengine.WithSQLXReplica(replica))
	}

	return sqlengine.NewEngineFromSQLX(db, options...)
}

func (rt *runtime) openSQLite(ctx context.Context, options []sqlengine.Option) (*sqlengine.Engine, error) {
	db, err := config.NewSQLiteDB(ctx, rt.settings.DBDSN)
	if err != nil {
		return nil, err
	}

	rt.closers = append(rt.closers, db.Close)
	options = append(options, sqlengine.WithDialect(sqlengine.DialectSQLite))

	return sqlengine.NewEngineFromSQLDB(db, options...)
}

// migrate creates the schema. The memory driver has nothing to migrate.
func (rt *runtime) migrate(ctx context.Context) error {
	if rt.sqlEngine == nil {
		return nil
	}

	return rt.sqlEngine.Migrate(ctx)
}

func (rt *runtime) newService() (*circulation.Service, error) {
	options := []circulation.Option{circulation.WithContextualLogger(rt.logger)}

	if rt.metrics != nil {
		options = append(options, circulation.WithMetrics(rt.metrics))
	}

	if rt.tracing != nil {
		options = append(options, circulation.WithTracing(rt.tracing))
	}

	return circulation.NewService(rt.engine, options...)
}

// Close releases database handles in reverse order and flushes telemetry.
func (rt *runtime) Close(ctx context.Context) error {
	var errs []error

	for i := len(rt.closers) - 1; i >= 0; i-- {
		errs = append(errs, rt.closers[i]())
	}

	rt.closers = nil

	if rt.providers != nil {
		errs = append(errs, rt.providers.Shutdown(ctx))
		rt.providers = nil
	}

	return errors.Join(errs...)
}
