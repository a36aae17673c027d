package circulation

import (
	"github.com/stanleyamo/library-management-system/circulation/shell"
	"github.com/stanleyamo/library-management-system/circulation/shell/observable"
)

func instrumentCommand[C shell.Command, R any](
	handler shell.CommandHandler[C, R],
	cfg serviceConfig,
) (shell.CommandHandler[C, R], error) {
	return observable.NewCommandWrapper[C, R](handler,
		observable.WithCommandMetrics[C, R](cfg.metricsCollector),
		observable.WithCommandTracing[C, R](cfg.tracingCollector),
		observable.WithCommandContextualLogging[C, R](cfg.contextualLogger),
		observable.WithCommandLogging[C, R](cfg.logger),
	)
}

func instrumentQuery[Q shell.Query, R any](
	handler shell.QueryHandler[Q, R],
	cfg serviceConfig,
) (shell.QueryHandler[Q, R], error) {
	return observable.NewQueryWrapper[Q, R](handler,
		observable.WithQueryMetrics[Q, R](cfg.metricsCollector),
		observable.WithQueryTracing[Q, R](cfg.tracingCollector),
		observable.WithQueryContextualLogging[Q, R](cfg.contextualLogger),
		observable.WithQueryLogging[Q, R](cfg.logger),
	)
}
