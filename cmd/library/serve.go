package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/stanleyamo/library-management-system/circulation/api"
)

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 10 * time.Second
)

func newServeCommand(flags *rootFlags) *cobra.Command {
	var (
		addr    string
		migrate bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the circulation HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := flags.settings()
			if err != nil {
				return err
			}

			if addr != "" {
				s.HTTPAddr = addr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			rt, err := openRuntime(ctx, s)
			if err != nil {
				return err
			}

			defer func() {
				closeCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()

				if err := rt.Close(closeCtx); err != nil {
					rt.logger.ErrorContext(closeCtx, "shutdown failed", "error", err.Error())
				}
			}()

			if migrate {
				if err := rt.migrate(ctx); err != nil {
					return err
				}
			}

			return serve(ctx, rt)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides LIBRARY_HTTP_ADDR)")
	cmd.Flags().BoolVar(&migrate, "migrate", true, "create the schema before serving")

	return cmd
}

func serve(ctx context.Context, rt *runtime) error {
	s := rt.settings

	service, err := rt.newService()
	if err != nil {
		return err
	}

	gin.SetMode(gin.ReleaseMode)

	router, err := api.NewRouter(service,
		api.WithAllowedOrigins(s.CORSOrigins...),
		api.WithRateLimit(rate.Limit(s.RateLimitRPS), s.RateLimitBurst),
		api.WithLogger(rt.logger),
	)
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              s.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)

	go func() {
		rt.logger.InfoContext(ctx, "http server listening",
			"addr", s.HTTPAddr,
			"driver", s.DBDriver,
			"otel_enabled", s.OTelEnabled,
		)

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}

		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	rt.logger.InfoContext(context.Background(), "shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
