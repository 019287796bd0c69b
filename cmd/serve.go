package main

import (
	"context"
	"errors"
	"intake/internal/api"
	"intake/internal/config"
	"intake/pkg/logger"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// startServer runs server in the background and returns a function that
// gracefully stops it.
func startServer(ctx context.Context, name string, server *http.Server) func(ctx context.Context) {
	go func() {
		logger.Info(ctx, "starting "+name+"...", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				logger.Fatal(ctx, "could not start "+name, zap.Error(err))
			}
		}
	}()

	return func(ctx context.Context) {
		logger.Info(ctx, "stopping "+name+"...")
		if err := server.Shutdown(ctx); err != nil {
			logger.Error(ctx, "could not stop "+name, zap.Error(err))
		}
	}
}

// runUntilSignal blocks until SIGINT or SIGTERM and then calls stop with a
// context bounded by the graceful shutdown timeout.
func runUntilSignal(cfg *config.Config, start func(ctx context.Context) (func(ctx context.Context), error)) error {
	ctx, stopSignals := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	stop, err := start(ctx)
	if err != nil {
		return err
	}

	// wait for interrupt
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.GracefulShutdownTimeout)
	defer cancel()

	stop(shutdownCtx)

	return nil
}

func serveCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts the registration API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUntilSignal(cfg, func(ctx context.Context) (func(ctx context.Context), error) {
				opts, err := api.NewOptions(cfg)
				if err != nil {
					return nil, err
				}
				server, err := api.NewServer(ctx, opts)
				if err != nil {
					return nil, err
				}
				logger.Info(ctx, "registration routes resolved",
					zap.String("process_path", opts.Routes.ProcessPath),
					zap.Bool("health", opts.Routes.HealthEnabled))

				return startServer(ctx, "webserver", server), nil
			})
		},
	}

	return cmd
}
