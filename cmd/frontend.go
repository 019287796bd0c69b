package main

import (
	"context"
	"intake/internal/config"
	"intake/internal/frontend"
	"intake/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func frontendCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "frontend",
		Short: "Serves the registration form and proxies API calls when BACKEND_URL is set",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUntilSignal(cfg, func(ctx context.Context) (func(ctx context.Context), error) {
				opts := frontend.NewOptions(cfg)
				server, err := frontend.NewServer(ctx, opts)
				if err != nil {
					return nil, err
				}
				if opts.BackendURL == "" {
					logger.Info(ctx, "no backend configured, API calls are left to the load balancer")
				} else {
					logger.Info(ctx, "proxying API calls", zap.String("backend", opts.BackendURL))
				}

				return startServer(ctx, "frontend", server), nil
			})
		},
	}

	return cmd
}
