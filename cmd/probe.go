package main

import (
	"context"
	"fmt"
	"intake/internal/config"
	"intake/pkg/domain"

	"github.com/spf13/cobra"
)

func probeCommand(cfg *config.Config) *cobra.Command {
	var baseURL string

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Checks a running backend's health route",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient(cfg, baseURL)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Client.Timeout)
			defer cancel()

			res, err := client.Health(ctx)
			if err != nil {
				return err
			}
			if res.Status != domain.HealthStatusHealthy {
				return fmt.Errorf("backend reported status %q", res.Status)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.Status)

			return err
		},
	}

	cmd.Flags().StringVar(&baseURL, "url", "", "Backend base URL (defaults to client.baseURL)")

	return cmd
}
