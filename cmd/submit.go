package main

import (
	"context"
	"fmt"
	"intake/internal/config"
	"intake/pkg/domain"
	"intake/pkg/intakeclient"
	"net/http"

	"github.com/spf13/cobra"
)

func newClient(cfg *config.Config, baseURL string, opts ...intakeclient.Option) (*intakeclient.Client, error) {
	if baseURL == "" {
		baseURL = cfg.Client.BaseURL
	}

	return intakeclient.New(&http.Client{Timeout: cfg.Client.Timeout}, baseURL, opts...)
}

func submitCommand(cfg *config.Config) *cobra.Command {
	var (
		name, email, baseURL string
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submits a registration to a running backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			routes, err := cfg.Routes()
			if err != nil {
				return err
			}
			client, err := newClient(cfg, baseURL, intakeclient.WithProcessPath(routes.ProcessPath))
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), cfg.Client.Timeout)
			defer cancel()

			res, err := client.Submit(ctx, domain.RegistrationRequest{Name: name, Email: email})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), res.ProcessedData)

			return err
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Registrant name")
	cmd.Flags().StringVar(&email, "email", "", "Registrant email")
	cmd.Flags().StringVar(&baseURL, "url", "", "Backend base URL (defaults to client.baseURL)")

	return cmd
}
