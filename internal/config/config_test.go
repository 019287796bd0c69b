package config_test

import (
	"intake/internal/config"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	require.Equal(t, "development", cfg.Environment)
	require.Equal(t, ":5000", cfg.HTTP.Addr)
	require.Equal(t, "/metrics", cfg.HTTP.MetricsPath)
	require.Equal(t, int64(1<<20), cfg.HTTP.MaxBodyBytes)
	require.Equal(t, config.ProfileGateway, cfg.Service.Profile)
	require.Equal(t, []string{"*"}, cfg.CORS.AllowedOrigins)
	require.Equal(t, []string{"GET", "POST", "OPTIONS"}, cfg.CORS.AllowedMethods)
	require.Equal(t, ":3000", cfg.Frontend.Addr)
	require.Equal(t, "/api", cfg.Frontend.APIPrefix)
	require.Equal(t, 10*time.Second, cfg.GracefulShutdownTimeout)

	routes, err := cfg.Routes()
	require.NoError(t, err)
	require.Equal(t, config.Routes{ProcessPath: "/api/process", HealthEnabled: true}, routes)
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
environment: production
http:
  addr: ":6000"
service:
  profile: standalone
frontend:
  backendURL: "http://backend:5000"
`), 0o600))
	t.Setenv("HTTP_ADDR", ":7000")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	require.Equal(t, "production", cfg.Environment)
	require.Equal(t, ":7000", cfg.HTTP.Addr, "env must override file values")
	require.Equal(t, "http://backend:5000", cfg.Frontend.BackendURL)

	routes, err := cfg.Routes()
	require.NoError(t, err)
	require.Equal(t, config.Routes{ProcessPath: "/process"}, routes)
}

func TestLoad_UnknownProfile(t *testing.T) {
	t.Setenv("SERVICE_PROFILE", "lambda")

	_, err := config.Load("")
	require.Error(t, err)
}

func TestRoutes_Overrides(t *testing.T) {
	tests := []struct {
		name    string
		profile string
		path    string
		health  string
		want    config.Routes
		wantErr bool
	}{
		{
			name:    "standalone with health forced on",
			profile: config.ProfileStandalone,
			health:  config.HealthEnabled,
			want:    config.Routes{ProcessPath: "/process", HealthEnabled: true},
		},
		{
			name:    "gateway with health disabled and custom path",
			profile: config.ProfileGateway,
			path:    "/v2/register",
			health:  config.HealthDisabled,
			want:    config.Routes{ProcessPath: "/v2/register"},
		},
		{
			name:    "auto follows profile",
			profile: config.ProfileGateway,
			health:  config.HealthAuto,
			want:    config.Routes{ProcessPath: "/api/process", HealthEnabled: true},
		},
		{
			name:    "bad health mode",
			profile: config.ProfileGateway,
			health:  "sometimes",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg config.Config
			cfg.Service.Profile = tt.profile
			cfg.Service.ProcessPath = tt.path
			cfg.Service.Health = tt.health

			got, err := cfg.Routes()
			if tt.wantErr {
				require.Error(t, err)

				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}
