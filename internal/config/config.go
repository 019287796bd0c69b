package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Route profiles reproduce the two historical deployments of the service.
const (
	// ProfileStandalone serves POST /process and no health endpoint.
	ProfileStandalone = "standalone"
	// ProfileGateway serves POST /api/process behind a load balancer and GET /health.
	ProfileGateway = "gateway"
)

// Health endpoint modes.
const (
	HealthAuto     = "auto"
	HealthEnabled  = "enabled"
	HealthDisabled = "disabled"
)

// Config represents the application configuration structure.
type Config struct {
	// Environment specifies the current running environment (development, production)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`
	// LogLevel overrides the environment's default log level when set
	LogLevel string `env:"LOG_LEVEL" yaml:"logLevel"`

	// HTTP contains the backend HTTP server settings
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":5000" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"30s" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"30s" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"10s" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MaxBodyBytes limits the size of a registration body
		MaxBodyBytes int64 `env:"HTTP_MAX_BODY_BYTES" env-default:"1048576" yaml:"maxBodyBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// Service selects which routes the backend exposes
	Service struct {
		// Profile is one of ProfileStandalone or ProfileGateway
		Profile string `env:"SERVICE_PROFILE" env-default:"gateway" yaml:"profile"`
		// ProcessPath overrides the profile's registration route
		ProcessPath string `env:"SERVICE_PROCESS_PATH" yaml:"processPath"`
		// Health is "auto" (follow the profile), "enabled" or "disabled"
		Health string `env:"SERVICE_HEALTH" env-default:"auto" yaml:"health"`
	} `yaml:"service"`

	// CORS configures the cross-origin policy applied to every route
	CORS struct {
		AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-default:"*" yaml:"allowedOrigins"`
		AllowedMethods []string `env:"CORS_ALLOWED_METHODS" env-default:"GET,POST,OPTIONS" yaml:"allowedMethods"`
		AllowedHeaders []string `env:"CORS_ALLOWED_HEADERS" env-default:"*" yaml:"allowedHeaders"`
		// MaxAge is how long, in seconds, browsers may cache a preflight answer
		MaxAge int `env:"CORS_MAX_AGE" env-default:"0" yaml:"maxAge"`
	} `yaml:"cors"`

	// Frontend configures the static form server
	Frontend struct {
		// Addr is the address and port the frontend listens on
		Addr string `env:"FRONTEND_ADDR" env-default:":3000" yaml:"addr"`
		// BackendURL is the backend the frontend proxies API calls to; empty disables the proxy
		BackendURL string `env:"BACKEND_URL" yaml:"backendURL"`
		// APIPrefix is the path prefix that is proxied and stripped before forwarding
		APIPrefix string `env:"FRONTEND_API_PREFIX" env-default:"/api" yaml:"apiPrefix"`
	} `yaml:"frontend"`

	// Client configures the submit and probe commands
	Client struct {
		// BaseURL is the backend the commands talk to
		BaseURL string `env:"CLIENT_BASE_URL" env-default:"http://localhost:5000" yaml:"baseURL"`
		// Timeout bounds every client call
		Timeout time.Duration `env:"CLIENT_TIMEOUT" env-default:"5s" yaml:"timeout"`
	} `yaml:"client"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Routes is the resolved set of backend routes.
type Routes struct {
	ProcessPath   string
	HealthEnabled bool
}

// Routes resolves the configured profile and overrides into concrete routes.
func (c *Config) Routes() (Routes, error) {
	var r Routes
	switch c.Service.Profile {
	case ProfileStandalone:
		r = Routes{ProcessPath: "/process"}
	case ProfileGateway:
		r = Routes{ProcessPath: "/api/process", HealthEnabled: true}
	default:
		return Routes{}, fmt.Errorf("unknown service profile %q", c.Service.Profile)
	}

	if c.Service.ProcessPath != "" {
		r.ProcessPath = c.Service.ProcessPath
	}
	switch c.Service.Health {
	case "", HealthAuto:
	case HealthEnabled:
		r.HealthEnabled = true
	case HealthDisabled:
		r.HealthEnabled = false
	default:
		return Routes{}, fmt.Errorf("unknown health mode %q", c.Service.Health)
	}

	return r, nil
}

// Load receives the path for yaml config file and returns a filled Config struct.
// A missing file is not an error: defaults and environment variables apply.
func Load(configPath string) (*Config, error) {
	var cfg Config

	_, statErr := os.Stat(configPath)
	switch {
	case configPath == "" || errors.Is(statErr, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("could not read config from env: %w", err)
		}
	default:
		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	if _, err := cfg.Routes(); err != nil {
		return nil, err
	}

	return &cfg, nil
}
