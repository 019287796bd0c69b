// Package api configures and exposes the HTTP server of the intake backend:
// registration and health routes, metrics, docs, profiling and the shared
// middleware stack.
package api

import (
	"context"
	_ "embed"
	"fmt"
	"intake/internal/api/handler"
	"intake/internal/config"
	"intake/internal/intake"
	"intake/pkg/controller"
	"intake/pkg/logger"
	"intake/pkg/metrics"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/swaggest/swgui/v5emb"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// apiSpec contains the embedded OpenAPI document of the service.
//
//go:embed specs/intake.yaml
var apiSpec []byte

const (
	specPath = "/specs/intake.yaml"
	docsPath = "/docs/"
)

// Options holds configuration for the HTTP server and its dependencies.
// Zero durations leave the corresponding net/http default in place.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. ":5000".
	Addr string
	// ReadTimeout is the maximum duration for reading the entire request, including the body.
	ReadTimeout time.Duration
	// ReadHeaderTimeout is the amount of time allowed to read request headers.
	ReadHeaderTimeout time.Duration
	// WriteTimeout is the maximum duration before timing out writes of the response.
	WriteTimeout time.Duration
	// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled.
	IdleTimeout time.Duration
	// RequestTimeout bounds the handling of a single request via http.TimeoutHandler.
	RequestTimeout time.Duration
	// MaxHeaderBytes controls the maximum number of bytes the server
	// will read parsing the request header's keys and values, including the request line.
	MaxHeaderBytes int
	// MaxBodyBytes caps registration bodies.
	MaxBodyBytes int64
	// MetricsPath is the HTTP path at which Prometheus metrics are served.
	MetricsPath string

	// Routes selects the registration path and whether /health is served.
	Routes config.Routes
	// CORS is the cross-origin policy applied to every route.
	CORS controller.CORSOptions

	// Registerer and Gatherer back the metrics endpoint. Nil values use the
	// prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewOptions constructs an Options value from the provided application configuration.
func NewOptions(cfg *config.Config) (Options, error) {
	routes, err := cfg.Routes()
	if err != nil {
		return Options{}, fmt.Errorf("could not resolve routes: %w", err)
	}

	return Options{
		Addr:              cfg.HTTP.Addr,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		RequestTimeout:    cfg.HTTP.RequestTimeout,
		MaxHeaderBytes:    cfg.HTTP.MaxHeaderBytes,
		MaxBodyBytes:      cfg.HTTP.MaxBodyBytes,
		MetricsPath:       cfg.HTTP.MetricsPath,
		Routes:            routes,
		CORS: controller.CORSOptions{
			AllowedOrigins: cfg.CORS.AllowedOrigins,
			AllowedMethods: cfg.CORS.AllowedMethods,
			AllowedHeaders: cfg.CORS.AllowedHeaders,
			MaxAge:         cfg.CORS.MaxAge,
		},
	}, nil
}

// NewHandler builds the complete request handler:
//   - POST Routes.ProcessPath and, when enabled, GET /health
//   - Prometheus metrics (MetricsPath) fed by an OpenTelemetry meter provider
//   - the embedded OpenAPI document and Swagger UI
//   - pprof endpoints
//
// Every route runs behind the access log, metrics, panic recovery and CORS
// middlewares, and the whole tree is bounded by RequestTimeout.
func NewHandler(opts Options) (http.Handler, error) {
	registerer, gatherer := opts.Registerer, opts.Gatherer
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	exp, err := otelprom.New(otelprom.WithRegisterer(registerer))
	if err != nil {
		return nil, fmt.Errorf("could not create otel exporter: %w", err)
	}
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exp)).Meter(metrics.MeterName)

	withMetrics, err := controller.WithMetrics(meter)
	if err != nil {
		return nil, fmt.Errorf("could not create metrics middleware: %w", err)
	}

	processor, err := intake.New(intake.Options{Meter: meter})
	if err != nil {
		return nil, fmt.Errorf("could not create intake processor: %w", err)
	}
	h := handler.New(handler.Deps{
		Processor:    processor,
		MaxBodyBytes: opts.MaxBodyBytes,
	})

	r := chi.NewRouter()
	r.Use(controller.WithLogger, withMetrics, controller.WithRecovery, controller.WithCORS(opts.CORS))
	r.NotFound(controller.NotFound)
	r.MethodNotAllowed(controller.MethodNotAllowed)

	r.Post(opts.Routes.ProcessPath, h.ProcessForm)
	if opts.Routes.HealthEnabled {
		r.Get("/health", h.HealthCheck)
	}

	if opts.MetricsPath != "" {
		r.Method(http.MethodGet, opts.MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Get(specPath, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(apiSpec)
	})
	r.Handle(docsPath+"*", v5emb.New("Registration Intake Service", specPath, docsPath))

	r.Handle(controller.PprofPrefix+"*", controller.PprofMux())

	var out http.Handler = r
	if opts.RequestTimeout > 0 {
		out = http.TimeoutHandler(r, opts.RequestTimeout, `{"error":"request timed out"}`)
	}

	return out, nil
}

// NewServer wires up and returns a configured *http.Server using the provided Options.
func NewServer(ctx context.Context, opts Options) (*http.Server, error) {
	h, err := NewHandler(opts)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           h,
		ReadTimeout:       opts.ReadTimeout,
		ReadHeaderTimeout: opts.ReadHeaderTimeout,
		WriteTimeout:      opts.WriteTimeout,
		IdleTimeout:       opts.IdleTimeout,
		MaxHeaderBytes:    opts.MaxHeaderBytes,
		ErrorLog:          logger.StdLogger(ctx, slog.LevelWarn),
	}, nil
}
