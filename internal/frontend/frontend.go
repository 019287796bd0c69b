// Package frontend serves the registration form page and, in deployments
// without a path-routing load balancer, proxies API calls to the backend.
package frontend

import (
	"context"
	"embed"
	"fmt"
	"intake/internal/config"
	"intake/pkg/controller"
	"intake/pkg/logger"
	"intake/pkg/serrors"
	"io/fs"
	"log/slog"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

//go:embed static
var staticFiles embed.FS

// Options configure the frontend server.
type Options struct {
	// Addr is the TCP address the server listens on, e.g. ":3000".
	Addr string
	// BackendURL is where requests under APIPrefix are forwarded. Empty
	// disables the proxy and leaves API routing to an upstream load balancer.
	BackendURL string
	// APIPrefix is matched and stripped before forwarding.
	APIPrefix string
	// Transport overrides the proxy round tripper; nil uses a pooled transport.
	Transport http.RoundTripper
}

// NewOptions constructs an Options value from the provided application configuration.
func NewOptions(cfg *config.Config) Options {
	return Options{
		Addr:       cfg.Frontend.Addr,
		BackendURL: cfg.Frontend.BackendURL,
		APIPrefix:  cfg.Frontend.APIPrefix,
	}
}

// NewHandler returns the frontend routes: static files with index.html at
// "/", plus the API proxy when BackendURL is set.
func NewHandler(ctx context.Context, opts Options) (http.Handler, error) {
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, fmt.Errorf("could not open static files: %w", err)
	}

	r := chi.NewRouter()
	r.Use(controller.WithLogger, controller.WithRecovery)
	r.NotFound(http.FileServer(http.FS(static)).ServeHTTP)

	if opts.BackendURL != "" {
		proxy, err := NewProxy(ctx, opts)
		if err != nil {
			return nil, err
		}
		prefix := apiPrefix(opts)
		r.Handle(prefix, proxy)
		r.Handle(prefix+"/*", proxy)
	}

	return r, nil
}

// NewProxy returns a reverse proxy that strips APIPrefix from the request
// path and forwards to BackendURL, rewriting the Host header to the backend.
func NewProxy(ctx context.Context, opts Options) (*httputil.ReverseProxy, error) {
	target, err := url.Parse(opts.BackendURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse backend URL: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("backend URL %q must be absolute", opts.BackendURL)
	}

	transport := opts.Transport
	if transport == nil {
		transport = &http.Transport{
			MaxIdleConns:          50,
			MaxIdleConnsPerHost:   10,
			IdleConnTimeout:       30 * time.Second,
			ResponseHeaderTimeout: 10 * time.Second,
		}
	}

	prefix := apiPrefix(opts)

	return &httputil.ReverseProxy{
		Rewrite: func(pr *httputil.ProxyRequest) {
			pr.Out.URL.Path = strings.TrimPrefix(pr.In.URL.Path, prefix)
			pr.Out.URL.RawPath = ""
			pr.SetURL(target)
			pr.SetXForwarded()
		},
		Transport: transport,
		ErrorLog:  logger.StdLogger(ctx, slog.LevelWarn),
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			logger.Warn(r.Context(), "could not reach backend",
				zap.String("backend", target.String()),
				zap.Error(err))
			controller.WriteError(r.Context(), w, serrors.Wrap(serrors.ErrUnavailable, err, "backend unavailable"))
		},
	}, nil
}

// DefaultAPIPrefix is proxied when Options.APIPrefix is empty.
const DefaultAPIPrefix = "/api"

func apiPrefix(opts Options) string {
	prefix := strings.TrimSuffix(opts.APIPrefix, "/")
	if prefix == "" {
		return DefaultAPIPrefix
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	return prefix
}

// NewServer wires up and returns a configured *http.Server using the provided Options.
func NewServer(ctx context.Context, opts Options) (*http.Server, error) {
	h, err := NewHandler(ctx, opts)
	if err != nil {
		return nil, err
	}

	return &http.Server{
		Addr:              opts.Addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger.StdLogger(ctx, slog.LevelWarn),
	}, nil
}
