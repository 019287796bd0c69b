package controller

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORSOptions describes the cross-origin policy. Zero values fall back to a
// policy that lets any origin call GET, POST and OPTIONS with any header.
type CORSOptions struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	// MaxAge is the preflight cache lifetime in seconds; 0 omits the header.
	MaxAge int
}

// WithCORS returns a middleware that applies opts to every response and
// short-circuits OPTIONS preflight requests before they reach next.
// Credentials are never allowed, so a wildcard origin stays valid for browsers.
func WithCORS(opts CORSOptions) func(next http.Handler) http.Handler {
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	if len(opts.AllowedMethods) == 0 {
		opts.AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	if len(opts.AllowedHeaders) == 0 {
		opts.AllowedHeaders = []string{"*"}
	}

	return cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   opts.AllowedMethods,
		AllowedHeaders:   opts.AllowedHeaders,
		AllowCredentials: false,
		MaxAge:           opts.MaxAge,
	})
}
