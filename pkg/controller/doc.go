// Package controller contains HTTP middlewares and helper handlers shared by
// the backend and frontend servers.
//
// Provided middlewares:
//   - WithCORS: Applies the configured cross-origin policy and answers preflight requests.
//   - WithLogger: Attaches a request-scoped logger and request ID to the context and logs access info.
//   - WithRecovery: Turns handler panics into a JSON 500 response.
//   - WithMetrics: Records request count and latency per route.
//
// Provided helpers:
//   - PprofMux: Returns a ServeMux exposing net/http/pprof handlers.
//   - WriteJSON / WriteError: Encode response bodies.
package controller
