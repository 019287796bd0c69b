// Package domain contains the request and response values exchanged by the
// registration intake service. They are request scoped and never persisted;
// the same types are used by the HTTP handlers and by the intake client.
package domain
