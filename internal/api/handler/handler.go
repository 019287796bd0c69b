// Package handler implements the HTTP endpoints of the intake backend.
package handler

import (
	"errors"
	"intake/internal/intake"
	"intake/pkg/controller"
	"intake/pkg/domain"
	"intake/pkg/serrors"
	"io"
	"mime"
	"net/http"
	"strings"
)

const (
	// MalformedRequestMessage is reported when the body is not a JSON object.
	MalformedRequestMessage = "Request must be JSON"
	// PayloadTooLargeMessage is reported when the body exceeds MaxBodyBytes.
	PayloadTooLargeMessage = "Request body too large"

	// DefaultMaxBodyBytes is used when Deps.MaxBodyBytes is not positive.
	DefaultMaxBodyBytes = 1 << 20
)

// Deps are the collaborators of Handler.
type Deps struct {
	Processor intake.Processor
	// MaxBodyBytes caps the registration body size.
	MaxBodyBytes int64
}

type Handler struct {
	deps Deps
}

func New(deps Deps) *Handler {
	if deps.MaxBodyBytes <= 0 {
		deps.MaxBodyBytes = DefaultMaxBodyBytes
	}

	return &Handler{deps: deps}
}

// ProcessForm decodes a registration from the request body and answers with
// the processed message or an ErrorResponse.
func (h Handler) ProcessForm(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := h.decodeRegistration(w, r)
	if err != nil {
		controller.WriteError(ctx, w, err)

		return
	}

	res, err := h.deps.Processor.Process(ctx, req)
	if err != nil {
		controller.WriteError(ctx, w, err)

		return
	}

	controller.WriteJSON(ctx, w, http.StatusOK, res)
}

// HealthCheck reports liveness. It has no dependencies and never fails.
func (h Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	controller.WriteJSON(r.Context(), w, http.StatusOK, domain.HealthStatus{Status: domain.HealthStatusHealthy})
}

func (h Handler) decodeRegistration(w http.ResponseWriter, r *http.Request) (domain.RegistrationRequest, error) {
	var req domain.RegistrationRequest

	if !IsJSONContentType(r.Header.Get("Content-Type")) {
		return req, serrors.With(serrors.ErrMalformedRequest, MalformedRequestMessage)
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.deps.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return req, serrors.Wrap(serrors.ErrPayloadTooLarge, err, PayloadTooLargeMessage)
		}

		return req, serrors.Wrap(serrors.ErrMalformedRequest, err, MalformedRequestMessage)
	}

	if err := domain.Unmarshal(body, &req); err != nil {
		return req, serrors.Wrap(serrors.ErrMalformedRequest, err, MalformedRequestMessage)
	}

	return req, nil
}

// IsJSONContentType reports whether a Content-Type header names a JSON media
// type: application/json or any application/*+json, parameters ignored.
func IsJSONContentType(contentType string) bool {
	mt, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mt == "application/json" ||
		(strings.HasPrefix(mt, "application/") && strings.HasSuffix(mt, "+json"))
}
