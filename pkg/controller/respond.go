package controller

import (
	"context"
	"intake/pkg/domain"
	"intake/pkg/logger"
	"intake/pkg/serrors"
	"net/http"

	"go.uber.org/zap"
)

// internalErrorMessage is reported for every error without a client-facing kind.
const internalErrorMessage = "internal error"

// WriteJSON writes v as a JSON body with the given status code.
func WriteJSON(ctx context.Context, w http.ResponseWriter, status int, v domain.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(domain.Marshal(v)); err != nil {
		logger.Debug(ctx, "could not write response body", zap.Error(err))
	}
}

// StatusOf maps the semantic kind carried by err to an HTTP status code.
func StatusOf(err error) int {
	switch serrors.KindOf(err) {
	case serrors.ErrMalformedRequest, serrors.ErrMissingField, serrors.ErrBadRequest:
		return http.StatusBadRequest
	case serrors.ErrPayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case serrors.ErrNotFound:
		return http.StatusNotFound
	case serrors.ErrMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case serrors.ErrUnavailable:
		// only produced when an upstream we proxy to fails
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WriteError writes err as an ErrorResponse. Client errors expose their
// message (or the status text when there is none); everything else is
// logged and reported as a generic internal error.
func WriteError(ctx context.Context, w http.ResponseWriter, err error) {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error(ctx, "request failed", zap.Error(err))
		WriteJSON(ctx, w, status, domain.ErrorResponse{Error: internalErrorMessage})

		return
	}

	msg := serrors.MessageOf(err)
	if msg == "" {
		msg = http.StatusText(status)
	}
	WriteJSON(ctx, w, status, domain.ErrorResponse{Error: msg})
}

// NotFound answers unmatched routes with a JSON 404.
func NotFound(w http.ResponseWriter, r *http.Request) {
	WriteError(r.Context(), w, serrors.KindOnly(serrors.ErrNotFound))
}

// MethodNotAllowed answers known routes requested with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	WriteError(r.Context(), w, serrors.KindOnly(serrors.ErrMethodNotAllowed))
}
