package controller

import (
	"errors"
	"fmt"
	"intake/pkg/logger"
	"intake/pkg/serrors"
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"
)

// WithRecovery returns a middleware that converts a panic in next into a
// logged, generic JSON 500. http.ErrAbortHandler is re-panicked so net/http
// can abort the connection as intended.
func WithRecovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			p := recover()
			if p == nil {
				return
			}
			if err, ok := p.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(p)
			}

			ctx := r.Context()
			logger.Error(ctx, "captured panic in handler",
				zap.Any("panic", p),
				zap.ByteString("stack", debug.Stack()))
			WriteError(ctx, w, serrors.Wrap(serrors.ErrInternal, fmt.Errorf("panic: %v", p), "handler panicked"))
		}()

		next.ServeHTTP(w, r)
	})
}
