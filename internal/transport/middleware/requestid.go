package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/frahmantamala/helpdesk-console/pkg/logger"
)

// RequestID carries the caller's X-Trace-ID, or a fresh one, through the
// request logger and back on the response.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get("X-Trace-ID")
		if traceID == "" {
			traceID = uuid.NewString()
		}

		ctx := logger.With(r.Context(), "traceID", traceID)

		w.Header().Set("X-Trace-ID", traceID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
