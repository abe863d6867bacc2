package middleware

import (
	"net/http"

	"github.com/google/uuid"

	wrap "github.com/taskport/worker-match-system/pkg/logger/wrapper"
)

const requestIDHeader = "X-Request-Id"

// RequestID propagates the caller's request ID, or mints one, so every log
// line and downstream call of a request shares a correlation ID.
func (m *Middleware) RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(requestIDHeader)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		ctx := wrap.WithRequestID(r.Context(), requestID)
		w.Header().Set(requestIDHeader, requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
