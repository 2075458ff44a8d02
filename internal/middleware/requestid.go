package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/taskboard/api/internal/request"
)

// RequestIDHeader carries the request correlation id on responses.
const RequestIDHeader = "X-Request-ID"

// RequestID attaches a correlation id to every request, reusing the caller's
// id when one is supplied.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(request.WithRequestID(r.Context(), id)))
	})
}
