package middleware

import (
	"net/http"

	"github.com/google/uuid"
)

// RequestID assigns each request an id, echoed in responses and error
// bodies. An id supplied by the client is kept so frontend logs correlate.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
			r.Header.Set("X-Request-ID", id)
		}
		w.Header().Set("X-Request-ID", id)
		next.ServeHTTP(w, r)
	})
}
