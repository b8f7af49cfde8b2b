package middleware

import "net/http"

// MaxBodySize caps the request body at maxBytes. Applied to the metadata
// routes; the audio upload route enforces its own larger ceiling inside the
// translate handler.
func MaxBodySize(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
