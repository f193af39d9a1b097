package middleware

import (
	"net/http"
	"time"
	"todo-api/logger"
)

// statusRecorder captures the status code and body size written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	bytes      int
}

// newStatusRecorder defaults the status to 200, as WriteHeader is not always called.
func newStatusRecorder(w http.ResponseWriter) *statusRecorder {
	return &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.statusCode = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	n, err := sr.ResponseWriter.Write(b)
	sr.bytes += n
	return n, err
}

// LoggingMiddleware logs one entry per request once the handler has returned.
// It must sit inside RequestIDMiddleware to pick up the request id.
func LoggingMiddleware(lg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			startTime := time.Now()

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			lg.HTTP(
				r.Method,
				r.URL.Path,
				rec.statusCode,
				time.Since(startTime),
				map[string]any{
					"remote_addr":    r.RemoteAddr,
					"user_agent":     r.UserAgent(),
					"request_id":     RequestIDFromContext(r.Context()),
					"response_bytes": rec.bytes,
				},
			)
		})
	}
}
