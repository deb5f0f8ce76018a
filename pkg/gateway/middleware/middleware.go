package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/dc311rn/api/pkg/common/logger"
	"github.com/dc311rn/api/pkg/common/requestid"
	"github.com/dc311rn/api/pkg/observability/metrics"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type statusRecorder struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (s *statusRecorder) WriteHeader(code int) {
	if !s.wroteHeader {
		s.status = code
		s.wroteHeader = true
	}
	s.ResponseWriter.WriteHeader(code)
}

func (s *statusRecorder) Write(b []byte) (int, error) {
	s.wroteHeader = true
	return s.ResponseWriter.Write(b)
}

// RequestID makes sure every request carries an id, both in its context and
// in the X-Request-ID response header.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get(requestid.Header)
		if reqID == "" {
			reqID = uuid.New().String()
		}

		w.Header().Set(requestid.Header, reqID)
		ctx := requestid.With(r.Context(), reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Logging writes one access log line per request and records HTTP metrics.
func Logging(reg *metrics.Registry) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			elapsed := time.Since(start)
			reg.ObserveHTTP(routeOf(r), rec.status, elapsed)

			logger.FromContext(r.Context()).WithFields(map[string]interface{}{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"remote_addr": r.RemoteAddr,
				"duration":    elapsed.Milliseconds(),
			}).Info("HTTP request")
		})
	}
}

// Recovery turns a panic into an error response through onPanic. When the
// handler already started its response only the log line is written.
func Recovery(onPanic func(w http.ResponseWriter, r *http.Request, err error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			defer func() {
				if rv := recover(); rv != nil {
					entry := logger.FromContext(r.Context()).WithField("error", rv)
					if rec.wroteHeader {
						entry.WithField("status", rec.status).Error("Panic recovered after response started")
						return
					}
					entry.Error("Panic recovered")
					onPanic(w, r, fmt.Errorf("panic: %v", rv))
				}
			}()

			next.ServeHTTP(rec, r)
		})
	}
}

// CORS allows read-only cross-origin access from origin.
func CORS(origin string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")
			w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
			w.Header().Set("Access-Control-Expose-Headers", "X-Request-ID")
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func routeOf(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tmpl, err := route.GetPathTemplate(); err == nil {
			return tmpl
		}
	}
	return "unmatched"
}
