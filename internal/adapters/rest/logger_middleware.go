package rest

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/contextkeys"
	"github.com/mrwolf1595/nahdat-alkhaleej-sub001/internal/core/port"
)

const traceHeader = "X-Trace-ID"

// quietPaths are logged at debug level only.
var quietPaths = map[string]bool{"/healthz": true}

// LoggerMiddleware assigns the request a trace id, stores a logger scoped to it
// in the context and logs one line per finished request. The line's level
// follows the response status.
func LoggerMiddleware(logger port.LoggerPort) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			traceID := r.Header.Get(traceHeader)
			if _, err := uuid.Parse(traceID); err != nil {
				traceID = uuid.NewString()
			}

			reqLogger := logger.WithFields(port.Fields{"trace_id": traceID})
			ctx := contextkeys.ContextWithTraceID(contextkeys.ContextWithLogger(r.Context(), reqLogger), traceID)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			ww.Header().Set(traceHeader, traceID)
			started := time.Now()

			next.ServeHTTP(ww, r.WithContext(ctx))

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			fields := port.Fields{
				"http_method":   r.Method,
				"http_path":     r.URL.Path,
				"remote_addr":   r.RemoteAddr,
				"status_code":   status,
				"bytes_written": ww.BytesWritten(),
				"duration_ms":   time.Since(started).Milliseconds(),
			}

			switch {
			case quietPaths[r.URL.Path]:
				reqLogger.Debug("Request handled", fields)
			case status >= http.StatusInternalServerError:
				reqLogger.Error("Request failed", nil, fields)
			case status >= http.StatusBadRequest:
				reqLogger.Warn("Request rejected", fields)
			default:
				reqLogger.Info("Request handled", fields)
			}
		})
	}
}
