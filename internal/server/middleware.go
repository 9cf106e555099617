package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taskflowhq/taskflow/common/trace"
)

// userHeader carries the caller's identity. The API trusts it as-is;
// authentication proper is expected to happen at the edge.
const userHeader = "X-User-Id"

// statusRecorder captures the response status for the request log.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withTrace assigns every request a trace ID and logs it on completion.
func withTrace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := trace.WithTraceID(r.Context(), trace.GenerateID())
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		started := time.Now()
		next.ServeHTTP(rec, r.WithContext(ctx))

		slog.InfoContext(ctx, "http request",
			"trace_id", trace.FromContext(ctx),
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(started).Round(time.Millisecond),
		)
	})
}

// requireUser extracts the caller's user ID from the request header, writing
// a 400 when it is missing. Task endpoints are meaningless without an owner.
func requireUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID := r.Header.Get(userHeader)
	if userID == "" {
		writeError(w, http.StatusBadRequest, "X-User-Id header is required")
		return "", false
	}
	return userID, true
}
