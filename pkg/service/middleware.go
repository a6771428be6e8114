package service

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/Dicklesworthstone/frankenmermaid-sub000/pkg/observability"
)

type ctxKey int

const requestIDKey ctxKey = iota

// RequestID returns the request id assigned by the middleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// requestIDMiddleware assigns every request a unique id, honoring an
// X-Request-ID header from an upstream proxy when present.
func requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", id)
		ctx := context.WithValue(r.Context(), requestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// statusRecorder captures the response status for the service hooks.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// hooksMiddleware emits request/response events to the observability
// registry.
func hooksMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		observability.Service().OnRequest(r.Context(), r.Method, r.URL.Path)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		observability.Service().OnResponse(r.Context(), r.Method, r.URL.Path, rec.status, time.Since(start))
	})
}
