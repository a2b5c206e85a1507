package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
)

// TimeoutMiddleware adds request timeout to prevent long-running requests.
// Once the request context is done the handler can no longer reach the real
// ResponseWriter, whether the deadline passed or the client went away.
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			r = r.WithContext(ctx)

			tw := &timeoutWriter{w: w, h: make(http.Header)}
			done := make(chan struct{})
			go func() {
				defer close(done)
				next.ServeHTTP(tw, r)
			}()

			select {
			case <-done:
				tw.finish()
			case <-ctx.Done():
				answered := tw.expire()
				if ctx.Err() != context.DeadlineExceeded {
					zap.S().Debugw("request cancelled by client", "path", r.URL.Path, "method", r.Method)
					return
				}
				if answered {
					return
				}
				zap.S().Warnw("request timeout",
					"path", r.URL.Path,
					"method", r.Method,
					"timeout", timeout)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusRequestTimeout)
				w.Write([]byte(`{"response": "request timeout"}`))
			}
		})
	}
}

// timeoutWriter keeps its own header map so the handler goroutine never
// touches the real one after the middleware has returned.
type timeoutWriter struct {
	w http.ResponseWriter
	h http.Header

	mu          sync.Mutex
	expired     bool
	wroteHeader bool
}

// expire marks the writer dead and reports whether the handler had already answered
func (tw *timeoutWriter) expire() bool {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.expired = true
	return tw.wroteHeader
}

// finish sends the headers of a handler that returned without writing anything
func (tw *timeoutWriter) finish() {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if !tw.expired && !tw.wroteHeader {
		tw.copyHeader()
	}
}

func (tw *timeoutWriter) copyHeader() {
	dst := tw.w.Header()
	for k, v := range tw.h {
		dst[k] = v
	}
}

func (tw *timeoutWriter) Header() http.Header { return tw.h }

func (tw *timeoutWriter) WriteHeader(code int) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	tw.writeHeaderLocked(code)
}

func (tw *timeoutWriter) writeHeaderLocked(code int) {
	if tw.expired || tw.wroteHeader {
		return
	}
	tw.wroteHeader = true
	tw.copyHeader()
	tw.w.WriteHeader(code)
}

func (tw *timeoutWriter) Write(b []byte) (int, error) {
	tw.mu.Lock()
	defer tw.mu.Unlock()
	if tw.expired {
		return 0, http.ErrHandlerTimeout
	}
	tw.writeHeaderLocked(http.StatusOK)
	return tw.w.Write(b)
}
