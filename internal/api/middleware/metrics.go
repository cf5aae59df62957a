package middleware

import (
	"net/http"
	"sync/atomic"
)

// MetricsCollector counts requests, splitting failures into client errors
// (4xx, usually the caller's fault) and server errors (5xx, ours).
type MetricsCollector struct {
	requestCount     *atomic.Int64
	clientErrorCount *atomic.Int64
	serverErrorCount *atomic.Int64
}

// NewMetricsCollector creates a new metrics collector.
func NewMetricsCollector(requestCount, clientErrorCount, serverErrorCount *atomic.Int64) *MetricsCollector {
	return &MetricsCollector{
		requestCount:     requestCount,
		clientErrorCount: clientErrorCount,
		serverErrorCount: serverErrorCount,
	}
}

// Middleware returns middleware that counts requests and errors.
func (mc *MetricsCollector) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mc.requestCount.Add(1)

		// Wrap response writer to capture status
		rw := newResponseWriter(w)
		next.ServeHTTP(rw, r)

		switch {
		case rw.statusCode >= 500:
			mc.serverErrorCount.Add(1)
		case rw.statusCode >= 400:
			mc.clientErrorCount.Add(1)
		}
	})
}
