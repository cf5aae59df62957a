package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetricsCollectorSplitsClientAndServerErrors(t *testing.T) {
	var requests, clientErrs, serverErrs atomic.Int64
	mc := NewMetricsCollector(&requests, &clientErrs, &serverErrs)

	handler := mc.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
		case "/boom":
			w.WriteHeader(http.StatusInternalServerError)
		default:
			w.WriteHeader(http.StatusOK)
		}
	}))

	for _, path := range []string{"/", "/missing", "/boom", "/"} {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, int64(4), requests.Load())
	assert.Equal(t, int64(1), clientErrs.Load())
	assert.Equal(t, int64(1), serverErrs.Load())
}
