package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/phrazzld/product-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger(t)

	handler := chimw.RequestID(NewTraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).Info("inside handler")
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte("short"))
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/product/3", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 3)

	traceID, _ := entries[0]["trace_id"].(string)
	assert.NotEmpty(t, traceID)
	for _, entry := range entries {
		assert.Equal(t, traceID, entry["trace_id"])
		assert.Equal(t, http.MethodDelete, entry["method"])
		assert.Equal(t, "/product/3", entry["path"])
	}

	assert.Equal(t, "inside handler", entries[1]["msg"])
	assert.Equal(t, "request completed", entries[2]["msg"])
	assert.Equal(t, float64(http.StatusTeapot), entries[2]["status"])
	assert.Equal(t, float64(5), entries[2]["bytes"])
}

func TestTraceMiddlewareDefaultsStatus(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger(t)
	handler := NewTraceMiddleware(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	entries, err := buf.Entries()
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, float64(http.StatusOK), entries[len(entries)-1]["status"])
}
