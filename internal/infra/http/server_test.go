package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine(t *testing.T, metrics bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewEngine(Options{
		AppName:       "SmartSpend API",
		Version:       "1.0.0",
		CORSOrigins:   []string{"http://localhost:3000"},
		ExposeMetrics: metrics,
	}, log, func(r gin.IRouter) {
		r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })
	})
}

func TestHealth(t *testing.T) {
	w := httptest.NewRecorder()
	testEngine(t, false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestRootBanner(t *testing.T) {
	w := httptest.NewRecorder()
	testEngine(t, false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"app":"SmartSpend API","version":"1.0.0","status":"running"}`, w.Body.String())
}

func TestAPIGroupAndRequestID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	w := httptest.NewRecorder()
	testEngine(t, false).ServeHTTP(w, req)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
}

func TestMetricsToggle(t *testing.T) {
	w := httptest.NewRecorder()
	testEngine(t, false).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = httptest.NewRecorder()
	testEngine(t, true).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/ping", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	testEngine(t, false).ServeHTTP(w, req)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))
}
