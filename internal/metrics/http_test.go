package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMetricsRouter(t *testing.T) (*gin.Engine, *Provider) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	provider, err := NewProvider("http_test")
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, provider.Shutdown(context.Background()))
	})

	router := gin.New()
	router.Use(HTTPMetricsMiddleware(provider.MeterProvider(), "http_test"))
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.POST("/login", func(c *gin.Context) { c.Status(http.StatusSeeOther) })
	router.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	return router, provider
}

func serve(router *gin.Engine, method, path string) int {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w.Code
}

func scrape(provider *Provider) string {
	w := httptest.NewRecorder()
	provider.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return w.Body.String()
}

func TestHTTPMetricsMiddleware_RecordsRoutePattern(t *testing.T) {
	router, provider := newMetricsRouter(t)

	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/users/123"))
	assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/users/456"))
	assert.Equal(t, http.StatusSeeOther, serve(router, http.MethodPost, "/login"))

	output := scrape(provider)
	assert.Regexp(t, `http_test_http_requests_total\{[^}]*path="/users/:id"[^}]*\} 2`, output)
	assert.Regexp(t, `http_test_http_requests_total\{[^}]*method="POST"[^}]*status_code="303"[^}]*\} 1`, output)
	assert.NotContains(t, output, `path="/users/123"`)
}

func TestHTTPMetricsMiddleware_SkipsProbes(t *testing.T) {
	router, provider := newMetricsRouter(t)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, serve(router, http.MethodGet, "/health"))
	}
	serve(router, http.MethodPost, "/login")

	output := scrape(provider)
	assert.NotContains(t, output, `path="/health"`)
	assert.Contains(t, output, `path="/login"`)
}

func TestHTTPMetricsMiddleware_InFlightReturnsToZero(t *testing.T) {
	router, provider := newMetricsRouter(t)

	serve(router, http.MethodPost, "/login")

	assert.Regexp(t, `http_test_http_requests_in_flight\{[^}]*method="POST"[^}]*\} 0`, scrape(provider))
}

func TestHTTPMetricsMiddleware_UnmatchedRoute(t *testing.T) {
	router, provider := newMetricsRouter(t)

	assert.Equal(t, http.StatusNotFound, serve(router, http.MethodGet, "/nope"))

	assert.Contains(t, scrape(provider), `path="unknown"`)
}

func TestSanitizePath(t *testing.T) {
	assert.Equal(t, "/users/:id", sanitizePath("/users/:id"))
	assert.Equal(t, "/", sanitizePath("/"))
	assert.Equal(t, "unknown", sanitizePath(""))
}
