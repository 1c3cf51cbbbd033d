package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rateLimitedRouter(t *testing.T, limit float64, burst int) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rl, err := NewRateLimiter(limit, burst)
	require.NoError(t, err)

	router := gin.New()
	router.Use(rl.Handler())
	router.GET("/ping", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func doRequest(router *gin.Engine, remoteAddr string) int {
	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.RemoteAddr = remoteAddr
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimiterAllowsWithinBurst(t *testing.T) {
	router := rateLimitedRouter(t, 1, 3)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.1:1234"))
	}
}

func TestRateLimiterRejectsBeyondBurst(t *testing.T) {
	router := rateLimitedRouter(t, 0.001, 2)

	assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.2:1234"))
	assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.2:1234"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "10.0.0.2:1234"))
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	router := rateLimitedRouter(t, 0.001, 1)

	assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.3:1234"))
	assert.Equal(t, http.StatusTooManyRequests, doRequest(router, "10.0.0.3:1234"))

	// A different client gets its own bucket.
	assert.Equal(t, http.StatusOK, doRequest(router, "10.0.0.4:1234"))
}
