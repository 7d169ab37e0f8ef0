package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func setupRateLimitedRouter(limiter *IPRateLimiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/book", limiter.Middleware(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"success": true})
	})
	return router
}

func TestRateLimiter_AllowsWithinBurst(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 3)
	router := setupRateLimitedRouter(limiter)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/book", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "Request %d within burst should pass", i+1)
	}
}

func TestRateLimiter_RejectsBeyondBurst(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.01), 1)
	router := setupRateLimitedRouter(limiter)

	req := httptest.NewRequest(http.MethodPost, "/book", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodPost, "/book", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var response map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response["success"].(bool))
	errorData := response["error"].(map[string]interface{})
	assert.Equal(t, "RATE_LIMITED", errorData["code"])
}

func TestRateLimiter_TracksIPsIndependently(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(0.01), 1)
	router := setupRateLimitedRouter(limiter)

	first := httptest.NewRequest(http.MethodPost, "/book", nil)
	first.RemoteAddr = "10.0.0.3:1234"
	w := httptest.NewRecorder()
	router.ServeHTTP(w, first)
	assert.Equal(t, http.StatusOK, w.Code)

	// A different client still has its full burst available.
	second := httptest.NewRequest(http.MethodPost, "/book", nil)
	second.RemoteAddr = "10.0.0.4:1234"
	w = httptest.NewRecorder()
	router.ServeHTTP(w, second)
	assert.Equal(t, http.StatusOK, w.Code)
}
