package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAllowRequestEnforcesMinuteLimit(t *testing.T) {
	rl := NewRateLimiter(3, 0, 0, true)

	for i := 0; i < 3; i++ {
		assert.True(t, rl.AllowRequest(), "request %d should be allowed", i+1)
	}
	assert.False(t, rl.AllowRequest())
}

func TestDisabledLimiterAllowsEverything(t *testing.T) {
	rl := NewRateLimiter(1, 1, 1, false)

	for i := 0; i < 100; i++ {
		assert.True(t, rl.AllowRequest())
	}
	assert.False(t, rl.GetStats().Enabled)
}

func TestResetClearsWindows(t *testing.T) {
	rl := NewRateLimiter(2, 0, 0, true)

	rl.AllowRequest()
	rl.AllowRequest()
	assert.False(t, rl.AllowRequest())

	rl.Reset()
	assert.True(t, rl.AllowRequest())
}

func TestGetStats(t *testing.T) {
	rl := NewRateLimiter(10, 100, 1000, true)

	rl.AllowRequest()
	rl.AllowRequest()

	stats := rl.GetStats()
	assert.True(t, stats.Enabled)
	assert.Equal(t, 2, stats.RequestsLastMinute)
	assert.Equal(t, 8, stats.RemainingThisMinute)
	assert.Equal(t, 98, stats.RemainingThisHour)
	assert.Equal(t, 998, stats.RemainingThisDay)
}

func TestMiddlewareRejectsOverLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rl := NewRateLimiter(1, 0, 0, true)
	r := gin.New()
	r.POST("/ingest", rl.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ingest", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/ingest", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
