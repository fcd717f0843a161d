package httpmiddleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestAllowExhaustsCapacity(t *testing.T) {
	l := NewTokenBucket(3, 60)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow("10.0.0.1"), "request %d", i)
	}
	assert.False(t, l.Allow("10.0.0.1"))

	// Other keys have their own buckets.
	assert.True(t, l.Allow("10.0.0.2"))
}

func TestAllowRefillsOverTime(t *testing.T) {
	l := NewTokenBucket(1, 6000) // 100 tokens/second

	assert.True(t, l.Allow("10.0.0.1"))
	assert.False(t, l.Allow("10.0.0.1"))

	time.Sleep(50 * time.Millisecond)
	assert.True(t, l.Allow("10.0.0.1"))
}

func TestGinMiddlewareRejectsWith429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(NewTokenBucket(1, 60).GinMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}
