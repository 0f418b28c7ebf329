package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedRouter(t *testing.T, client *redis.Client) *gin.Engine {
	t.Helper()
	store, err := NewRateLimitStore(client)
	require.NoError(t, err)

	router := gin.New()
	router.Use(RateLimitMiddleware(testConfig, store))
	router.GET("/reviews", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func hit(router *gin.Engine) int {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/reviews", nil)
	req.RemoteAddr = "203.0.113.9:4321"
	router.ServeHTTP(w, req)
	return w.Code
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("Should throttle with the in-memory store", func(t *testing.T) {
		router := newLimitedRouter(t, nil)
		assert.Equal(t, http.StatusOK, hit(router))
		assert.Equal(t, http.StatusOK, hit(router))
		assert.Equal(t, http.StatusTooManyRequests, hit(router))
	})

	t.Run("Should share counters through redis", func(t *testing.T) {
		s := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: s.Addr()})
		t.Cleanup(func() { client.Close() })

		first := newLimitedRouter(t, client)
		second := newLimitedRouter(t, client)

		assert.Equal(t, http.StatusOK, hit(first))
		assert.Equal(t, http.StatusOK, hit(second))
		assert.Equal(t, http.StatusTooManyRequests, hit(first))
	})
}
