package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestStoreAllowsBurstThenBlocks(t *testing.T) {
	store := NewStore(60, 2)
	fixed := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }

	require.True(t, store.Allow("1.2.3.4"))
	require.True(t, store.Allow("1.2.3.4"))
	require.False(t, store.Allow("1.2.3.4"))
	require.True(t, store.Allow("5.6.7.8"))

	fixed = fixed.Add(time.Second)
	require.True(t, store.Allow("1.2.3.4"))
}

func TestStoreEvictsIdleClients(t *testing.T) {
	store := NewStore(60, 1)
	fixed := time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return fixed }
	store.lastSweep = fixed

	require.True(t, store.Allow("1.2.3.4"))
	fixed = fixed.Add(idleEviction + time.Minute)
	require.True(t, store.Allow("5.6.7.8"))
	require.NotContains(t, store.limiters, "1.2.3.4")
}

func TestMiddlewareReturns429(t *testing.T) {
	gin.SetMode(gin.TestMode)
	store := NewStore(1, 1)
	r := gin.New()
	r.Use(Middleware(store, zap.NewNop()))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest(http.MethodGet, "/", nil)
		r.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}
	require.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}
