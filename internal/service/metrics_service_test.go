package service

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsSnapshot(t *testing.T) {
	m := NewMetricsService()
	m.ObserveHTTPRequest("GET", "/api/health", 200, 10*time.Millisecond)
	m.ObserveHTTPRequest("POST", "/api/submit-availability", 400, 30*time.Millisecond)
	m.ObserveUpstreamCall("list", "Availability", 200, 100*time.Millisecond)
	m.ObserveUpstreamCall("create", "Availability", 0, 300*time.Millisecond)
	m.ObserveUpstreamCall("list", "Classes", 503, 200*time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)
	m.RecordCacheOperation(false, time.Millisecond)
	m.RecordCacheOperation(true, time.Millisecond)

	snap := m.Snapshot()
	assert.Equal(t, uint64(2), snap.RequestsTotal)
	assert.InDelta(t, 20, snap.AverageRequestDurationMs, 0.01)
	assert.Equal(t, uint64(3), snap.UpstreamCalls)
	assert.Equal(t, uint64(2), snap.UpstreamFailures)
	assert.InDelta(t, 200, snap.AverageUpstreamDurationMs, 0.01)
	assert.Equal(t, uint64(2), snap.CacheHits)
	assert.Equal(t, uint64(1), snap.CacheMisses)
	assert.InDelta(t, 2.0/3.0, snap.CacheHitRatio, 0.001)
	assert.Positive(t, snap.Goroutines)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.upstreamTotal.WithLabelValues("create", "Availability", "error")))
}

func TestMetricsHandlerExposesCollectors(t *testing.T) {
	m := NewMetricsService()
	m.RecordSubmission("created")
	m.RecordRateLimited()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `availability_submissions_total{outcome="created"} 1`)
	assert.Contains(t, string(body), "http_rate_limited_total 1")
}

func TestNilMetricsServiceIsSafe(t *testing.T) {
	var m *MetricsService
	assert.NotPanics(t, func() {
		m.ObserveHTTPRequest("GET", "/", 200, time.Millisecond)
		m.ObserveUpstreamCall("list", "t", 200, time.Millisecond)
		m.RecordSubmission("created")
		m.RecordRateLimited()
		m.RecordCacheOperation(true, time.Millisecond)
		m.ObserveCacheWrite(time.Millisecond)
	})
	assert.Zero(t, m.Snapshot().RequestsTotal)
}

type failingCacheRepo struct{ *memoryCacheRepo }

func (f *failingCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return errors.New("connection refused")
}

func TestCacheServiceSoftFailures(t *testing.T) {
	metrics := NewMetricsService()
	svc := NewCacheService(&failingCacheRepo{newMemoryCacheRepo()}, metrics, 0, nil, true)

	var dest string
	hit, err := svc.Get(context.Background(), "k", &dest)
	assert.False(t, hit)
	assert.Error(t, err)
	assert.Equal(t, uint64(1), metrics.Snapshot().CacheMisses)
}

func TestCacheServiceRoundTrip(t *testing.T) {
	repo := newMemoryCacheRepo()
	svc := NewCacheService(repo, nil, time.Minute, nil, true)
	ctx := context.Background()

	require.NoError(t, svc.Set(ctx, "k", map[string]int{"a": 1}, 0))
	var got map[string]int
	hit, err := svc.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, got["a"])

	require.NoError(t, svc.Invalidate(ctx, "k"))
	hit, err = svc.Get(ctx, "k", &got)
	require.NoError(t, err)
	assert.False(t, hit)

	disabled := NewCacheService(repo, nil, time.Minute, nil, false)
	assert.False(t, disabled.Enabled())
	hit, err = disabled.Get(ctx, "k", &got)
	assert.NoError(t, err)
	assert.False(t, hit)
}
