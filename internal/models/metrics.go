package models

import "time"

// SystemMetrics is a lightweight snapshot of process counters.
type SystemMetrics struct {
	RequestsTotal             uint64    `json:"requestsTotal"`
	AverageRequestDurationMs  float64   `json:"averageRequestDurationMs"`
	UpstreamCalls             uint64    `json:"upstreamCalls"`
	UpstreamFailures          uint64    `json:"upstreamFailures"`
	AverageUpstreamDurationMs float64   `json:"averageUpstreamDurationMs"`
	CacheHits                 uint64    `json:"cacheHits"`
	CacheMisses               uint64    `json:"cacheMisses"`
	CacheHitRatio             float64   `json:"cacheHitRatio"`
	Goroutines                int       `json:"goroutines"`
	GeneratedAt               time.Time `json:"generatedAt"`
}
