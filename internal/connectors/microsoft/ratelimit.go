package microsoft

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// ServiceType identifies a class of Graph calls for rate limiting.
type ServiceType string

const (
	// ServiceLists covers site, list and list item requests.
	ServiceLists ServiceType = "sharepoint-lists"
	// ServiceFiles covers drive lookups and file downloads.
	ServiceFiles ServiceType = "sharepoint-files"
)

// defaultBackoff applies when a 429 carries no usable Retry-After.
const defaultBackoff = 60 * time.Second

// RateLimitConfig holds rate limiting configuration for a service.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate limit.
	RequestsPerSecond float64
	// BurstSize is the maximum burst size.
	BurstSize int
}

// DefaultRateLimits keeps list reads well under the SharePoint per-app
// resource unit budget. Downloads cost more units per call.
var DefaultRateLimits = map[ServiceType]RateLimitConfig{
	ServiceLists: {RequestsPerSecond: 10.0, BurstSize: 15},
	ServiceFiles: {RequestsPerSecond: 4.0, BurstSize: 4},
}

// RateLimiter is a token bucket with a shared backoff deadline set by
// throttled responses.
type RateLimiter struct {
	mu      sync.Mutex
	limiter *rate.Limiter
	retryAt time.Time
	service ServiceType
}

// NewRateLimiter creates a rate limiter for the given service.
func NewRateLimiter(service ServiceType) *RateLimiter {
	cfg, ok := DefaultRateLimits[service]
	if !ok {
		cfg = DefaultRateLimits[ServiceLists]
	}
	rl := NewRateLimiterWithConfig(cfg)
	rl.service = service
	return rl
}

// NewRateLimiterWithConfig creates a rate limiter with custom configuration.
func NewRateLimiterWithConfig(cfg RateLimitConfig) *RateLimiter {
	return &RateLimiter{
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.BurstSize),
	}
}

// Service returns the service the limiter was created for.
func (r *RateLimiter) Service() ServiceType {
	return r.service
}

// Wait blocks until the backoff deadline has passed and a token is available.
func (r *RateLimiter) Wait(ctx context.Context) error {
	if d := r.Backoff(); d > 0 {
		timer := time.NewTimer(d)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-timer.C:
		}
	}
	return r.limiter.Wait(ctx)
}

// Backoff returns how long requests are still paused.
func (r *RateLimiter) Backoff() time.Duration {
	r.mu.Lock()
	defer r.mu.Unlock()
	if d := time.Until(r.retryAt); d > 0 {
		return d
	}
	return 0
}

// RecordRateLimitError pauses requests for retryAfterSeconds, or for the
// default backoff when the value is not positive.
func (r *RateLimiter) RecordRateLimitError(retryAfterSeconds int) {
	d := time.Duration(retryAfterSeconds) * time.Second
	if d <= 0 {
		d = defaultBackoff
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if until := time.Now().Add(d); until.After(r.retryAt) {
		r.retryAt = until
	}
}

// Allow reports whether a request can be made immediately.
func (r *RateLimiter) Allow() bool {
	if r.Backoff() > 0 {
		return false
	}
	return r.limiter.Allow()
}
