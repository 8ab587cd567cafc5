package github

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/relnotes-labs/relnotes-cli/internal/logger"
)

const (
	// AuthenticatedQuota is the authenticated rate limit (5000/hour).
	AuthenticatedQuota = 5000

	// AnonymousQuota is the unauthenticated rate limit (60/hour).
	AnonymousQuota = 60

	// ProactiveRate is the proactive throttle rate (~1.2 req/sec).
	ProactiveRate = 1.2

	// LowQuotaWarn is the remaining-request low-water mark below which a
	// warning is logged.
	LowQuotaWarn = 10

	// HeaderRateRemaining is the remaining requests header.
	HeaderRateRemaining = "X-RateLimit-Remaining"

	// HeaderRateLimit is the rate limit header.
	HeaderRateLimit = "X-RateLimit-Limit"

	// HeaderRateReset is the reset timestamp header (Unix seconds).
	HeaderRateReset = "X-RateLimit-Reset"

	// HeaderRetryAfter is the retry-after header (seconds).
	HeaderRetryAfter = "Retry-After"
)

// RateLimiter tracks the remote quota from response headers and throttles
// outgoing requests proactively.
type RateLimiter struct {
	mu        sync.Mutex
	remaining int
	limit     int
	resetTime time.Time
	warned    bool
	bucket    *rate.Limiter
}

// NewRateLimiter creates a rate limiter assuming a full quota.
func NewRateLimiter(quota int) *RateLimiter {
	return &RateLimiter{
		remaining: quota,
		limit:     quota,
		bucket:    rate.NewLimiter(rate.Limit(ProactiveRate), 1),
	}
}

// Wait blocks until it is safe to make a request, honouring the proactive
// token bucket. It does not wait for quota resets; quota exhaustion is
// surfaced as an error at the call site instead.
func (r *RateLimiter) Wait(ctx context.Context) error {
	return r.bucket.Wait(ctx)
}

// UpdateFromResponse updates quota state from response headers and logs a
// warning once per reset window when the quota runs low.
func (r *RateLimiter) UpdateFromResponse(resp *http.Response) {
	if resp == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if remaining := resp.Header.Get(HeaderRateRemaining); remaining != "" {
		if val, err := strconv.Atoi(remaining); err == nil {
			if val >= LowQuotaWarn {
				r.warned = false
			}
			r.remaining = val
		}
	}
	if limit := resp.Header.Get(HeaderRateLimit); limit != "" {
		if val, err := strconv.Atoi(limit); err == nil {
			r.limit = val
		}
	}
	if reset := resp.Header.Get(HeaderRateReset); reset != "" {
		if val, err := strconv.ParseInt(reset, 10, 64); err == nil {
			r.resetTime = time.Unix(val, 0)
		}
	}

	if r.remaining < LowQuotaWarn && !r.warned {
		r.warned = true
		logger.Warn("github: only %d API requests remaining until %s",
			r.remaining, r.resetTime.Format(time.RFC3339))
	}
}

// Remaining returns the current remaining requests.
func (r *RateLimiter) Remaining() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.remaining
}

// Limit returns the quota ceiling.
func (r *RateLimiter) Limit() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.limit
}

// ResetTime returns the quota reset time.
func (r *RateLimiter) ResetTime() time.Time {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.resetTime
}
