// Package ratelimit bookkeeps a per-host token bucket so the orchestrator
// never exceeds the configured requests-per-second against any one origin,
// and backs off multiplicatively (halving the rate per call) when a host
// starts failing.
package ratelimit

import (
	"context"
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Limiter hands out per-host fetch permits. It is safe for concurrent use
// by every worker goroutine in the pool.
type Limiter interface {
	// Wait blocks until host may be fetched again, or ctx is done.
	Wait(ctx context.Context, host string) error
	// SetCrawlDelay overrides the bucket's rate for host when robots.txt
	// declares a Crawl-delay slower than the configured default.
	SetCrawlDelay(host string, delay time.Duration)
	// Backoff halves the effective rate for host, compounding on repeat
	// calls, after a 429/503 response.
	Backoff(host string)
	// ResetBackoff restores host's rate to its configured baseline after
	// a successful fetch.
	ResetBackoff(host string)
}

// HostLimiter is the default Limiter: one golang.org/x/time/rate.Limiter
// per host, seeded from a shared requests-per-second default and widened
// or narrowed per host by robots directives and backoff events.
type HostLimiter struct {
	mu         sync.Mutex
	defaultRPS float64
	burst      int
	buckets    map[string]*hostBucket
}

type hostBucket struct {
	limiter      *rate.Limiter
	baseRPS      float64
	backoffCount int
}

// NewHostLimiter builds a HostLimiter whose default bucket allows rps
// requests/sec per host with the given burst size.
func NewHostLimiter(rps float64, burst int) *HostLimiter {
	if rps <= 0 {
		rps = 1
	}
	if burst <= 0 {
		burst = 1
	}
	return &HostLimiter{
		defaultRPS: rps,
		burst:      burst,
		buckets:    make(map[string]*hostBucket),
	}
}

func (h *HostLimiter) Wait(ctx context.Context, host string) error {
	return h.bucketFor(host).limiter.Wait(ctx)
}

func (h *HostLimiter) SetCrawlDelay(host string, delay time.Duration) {
	if delay <= 0 {
		return
	}
	rps := 1.0 / delay.Seconds()

	h.mu.Lock()
	defer h.mu.Unlock()
	b := h.bucketForLocked(host)
	if rps < b.baseRPS {
		b.baseRPS = rps
		b.limiter.SetLimit(rate.Limit(rps))
	}
}

func (h *HostLimiter) Backoff(host string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b := h.bucketForLocked(host)
	b.backoffCount++
	// Halve the rate per consecutive backoff, down to a 1/64 floor so a
	// hostile host never fully stalls the run.
	factor := math.Pow(2, float64(-min(b.backoffCount, 6)))
	b.limiter.SetLimit(rate.Limit(b.baseRPS * factor))
}

func (h *HostLimiter) ResetBackoff(host string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b := h.bucketForLocked(host)
	b.backoffCount = 0
	b.limiter.SetLimit(rate.Limit(b.baseRPS))
}

func (h *HostLimiter) bucketFor(host string) *hostBucket {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bucketForLocked(host)
}

// bucketForLocked must be called with h.mu held.
func (h *HostLimiter) bucketForLocked(host string) *hostBucket {
	b, ok := h.buckets[host]
	if !ok {
		b = &hostBucket{
			limiter: rate.NewLimiter(rate.Limit(h.defaultRPS), h.burst),
			baseRPS: h.defaultRPS,
		}
		h.buckets[host] = b
	}
	return b
}

var _ Limiter = (*HostLimiter)(nil)
