// Package ratelimit gates outbound marketplace calls with per-provider
// token buckets.
package ratelimit

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"time"

	"golang.org/x/time/rate"

	"github.com/donaldgifford/bargain-finder/internal/metrics"
)

// Provider bucket keys.
const (
	ProviderAmazon         = "amazon"
	ProviderAmazonRapidAPI = "amazon-rapidapi"
	ProviderEbay           = "ebay"
)

// Policy describes a token bucket: it holds up to Capacity tokens and
// refills continuously at RefillRate tokens per second.
type Policy struct {
	Capacity   float64
	RefillRate float64
}

// DefaultPolicies returns the process-wide bucket policy for each provider.
func DefaultPolicies() map[string]Policy {
	return map[string]Policy{
		ProviderAmazon:         {Capacity: 1, RefillRate: 1},
		ProviderAmazonRapidAPI: {Capacity: 5, RefillRate: 5},
		ProviderEbay:           {Capacity: 0.058, RefillRate: 0.058}, // ~5000 calls/day
	}
}

type bucket struct {
	capacity float64
	refill   float64
	lim      *rate.Limiter
}

// newBucket builds a bucket on rate.Limiter. The limiter holds an integer
// burst, so capacity is floored and never drops below one token: a bucket
// that can never hold a whole token would never admit a request.
func newBucket(p Policy) *bucket {
	burst := max(int(math.Floor(p.Capacity)), 1)
	return &bucket{
		capacity: float64(burst),
		refill:   p.RefillRate,
		lim:      rate.NewLimiter(rate.Limit(p.RefillRate), burst),
	}
}

func (b *bucket) tokensAt(now time.Time) float64 {
	// TokensAt reports debt left by reservations as negative tokens.
	return max(b.lim.TokensAt(now), 0)
}

func (b *bucket) waitAt(now time.Time) time.Duration {
	tokens := b.tokensAt(now)
	if tokens >= 1 || b.refill <= 0 {
		return 0
	}
	ms := math.Ceil((1 - tokens) / b.refill * 1000)
	return time.Duration(ms) * time.Millisecond
}

// Limiter holds one token bucket per provider. All bucket state changes
// happen inside rate.Limiter's critical section, so refill, check and
// consume form one atomic step and concurrent callers cannot overdraw.
//
// There is no fairness policy: waiters are admitted in whatever order they
// wake up, so a caller can starve under sustained contention.
type Limiter struct {
	buckets map[string]*bucket
	nowFunc func() time.Time
	log     *slog.Logger
}

// Option configures the Limiter.
type Option func(*limiterConfig)

type limiterConfig struct {
	policies map[string]Policy
	nowFunc  func() time.Time
	log      *slog.Logger
}

// WithNowFunc overrides the time function for testing.
func WithNowFunc(f func() time.Time) Option {
	return func(c *limiterConfig) {
		c.nowFunc = f
	}
}

// WithPolicy overrides or adds the policy for one provider.
func WithPolicy(provider string, p Policy) Option {
	return func(c *limiterConfig) {
		c.policies[provider] = p
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *limiterConfig) {
		c.log = l
	}
}

// New creates a Limiter seeded with DefaultPolicies. Every bucket starts
// full.
func New(opts ...Option) *Limiter {
	cfg := &limiterConfig{
		policies: DefaultPolicies(),
		nowFunc:  time.Now,
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}

	l := &Limiter{
		buckets: make(map[string]*bucket, len(cfg.policies)),
		nowFunc: cfg.nowFunc,
		log:     cfg.log,
	}
	for provider, p := range cfg.policies {
		l.buckets[provider] = newBucket(p)
	}
	return l
}

// CanMakeRequest reports whether provider has a whole token available.
// Unknown providers return false.
func (l *Limiter) CanMakeRequest(provider string) bool {
	b, ok := l.buckets[provider]
	if !ok {
		return false
	}
	return b.tokensAt(l.nowFunc()) >= 1
}

// ConsumeToken takes one token from provider's bucket if one is available
// and does nothing otherwise. Unknown providers are ignored.
func (l *Limiter) ConsumeToken(provider string) {
	b, ok := l.buckets[provider]
	if !ok {
		return
	}
	b.lim.AllowN(l.nowFunc(), 1)
}

// TryConsume takes one token if available and reports whether it did.
func (l *Limiter) TryConsume(provider string) bool {
	b, ok := l.buckets[provider]
	if !ok {
		return false
	}
	return b.lim.AllowN(l.nowFunc(), 1)
}

// WaitTime returns how long until provider's bucket holds a whole token.
// Unknown providers return 0.
func (l *Limiter) WaitTime(provider string) time.Duration {
	b, ok := l.buckets[provider]
	if !ok {
		return 0
	}
	return b.waitAt(l.nowFunc())
}

// WaitTimeMs is WaitTime in whole milliseconds, rounded up.
func (l *Limiter) WaitTimeMs(provider string) int64 {
	return l.WaitTime(provider).Milliseconds()
}

// Tokens returns the tokens currently available to provider.
func (l *Limiter) Tokens(provider string) float64 {
	b, ok := l.buckets[provider]
	if !ok {
		return 0
	}
	return b.tokensAt(l.nowFunc())
}

// WaitAndConsume blocks until a token for provider has been taken or ctx is
// done. It repeatedly attempts an atomic reserve and, on failure, sleeps for
// the current estimated wait before trying again. Unknown providers return
// immediately.
func (l *Limiter) WaitAndConsume(ctx context.Context, provider string) error {
	b, ok := l.buckets[provider]
	if !ok {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("rate limiter wait for %s: %w", provider, err)
	}

	start := time.Now()
	for {
		now := l.nowFunc()
		if b.lim.AllowN(now, 1) {
			metrics.RateLimitWaitSeconds.WithLabelValues(provider).Observe(time.Since(start).Seconds())
			metrics.RateLimitTokens.WithLabelValues(provider).Set(b.tokensAt(now))
			return nil
		}

		wait := b.waitAt(now)
		if wait <= 0 {
			// Another caller took the token between our check and reserve.
			wait = time.Millisecond
		}
		l.log.Debug("waiting for rate limit token",
			"provider", provider,
			"wait_ms", wait.Milliseconds(),
		)

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("rate limiter wait for %s: %w", provider, ctx.Err())
		case <-timer.C:
		}
	}
}

// BucketStatus is a point-in-time view of one provider bucket.
type BucketStatus struct {
	Provider   string  `json:"provider"`
	Capacity   float64 `json:"capacity"`
	RefillRate float64 `json:"refill_rate"`
	Tokens     float64 `json:"tokens"`
	WaitMs     int64   `json:"wait_ms"`
}

// Status returns the state of every bucket, ordered by provider.
func (l *Limiter) Status() []BucketStatus {
	now := l.nowFunc()
	out := make([]BucketStatus, 0, len(l.buckets))
	for provider, b := range l.buckets {
		out = append(out, BucketStatus{
			Provider:   provider,
			Capacity:   b.capacity,
			RefillRate: b.refill,
			Tokens:     b.tokensAt(now),
			WaitMs:     b.waitAt(now).Milliseconds(),
		})
	}
	slices.SortFunc(out, func(a, b BucketStatus) int {
		return cmp.Compare(a.Provider, b.Provider)
	})
	return out
}
