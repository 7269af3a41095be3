package marketplace

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/donaldgifford/bargain-finder/internal/metrics"
)

var errRetryableStatus = errors.New("retryable status")

// RetryDoer retries transport errors and 5xx responses with exponential
// backoff. 4xx responses are returned as is. When the attempts run out on a
// 5xx the last response is returned so the caller can report its status.
type RetryDoer struct {
	next        HTTPDoer
	maxAttempts int
	initial     time.Duration
	maxInterval time.Duration
	log         *slog.Logger
}

// RetryOption configures the RetryDoer.
type RetryOption func(*RetryDoer)

// WithMaxAttempts sets the total number of attempts, including the first.
// Values below 2 disable retries.
func WithMaxAttempts(n int) RetryOption {
	return func(d *RetryDoer) {
		d.maxAttempts = n
	}
}

// WithBackoff sets the initial and maximum delay between attempts.
func WithBackoff(initial, maxInterval time.Duration) RetryOption {
	return func(d *RetryDoer) {
		d.initial = initial
		d.maxInterval = maxInterval
	}
}

// WithRetryLogger sets the logger.
func WithRetryLogger(l *slog.Logger) RetryOption {
	return func(d *RetryDoer) {
		d.log = l
	}
}

// NewRetryDoer wraps next. Without options it makes a single attempt.
func NewRetryDoer(next HTTPDoer, opts ...RetryOption) *RetryDoer {
	d := &RetryDoer{
		next:        next,
		maxAttempts: 1,
		initial:     200 * time.Millisecond,
		maxInterval: 2 * time.Second,
		log:         slog.Default(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Do implements HTTPDoer.
func (d *RetryDoer) Do(req *http.Request) (*http.Response, error) {
	if d.maxAttempts < 2 || !rewindable(req) {
		return d.next.Do(req)
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = d.initial
	b.MaxInterval = d.maxInterval
	b.MaxElapsedTime = 0
	policy := backoff.WithContext(
		backoff.WithMaxRetries(b, uint64(d.maxAttempts-1)), //nolint:gosec // checked above
		req.Context(),
	)

	var (
		resp    *http.Response
		attempt int
	)
	op := func() error {
		attempt++
		if resp != nil {
			resp.Body.Close()
			resp = nil
		}
		if attempt > 1 {
			if req.GetBody != nil {
				body, err := req.GetBody()
				if err != nil {
					return backoff.Permanent(fmt.Errorf("rewinding request body: %w", err))
				}
				req.Body = body
			}
			metrics.MarketplaceRetriesTotal.WithLabelValues(req.URL.Host).Inc()
		}

		r, err := d.next.Do(req)
		if err != nil {
			if req.Context().Err() != nil {
				return backoff.Permanent(err)
			}
			return err
		}
		if r.StatusCode >= http.StatusInternalServerError {
			resp = r
			return fmt.Errorf("%w: %d", errRetryableStatus, r.StatusCode)
		}
		resp = r
		return nil
	}
	notify := func(err error, wait time.Duration) {
		d.log.Warn("retrying marketplace request",
			"host", req.URL.Host,
			"attempt", attempt,
			"wait", wait,
			"error", err,
		)
	}

	err := backoff.RetryNotify(op, policy, notify)
	if err == nil || (resp != nil && errors.Is(err, errRetryableStatus)) {
		return resp, nil
	}
	if resp != nil {
		resp.Body.Close()
	}
	return nil, err
}

func rewindable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}
