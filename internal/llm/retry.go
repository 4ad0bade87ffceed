package llm

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with capped exponential backoff
// and bounds each Generate call by an overall timeout.
type RetryProvider struct {
	inner   Provider
	policy  RetryConfig
	timeout time.Duration

	// sleep waits d or until ctx ends. Tests replace it.
	sleep func(ctx context.Context, d time.Duration) error
}

// WithRetry wraps p. A non-positive timeout leaves the caller's deadline as
// the only bound.
func WithRetry(p Provider, policy RetryConfig, timeout time.Duration) *RetryProvider {
	if policy.MaxAttempts < 1 {
		policy.MaxAttempts = 1
	}
	return &RetryProvider{inner: p, policy: policy, timeout: timeout, sleep: sleepCtx}
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// Generate retries rate limits, outages and transport errors up to
// MaxAttempts. An invalid response is retried at most once.
func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	invalidSeen := false
	for attempt := 0; ; attempt++ {
		resp, err := r.inner.Generate(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !retryable(err) || attempt == r.policy.MaxAttempts-1 {
			return nil, err
		}
		var invalid *ErrInvalidResponse
		if errors.As(err, &invalid) {
			if invalidSeen {
				return nil, err
			}
			invalidSeen = true
		}
		if werr := r.sleep(ctx, r.wait(attempt, err)); werr != nil {
			return nil, err
		}
	}
}

// wait returns the delay before attempt+1: the provider's Retry-After when
// given, else InitialWait*Multiplier^attempt capped at MaxWait, with ±20%
// jitter.
func (r *RetryProvider) wait(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}
	d := float64(r.policy.InitialWait)
	for range attempt {
		d *= r.policy.Multiplier
	}
	if limit := float64(r.policy.MaxWait); limit > 0 && d > limit {
		d = limit
	}
	d *= 0.8 + 0.4*rand.Float64()
	return time.Duration(d)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
