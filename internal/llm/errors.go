package llm

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRateLimit is a 429 from the provider.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrProviderUnavailable is a network failure or a 5xx from the provider.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err == nil {
		return "AI provider unavailable"
	}
	return fmt.Sprintf("AI provider unavailable: %v", e.Err)
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrRejected is a 4xx other than 429: a bad key, an unknown model or a
// malformed request. Retrying does not help.
type ErrRejected struct {
	Status int
	Err    error
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("AI provider rejected the request (HTTP %d): %v", e.Status, e.Err)
}

func (e *ErrRejected) Unwrap() error { return e.Err }

// ErrInvalidResponse is an answer that is empty or does not match the
// requested schema. Purpose names the narrative that was being generated.
type ErrInvalidResponse struct {
	Purpose string
	Schema  string
	Content []byte
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	what := e.Purpose
	if e.Schema != "" {
		what = fmt.Sprintf("%s (%s)", e.Purpose, e.Schema)
	}
	return fmt.Sprintf("invalid %s response: %v", what, e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded is an answer cut off at Request.MaxTokens.
type ErrMaxTokensExceeded struct {
	Purpose   string
	MaxTokens int
	Content   []byte
}

func (e *ErrMaxTokensExceeded) Error() string {
	return fmt.Sprintf("%s response cut off at %d tokens", e.Purpose, e.MaxTokens)
}

// retryable reports whether another attempt could succeed. Cancellation,
// rejection and truncation are final; everything else, including unknown
// transport errors, is treated as transient.
func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var (
		trunc    *ErrMaxTokensExceeded
		rejected *ErrRejected
	)
	return !errors.As(err, &trunc) && !errors.As(err, &rejected)
}

// unavailable wraps a transport error unless it is a context error.
func unavailable(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return &ErrProviderUnavailable{Err: err}
}

// classifyStatus maps an HTTP status from a provider SDK error.
func classifyStatus(ctx context.Context, status int, err error) error {
	switch {
	case status == 429:
		return &ErrRateLimit{Err: err}
	case status >= 500:
		return &ErrProviderUnavailable{Err: err}
	case status >= 400:
		return &ErrRejected{Status: status, Err: err}
	default:
		return unavailable(ctx, err)
	}
}
