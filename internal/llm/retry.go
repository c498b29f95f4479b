package llm

import (
	"context"
	"errors"
	"time"

	"github.com/sethvargo/go-retry"
)

// RetryConfig bounds retries for transient provider failures.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries uint64

	// InitialWait is the first backoff interval. Doubles per attempt with
	// jitter, capped at MaxWait.
	InitialWait time.Duration
	MaxWait     time.Duration
}

// DefaultRetryConfig mirrors the bounded-retry policy for outbound
// generation calls: a couple of retries with backoff, then surface.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:  2,
		InitialWait: time.Second,
		MaxWait:     10 * time.Second,
	}
}

// RetryProvider decorates a Provider with bounded exponential backoff.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	if cfg.InitialWait <= 0 {
		cfg.InitialWait = time.Second
	}
	if cfg.MaxWait <= 0 {
		cfg.MaxWait = 10 * time.Second
	}
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	backoff := retry.NewExponential(r.config.InitialWait)
	backoff = retry.WithJitterPercent(20, backoff)
	backoff = retry.WithCappedDuration(r.config.MaxWait, backoff)
	backoff = retry.WithMaxRetries(r.config.MaxRetries, backoff)

	var resp *Response
	invalidRetried := false

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		var genErr error
		resp, genErr = r.inner.Generate(ctx, req)
		if genErr == nil {
			return nil
		}
		if shouldRetry(genErr, &invalidRetried) {
			return retry.RetryableError(genErr)
		}
		return genErr
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (r *RetryProvider) ModelID() string {
	return r.inner.ModelID()
}

// shouldRetry classifies provider errors. Context errors are never retried,
// malformed output gets exactly one repair attempt, rate limits and outages
// are transient.
func shouldRetry(err error, invalidRetried *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var invResp *ErrInvalidResponse
	if errors.As(err, &invResp) {
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	var rl *ErrRateLimit
	if errors.As(err, &rl) {
		return true
	}
	var unavail *ErrProviderUnavailable
	if errors.As(err, &unavail) {
		return true
	}

	// Other errors (network, etc.) are treated as transient.
	return true
}
