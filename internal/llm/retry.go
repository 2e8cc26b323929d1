package llm

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"
)

// RetryProvider retries transient failures with exponential backoff and
// jitter. With MaxAttempts <= 1 it is a pass-through, which is the default
// for interactive features.
type RetryProvider struct {
	inner  Provider
	config RetryConfig
}

// WithRetry wraps a Provider with retry logic.
func WithRetry(p Provider, cfg RetryConfig) Provider {
	return &RetryProvider{inner: p, config: cfg}
}

func (r *RetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	return withBackoff(ctx, r.config, func() (*Response, error) {
		return r.inner.Generate(ctx, req)
	})
}

func (r *RetryProvider) ModelID() string { return r.inner.ModelID() }

// RetryImageGenerator applies the same policy to illustration calls.
type RetryImageGenerator struct {
	inner  ImageGenerator
	config RetryConfig
}

// WithImageRetry wraps an ImageGenerator with retry logic. A nil generator
// stays nil so callers can keep testing for the capability.
func WithImageRetry(g ImageGenerator, cfg RetryConfig) ImageGenerator {
	if g == nil {
		return nil
	}
	return &RetryImageGenerator{inner: g, config: cfg}
}

func (r *RetryImageGenerator) GenerateImage(ctx context.Context, req ImageRequest) (*Image, error) {
	return withBackoff(ctx, r.config, func() (*Image, error) {
		return r.inner.GenerateImage(ctx, req)
	})
}

func (r *RetryImageGenerator) ModelID() string { return r.inner.ModelID() }

func withBackoff[T any](ctx context.Context, cfg RetryConfig, call func() (T, error)) (T, error) {
	if cfg.MaxAttempts <= 1 {
		return call()
	}

	var (
		zero           T
		lastErr        error
		invalidRetried bool
	)
	for attempt := range cfg.MaxAttempts {
		out, err := call()
		if err == nil {
			return out, nil
		}
		lastErr = err

		if !retryable(err, &invalidRetried) {
			return zero, err
		}
		if attempt == cfg.MaxAttempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(cfg.backoff(attempt, err)):
		}
	}
	return zero, lastErr
}

// retryable reports whether err is worth another attempt. Schema
// violations get exactly one retry.
func retryable(err error, invalidRetried *bool) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, ErrNoImage) {
		return false
	}

	var (
		maxTok      *ErrMaxTokensExceeded
		unsupported *ErrUnsupportedAttachment
		invalid     *ErrInvalidResponse
	)
	switch {
	case errors.As(err, &maxTok), errors.As(err, &unsupported):
		return false
	case errors.As(err, &invalid):
		if *invalidRetried {
			return false
		}
		*invalidRetried = true
		return true
	}

	// Rate limits, outages and network errors are transient.
	return true
}

func (c RetryConfig) backoff(attempt int, err error) time.Duration {
	var rl *ErrRateLimit
	if errors.As(err, &rl) && rl.RetryAfter > 0 {
		return rl.RetryAfter
	}

	wait := float64(c.InitialWait) * math.Pow(c.Multiplier, float64(attempt))
	wait = min(wait, float64(c.MaxWait))

	// ±20% jitter
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	return time.Duration(max(wait, 0))
}
