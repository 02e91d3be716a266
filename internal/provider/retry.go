package provider

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// DefaultRetryDelay is the pause before the single rate-limit retry.
const DefaultRetryDelay = time.Second

// RetryProvider retries a rate-limited completion exactly once after a fixed
// delay. The second attempt is never retried.
type RetryProvider struct {
	inner  Completer
	delay  time.Duration
	logger *zap.Logger
}

func WithRateLimitRetry(p Completer, delay time.Duration, logger *zap.Logger) *RetryProvider {
	if delay <= 0 {
		delay = DefaultRetryDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryProvider{inner: p, delay: delay, logger: logger}
}

func (r *RetryProvider) Name() string { return r.inner.Name() }

func (r *RetryProvider) Complete(ctx context.Context, msgs []Message) (string, error) {
	text, err := r.inner.Complete(ctx, msgs)
	if err == nil || !errors.Is(err, ErrRateLimited) {
		return text, err
	}

	r.logger.Info("rate limited, retrying once",
		zap.String("provider", r.inner.Name()),
		zap.Duration("delay", r.delay))

	if err := r.wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	text, err = r.inner.Complete(ctx, msgs)
	if err != nil {
		return "", fmt.Errorf("after retry: %w", err)
	}
	return text, nil
}

func (r *RetryProvider) wait(ctx context.Context) error {
	t := time.NewTimer(r.delay)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
