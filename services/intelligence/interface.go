package ai

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Client is an opaque completion service: prompt in, short text guess out.
// Implementations must honor context cancellation.
type Client interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// BoundedClient wraps a Client with a strict per-call timeout and at most
// one transient retry. Extraction layers depend on this wrapper so a slow
// or flaky model can never block a turn.
type BoundedClient struct {
	inner   Client
	timeout time.Duration
	logger  *zap.Logger
}

// NewBoundedClient wraps inner with the given per-call timeout.
func NewBoundedClient(inner Client, timeout time.Duration, logger *zap.Logger) *BoundedClient {
	return &BoundedClient{inner: inner, timeout: timeout, logger: logger}
}

// GenerateContent calls the wrapped client, retrying once on failure.
func (b *BoundedClient) GenerateContent(ctx context.Context, prompt string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < 2; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, b.timeout)
		out, err := b.inner.GenerateContent(callCtx, prompt)
		cancel()
		if err == nil {
			return out, nil
		}
		lastErr = err
		if ctx.Err() != nil {
			break
		}
		b.logger.Warn("LLM call failed", zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return "", lastErr
}
