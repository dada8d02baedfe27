package llm

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/wolfman30/zentix-relay/pkg/logging"
)

var retryTracer = otel.Tracer("zentix.internal.llm.retry")

// AttemptObserver is notified after every completion attempt.
type AttemptObserver interface {
	ObserveCompletionAttempt(attempt int, err error, seconds float64)
}

// RetryingClient retries failed completions with a linear backoff: after
// failed attempt n it waits baseDelay*n before trying again.
type RetryingClient struct {
	next        LLMClient
	logger      *logging.Logger
	observer    AttemptObserver
	maxAttempts int
	baseDelay   time.Duration
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewRetryingClient(next LLMClient, logger *logging.Logger) *RetryingClient {
	if next == nil {
		panic("llm: retrying client requires a delegate")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &RetryingClient{
		next:        next,
		logger:      logger,
		maxAttempts: 3,
		baseDelay:   time.Second,
		sleep:       sleepContext,
	}
}

func (c *RetryingClient) WithMaxAttempts(n int) *RetryingClient {
	if n > 0 {
		c.maxAttempts = n
	}
	return c
}

func (c *RetryingClient) WithBaseDelay(d time.Duration) *RetryingClient {
	if d >= 0 {
		c.baseDelay = d
	}
	return c
}

func (c *RetryingClient) WithObserver(o AttemptObserver) *RetryingClient {
	c.observer = o
	return c
}

func (c *RetryingClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	ctx, span := retryTracer.Start(ctx, "llm.complete")
	defer span.End()
	span.SetAttributes(
		attribute.String("zentix.model", req.Model),
		attribute.Int("zentix.max_attempts", c.maxAttempts),
	)

	var lastErr error
	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		started := time.Now()
		resp, err := c.next.Complete(ctx, req)
		if c.observer != nil {
			c.observer.ObserveCompletionAttempt(attempt, err, time.Since(started).Seconds())
		}
		if err == nil {
			span.SetAttributes(attribute.Int("zentix.attempts", attempt))
			return resp, nil
		}
		lastErr = err

		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			break
		}
		if attempt == c.maxAttempts {
			break
		}

		delay := c.baseDelay * time.Duration(attempt)
		c.logger.Warn("completion attempt failed; retrying", "error", err, "attempt", attempt, "delay", delay.String())
		if err := c.sleep(ctx, delay); err != nil {
			break
		}
	}

	span.RecordError(lastErr)
	c.logger.Error("completion failed", "error", lastErr, "max_attempts", c.maxAttempts)
	return LLMResponse{}, lastErr
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
