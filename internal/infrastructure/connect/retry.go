package connect

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/DanielPopoola/connect-fulfillment/internal/config"
)

const internalErrorCode = "internal_error"

// RetryClient retries transient platform failures with exponential backoff.
type RetryClient struct {
	inner      Transport
	baseDelay  time.Duration
	maxRetries int
	logger     *slog.Logger
}

func NewRetryClient(inner Transport, cfg config.RetryConfig, logger *slog.Logger) *RetryClient {
	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}
	return &RetryClient{
		inner:      inner,
		baseDelay:  cfg.BaseDelay,
		maxRetries: maxRetries,
		logger:     logger,
	}
}

func (r *RetryClient) Send(ctx context.Context, method, path string, body []byte) (*Response, error) {
	var lastErr error

	for attempt := 0; attempt < r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		resp, err := r.inner.Send(ctx, method, path, body)
		if err == nil {
			return resp, nil
		}

		lastErr = err

		if !isRetryable(err) {
			return nil, err
		}

		if attempt < r.maxRetries-1 {
			delay := r.backoff(attempt)
			r.logger.Warn("retrying platform call",
				"method", method,
				"path", path,
				"attempt", attempt+1,
				"delay", delay,
				"error", err,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return nil, fmt.Errorf("maximum retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.IsRetryable() || apiErr.Code == internalErrorCode
	}

	// Timeouts and network failures.
	return true
}

// backoff doubles the base delay per attempt and adds up to a quarter of it
// as jitter.
func (r *RetryClient) backoff(attempt int) time.Duration {
	base := r.baseDelay * time.Duration(1<<attempt)
	if base <= 0 {
		return 0
	}

	jitter := time.Duration(rand.Int63n(int64(base)/4 + 1))

	return base + jitter
}
