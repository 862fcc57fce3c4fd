package embedding

import (
	"context"
	"time"
)

// retryBaseDelay 首次重试前的等待时间，之后指数增长
var retryBaseDelay = 500 * time.Millisecond

// withRetry 对可重试错误进行指数退避重试
func withRetry(ctx context.Context, maxRetries int, fn func() ([][]float32, error)) ([][]float32, error) {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		vectors, err := fn()
		if err == nil {
			return vectors, nil
		}
		lastErr = err
		if !IsRetryable(err) || attempt == maxRetries {
			break
		}

		wait := retryBaseDelay * time.Duration(1<<attempt)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
	}
	return nil, lastErr
}
