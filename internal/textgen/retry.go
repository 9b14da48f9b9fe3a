package textgen

import (
	"context"
	"time"
)

// Retry re-invokes a generator on rate limits and 503s with exponential backoff (1s, 2s, ...).
// Other errors are returned immediately.
type Retry struct {
	next       TextGenerator
	maxRetries int
	baseDelay  time.Duration
}

func NewRetry(next TextGenerator, maxRetries int, baseDelay time.Duration) *Retry {
	if baseDelay <= 0 {
		baseDelay = time.Second
	}
	return &Retry{next: next, maxRetries: maxRetries, baseDelay: baseDelay}
}

func (r *Retry) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= r.maxRetries; attempt++ {
		if attempt > 0 {
			delay := r.baseDelay * time.Duration(1<<(attempt-1))
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return "", ctx.Err()
			}
		}

		text, err := r.next.Generate(ctx, prompt, maxTokens)
		if err == nil {
			return text, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return "", err
		}
	}
	return "", lastErr
}
