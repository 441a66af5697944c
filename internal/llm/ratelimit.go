package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// rateLimitedClient spaces requests to the wrapped client.
type rateLimitedClient struct {
	next    Client
	limiter *rate.Limiter
}

// newRateLimitedClient allows requestsPerMinute completions per minute, with
// a burst of the same size.
func newRateLimitedClient(next Client, requestsPerMinute int) *rateLimitedClient {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}

	return &rateLimitedClient{
		next:    next,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), requestsPerMinute),
	}
}

// Complete waits for a token then forwards the prompt.
func (c *rateLimitedClient) Complete(ctx context.Context, prompt string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter canceled: %w", err)
	}
	return c.next.Complete(ctx, prompt)
}
