package notice

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// HTTPClient is an interface matching the Do method of *http.Client, so
// tests and callers can supply their own transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// RateLimitedHTTPClient spaces requests to the Federal Register at least
// requestInterval apart. A zero interval disables the limit.
type RateLimitedHTTPClient struct {
	underlying      HTTPClient
	ticker          *time.Ticker
	requestInterval time.Duration
	mu              sync.Mutex
	closed          bool
}

// NewRateLimitedHTTPClient wraps underlying with a minimum interval between
// requests.
func NewRateLimitedHTTPClient(underlying HTTPClient, requestInterval time.Duration) *RateLimitedHTTPClient {
	rateLimitedClient := &RateLimitedHTTPClient{
		underlying:      underlying,
		requestInterval: requestInterval,
	}
	if requestInterval > 0 {
		rateLimitedClient.ticker = time.NewTicker(requestInterval)
	}
	return rateLimitedClient
}

// Do waits for the next request slot, or for the request's context to end,
// and then sends the request.
func (rateLimitedClient *RateLimitedHTTPClient) Do(req *http.Request) (*http.Response, error) {
	if err := rateLimitedClient.wait(req.Context()); err != nil {
		return nil, err
	}
	return rateLimitedClient.underlying.Do(req)
}

func (rateLimitedClient *RateLimitedHTTPClient) wait(ctx context.Context) error {
	rateLimitedClient.mu.Lock()
	defer rateLimitedClient.mu.Unlock()

	if rateLimitedClient.closed || rateLimitedClient.ticker == nil {
		return nil
	}
	select {
	case <-rateLimitedClient.ticker.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close stops the limiter's ticker. Requests after Close are not limited.
func (rateLimitedClient *RateLimitedHTTPClient) Close() {
	rateLimitedClient.mu.Lock()
	defer rateLimitedClient.mu.Unlock()

	if !rateLimitedClient.closed && rateLimitedClient.ticker != nil {
		rateLimitedClient.ticker.Stop()
	}
	rateLimitedClient.closed = true
}
