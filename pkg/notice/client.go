package notice

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avast/retry-go/v4"
)

// DefaultBaseURL is the Federal Register API root.
const DefaultBaseURL = "https://www.federalregister.gov/api/v1"

// DefaultUserAgent is the User-Agent header sent with Federal Register requests.
const DefaultUserAgent = "regparser/1.0"

// DefaultRequestInterval is the default minimum interval between requests.
const DefaultRequestInterval = 500 * time.Millisecond

// DefaultTimeout is the default per-request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultAttempts is the default number of tries for each request.
const DefaultAttempts = 3

// DefaultRetryDelay is the default delay before the first retry.
const DefaultRetryDelay = 1 * time.Second

// maxResponseBytes bounds document and XML downloads.
const maxResponseBytes = 32 << 20

// ErrNotFound is returned when the Federal Register has no such document.
var ErrNotFound = errors.New("document not found")

// ClientConfig holds configuration for a Client.
type ClientConfig struct {
	// BaseURL is the API root. Default: DefaultBaseURL.
	BaseURL string

	// UserAgent is the User-Agent header sent with requests.
	UserAgent string

	// RateLimit is the minimum interval between requests. Zero disables it.
	RateLimit time.Duration

	// Timeout is the per-request timeout used when HTTPClient is nil.
	Timeout time.Duration

	// Attempts is the number of tries for each request, including the first.
	Attempts uint

	// RetryDelay is the delay before the first retry.
	RetryDelay time.Duration

	// HTTPClient sends requests. If nil, an *http.Client with Timeout is used.
	HTTPClient HTTPClient
}

// DefaultClientConfig returns a ClientConfig with sensible defaults.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:    DefaultBaseURL,
		UserAgent:  DefaultUserAgent,
		RateLimit:  DefaultRequestInterval,
		Timeout:    DefaultTimeout,
		Attempts:   DefaultAttempts,
		RetryDelay: DefaultRetryDelay,
	}
}

// Client fetches document metadata and full text XML from the Federal
// Register. Transient failures are retried; 4xx responses are not.
type Client struct {
	httpClient  HTTPClient
	rateLimiter *RateLimitedHTTPClient
	baseURL     string
	userAgent   string
	attempts    uint
	retryDelay  time.Duration
}

// NewClient creates a Client. Call Close when done to stop its rate limiter.
func NewClient(config ClientConfig) *Client {
	underlyingClient := config.HTTPClient
	if underlyingClient == nil {
		timeout := config.Timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		underlyingClient = &http.Client{Timeout: timeout}
	}

	baseURL := strings.TrimRight(config.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	userAgent := config.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	attempts := config.Attempts
	if attempts == 0 {
		attempts = 1
	}

	rateLimiter := NewRateLimitedHTTPClient(underlyingClient, config.RateLimit)
	return &Client{
		httpClient:  rateLimiter,
		rateLimiter: rateLimiter,
		baseURL:     baseURL,
		userAgent:   userAgent,
		attempts:    attempts,
		retryDelay:  config.RetryDelay,
	}
}

// Close releases the client's rate limiter.
func (c *Client) Close() {
	c.rateLimiter.Close()
}

// FetchDocument retrieves the API record of one document by its document
// number, e.g. "2013-10604".
func (c *Client) FetchDocument(ctx context.Context, documentNumber string) (*Document, error) {
	if documentNumber == "" {
		return nil, fmt.Errorf("document number is empty")
	}
	documentURL := c.baseURL + "/documents/" + url.PathEscape(documentNumber) + ".json"

	body, err := c.get(ctx, documentURL, "application/json")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch document %s: %w", documentNumber, err)
	}

	var doc Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode document %s: %w", documentNumber, err)
	}
	return &doc, nil
}

// FetchXML retrieves a document's full text XML.
func (c *Client) FetchXML(ctx context.Context, xmlURL string) ([]byte, error) {
	if xmlURL == "" {
		return nil, fmt.Errorf("XML URL is empty")
	}
	body, err := c.get(ctx, xmlURL, "application/xml")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch XML %s: %w", xmlURL, err)
	}
	return body, nil
}

func (c *Client) get(ctx context.Context, target, accept string) ([]byte, error) {
	var body []byte
	err := retry.Do(
		func() error {
			request, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("failed to create request: %w", err))
			}
			request.Header.Set("User-Agent", c.userAgent)
			request.Header.Set("Accept", accept)

			response, err := c.httpClient.Do(request)
			if err != nil {
				return err
			}
			defer response.Body.Close()

			switch {
			case response.StatusCode == http.StatusNotFound:
				return retry.Unrecoverable(fmt.Errorf("%w (HTTP %d)", ErrNotFound, response.StatusCode))
			case response.StatusCode >= 500 || response.StatusCode == http.StatusTooManyRequests:
				return fmt.Errorf("federalregister.gov returned HTTP %d", response.StatusCode)
			case response.StatusCode >= 400:
				return retry.Unrecoverable(fmt.Errorf("federalregister.gov returned HTTP %d", response.StatusCode))
			}

			body, err = io.ReadAll(io.LimitReader(response.Body, maxResponseBytes))
			if err != nil {
				return fmt.Errorf("failed to read response: %w", err)
			}
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(c.retryDelay),
		retry.LastErrorOnly(true),
	)
	if err != nil {
		return nil, err
	}
	return body, nil
}

// Fetch retrieves a document and its full text XML and builds the notice.
// Documents without full text XML yield a notice with metadata only.
func (b *Builder) Fetch(ctx context.Context, client *Client, cfrTitle int, cfrPart, documentNumber string) (*Notice, error) {
	doc, err := client.FetchDocument(ctx, documentNumber)
	if err != nil {
		return nil, err
	}

	var noticeXML []byte
	if doc.FullTextXMLURL != "" {
		noticeXML, err = client.FetchXML(ctx, doc.FullTextXMLURL)
		if err != nil {
			return nil, err
		}
	}
	return b.Build(cfrTitle, cfrPart, doc, noticeXML)
}
