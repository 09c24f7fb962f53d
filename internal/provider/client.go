package provider

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Client provides rate-limited access to one provider's REST API.
// The last-call timestamp lives on the instance, not in package state, so
// independent clients (and tests) never interfere with each other.
type Client struct {
	name       string
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger

	minInterval  time.Duration
	maxRetries   int
	retryBackoff time.Duration

	mu       sync.Mutex
	lastCall time.Time
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// NewClient creates a rate-limited client for the named provider.
func NewClient(name, baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		name:    name,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		minInterval:  time.Second,
		maxRetries:   3,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Name returns the provider name used for provenance tagging.
func (c *Client) Name() string { return c.name }

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) ClientOption {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithRateLimit sets the minimum delay between consecutive calls.
func WithRateLimit(d time.Duration) ClientOption {
	return func(c *Client) {
		c.minInterval = d
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}
