package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"time"
)

// APIError represents an HTTP-level error from a provider.
type APIError struct {
	StatusCode int
	Message    string
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// IsRetryable returns true if the error should trigger a retry.
// 429 is the rate-limit response; 5xx is provider-side trouble.
func (e *APIError) IsRetryable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// waitTurn blocks until the minimum inter-call delay since the previous call
// has elapsed, then claims the slot. The slot is claimed up front so the call
// counts against the rate limit even when it subsequently fails.
func (c *Client) waitTurn(ctx context.Context) error {
	c.mu.Lock()
	now := time.Now()
	wait := c.lastCall.Add(c.minInterval).Sub(now)
	if wait < 0 {
		wait = 0
	}
	c.lastCall = now.Add(wait)
	c.mu.Unlock()

	if wait == 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(wait):
		return nil
	}
}

// doRequest performs a single HTTP GET against the provider.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values, headers http.Header) ([]byte, error) {
	fullURL := c.baseURL + path
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	for k, vs := range headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
			Body:       body,
		}
	}

	return body, nil
}

// doWithRetry performs a request under the rate limit, retrying transient
// failures with exponential backoff. Every attempt, including failed ones,
// advances the rate-limit clock.
func (c *Client) doWithRetry(ctx context.Context, op, path string, query url.Values, headers http.Header) ([]byte, error) {
	var lastErr error
	backoff := c.retryBackoff

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			// Add jitter: backoff * (0.5 to 1.5)
			jitter := backoff/2 + time.Duration(rand.Int63n(int64(backoff)))
			c.logger.Debug("retrying request",
				"provider", c.name,
				"attempt", attempt,
				"backoff", jitter,
				"path", path,
			)

			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(jitter):
			}

			backoff *= 2
		}

		if err := c.waitTurn(ctx); err != nil {
			return nil, err
		}

		body, err := c.doRequest(ctx, path, query, headers)
		if err == nil {
			return body, nil
		}

		lastErr = err

		if apiErr, ok := err.(*APIError); ok && !apiErr.IsRetryable() {
			return nil, &PermanentError{Provider: c.name, Op: op, Err: err}
		}
	}

	return nil, &TransientError{Provider: c.name, Op: op, Err: lastErr}
}

// get performs a GET request with rate limiting and retries, decoding the
// JSON response into result.
func (c *Client) get(ctx context.Context, op, path string, query url.Values, headers http.Header, result any) error {
	body, err := c.doWithRetry(ctx, op, path, query, headers)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, result); err != nil {
		return &PermanentError{Provider: c.name, Op: op, Err: fmt.Errorf("unmarshal response: %w", err)}
	}

	return nil
}
