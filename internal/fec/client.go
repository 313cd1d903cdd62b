// Package fec wraps the Federal Election Commission API behind a
// rate-limited, retrying, memoizing HTTP client.
package fec

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"
)

const (
	defaultMinDelay    = time.Second
	defaultMaxRetries  = 3
	defaultRetryAfter  = 60 * time.Second
	defaultHTTPTimeout = 30 * time.Second
)

// Options tunes a Client. Zero values fall back to defaults. Now and
// Sleep exist so tests can drive the rate limiter deterministically.
type Options struct {
	MinDelay   time.Duration
	MaxRetries int
	HTTPClient *http.Client
	Now        func() time.Time
	Sleep      func(context.Context, time.Duration) error
}

// Client talks to the FEC API. All state lives on the struct: the
// last-request timestamp for throttling and the response cache. The
// cache is unbounded and keyed by endpoint+query, which is acceptable
// only because the client lives for one batch run.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	minDelay   time.Duration
	maxRetries int
	now        func() time.Time
	sleep      func(context.Context, time.Duration) error

	mu          sync.Mutex
	lastRequest time.Time
	cache       map[string][]byte
}

// New creates a Client for the given base URL and API key.
func New(baseURL, apiKey string, opts Options) *Client {
	if opts.MinDelay <= 0 {
		opts.MinDelay = defaultMinDelay
	}
	if opts.MaxRetries <= 0 {
		opts.MaxRetries = defaultMaxRetries
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: opts.HTTPClient,
		minDelay:   opts.MinDelay,
		maxRetries: opts.MaxRetries,
		now:        opts.Now,
		sleep:      opts.Sleep,
		cache:      make(map[string][]byte),
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	select {
	case <-time.After(d):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// get fetches an endpoint with the query params, enforcing the minimum
// inter-request delay, retrying with exponential backoff, honoring 429
// Retry-After, and memoizing successful responses.
func (c *Client) get(ctx context.Context, endpoint string, params url.Values) ([]byte, error) {
	cacheKey := endpoint + "?" + params.Encode()

	c.mu.Lock()
	if body, ok := c.cache[cacheKey]; ok {
		c.mu.Unlock()
		return body, nil
	}
	c.mu.Unlock()

	if err := c.throttle(ctx); err != nil {
		return nil, err
	}

	query := url.Values{}
	for k, vs := range params {
		query[k] = vs
	}
	query.Set("api_key", c.apiKey)
	requestURL := c.baseURL + endpoint + "?" + query.Encode()

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.maxRetries-1 {
				if err := c.backoff(ctx, attempt); err != nil {
					return nil, err
				}
			}
			continue
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			resp.Body.Close()
			lastErr = fmt.Errorf("fec api: rate limited (429)")
			if err := c.sleep(ctx, retryAfter(resp)); err != nil {
				return nil, err
			}
			continue
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			resp.Body.Close()
			lastErr = fmt.Errorf("fec api: %s", resp.Status)
			if attempt < c.maxRetries-1 {
				if err := c.backoff(ctx, attempt); err != nil {
					return nil, err
				}
			}
			continue
		}

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}

		c.mu.Lock()
		c.cache[cacheKey] = body
		c.mu.Unlock()
		return body, nil
	}

	return nil, lastErr
}

// throttle blocks until at least minDelay has passed since the previous
// request on this client, then claims the new slot.
func (c *Client) throttle(ctx context.Context) error {
	c.mu.Lock()
	last := c.lastRequest
	c.mu.Unlock()

	if !last.IsZero() {
		if elapsed := c.now().Sub(last); elapsed < c.minDelay {
			if err := c.sleep(ctx, c.minDelay-elapsed); err != nil {
				return err
			}
		}
	}

	c.mu.Lock()
	c.lastRequest = c.now()
	c.mu.Unlock()
	return nil
}

// backoff sleeps minDelay * 2^attempt.
func (c *Client) backoff(ctx context.Context, attempt int) error {
	return c.sleep(ctx, c.minDelay*(1<<attempt))
}

// retryAfter reads the server-specified delay off a 429 response,
// defaulting to 60s when absent or malformed.
func retryAfter(resp *http.Response) time.Duration {
	if v := resp.Header.Get("Retry-After"); v != "" {
		if seconds, err := strconv.Atoi(v); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}
	return defaultRetryAfter
}
