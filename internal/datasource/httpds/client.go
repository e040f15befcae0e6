// Package httpds implements an HTTP datasource with retry and backoff, used
// to pull the inventory CSV straight from the listing site instead of a
// manually saved export.
package httpds

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Config configures the HTTP datasource. Zero values get defaults: 30s
// timeout, 3 retries, 200ms initial backoff capped at 5s. A negative
// MaxRetries disables retries entirely.
type Config struct {
	URL            string
	Timeout        time.Duration
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration

	// Transport is injectable for tests; nil uses http.DefaultTransport.
	Transport http.RoundTripper
}

// Client downloads one URL with retry/backoff. It implements
// datasource.Source.
type Client struct {
	url            string
	httpClient     *http.Client
	maxRetries     int
	initialBackoff time.Duration
	maxBackoff     time.Duration

	// sleep is injectable so tests run fast.
	sleep func(time.Duration)
}

// NewClient constructs a Client from Config, applying defaults.
func NewClient(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	} else if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 200 * time.Millisecond
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	return &Client{
		url: cfg.URL,
		httpClient: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cfg.Transport,
		},
		maxRetries:     cfg.MaxRetries,
		initialBackoff: cfg.InitialBackoff,
		maxBackoff:     cfg.MaxBackoff,
		sleep:          time.Sleep,
	}
}

// Open issues a GET for the configured URL and returns the response body.
// Transport errors and 5xx responses are retried with exponential backoff;
// other non-200 statuses fail immediately. The caller closes the body.
func (c *Client) Open(ctx context.Context) (io.ReadCloser, error) {
	backoff := c.initialBackoff
	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if attempt > 0 {
			c.sleep(backoff)
			if backoff *= 2; backoff > c.maxBackoff {
				backoff = c.maxBackoff
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
		if err != nil {
			return nil, fmt.Errorf("httpds: build request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			continue
		}
		switch {
		case resp.StatusCode == http.StatusOK:
			return resp.Body, nil
		case resp.StatusCode >= 500:
			resp.Body.Close()
			lastErr = fmt.Errorf("httpds: %s: %s", c.url, resp.Status)
		default:
			resp.Body.Close()
			return nil, fmt.Errorf("httpds: %s: %s", c.url, resp.Status)
		}
	}
	return nil, fmt.Errorf("httpds: %s: giving up after %d attempts: %w",
		c.url, c.maxRetries+1, lastErr)
}
