// Package httpclient provides the raw document fetcher used by providers and
// the story reader.
package httpclient

import (
	"context"
	"time"

	"github.com/go-resty/resty/v2"
)

// Response is the subset of an HTTP response the fetchers read.
type Response interface {
	StatusCode() int
	Body() []byte
}

// Client performs GET requests with per-request headers.
type Client interface {
	Get(ctx context.Context, url string, headers map[string]string) (Response, error)
}

// Option configures the resty client.
type Option func(*resty.Client)

// WithRetryCount sets how many times a failed request is retried.
func WithRetryCount(n int) Option {
	return func(c *resty.Client) {
		if n > 0 {
			c.SetRetryCount(n)
		}
	}
}

// WithUserAgent sets the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *resty.Client) {
		if ua != "" {
			c.SetHeader("User-Agent", ua)
		}
	}
}

type restyClient struct {
	client *resty.Client
}

// NewRestyClient returns a Client backed by resty with the given timeout.
func NewRestyClient(timeout time.Duration, opts ...Option) Client {
	c := resty.New().SetTimeout(timeout)
	for _, opt := range opts {
		opt(c)
	}
	return &restyClient{client: c}
}

// Get fetches url. Non-2xx statuses are not errors; callers inspect StatusCode.
func (r *restyClient) Get(ctx context.Context, url string, headers map[string]string) (Response, error) {
	resp, err := r.client.R().
		SetContext(ctx).
		SetHeaders(headers).
		Get(url)
	if err != nil {
		return nil, err
	}
	return resp, nil
}
