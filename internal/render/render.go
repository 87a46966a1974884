// Package render abstracts the headless-browser capability the bio
// sync needs: player overview pages are populated by client-side
// script, so a plain GET returns an empty shell. The orchestration
// core only sees the Renderer interface; the real implementation
// talks to a browserless-style render service over HTTP.
package render

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"

	"github.com/courtside-data/atp-cli/internal/resilience"
)

// Renderer loads a page in a scripted browser, waits for the network
// to go idle, and returns the rendered HTML.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// ServiceOptions configures the render-service client.
type ServiceOptions struct {
	// BaseURL of the render service, e.g. "http://localhost:3000".
	BaseURL string
	// Token is appended as the service's access token, when set.
	Token string
	// Timeout bounds one render call end to end.
	Timeout time.Duration
	// MaxAttempts bounds the render retry budget. Render timeouts are
	// retried with the same backoff policy as plain fetches but on
	// their own counter.
	MaxAttempts int
	// WaitUntil is the page-settle condition. Default: networkidle0.
	WaitUntil string
}

// ServiceClient renders pages via an HTTP render service
// (POST /content with goto options).
type ServiceClient struct {
	http  *http.Client
	opts  ServiceOptions
	retry resilience.RetryConfig
}

// NewServiceClient creates a render-service client.
func NewServiceClient(opts ServiceOptions) *ServiceClient {
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = 3
	}
	if opts.WaitUntil == "" {
		opts.WaitUntil = "networkidle0"
	}

	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = opts.MaxAttempts

	return &ServiceClient{
		http:  &http.Client{Timeout: opts.Timeout},
		opts:  opts,
		retry: retry,
	}
}

type contentRequest struct {
	URL         string      `json:"url"`
	GotoOptions gotoOptions `json:"gotoOptions"`
}

type gotoOptions struct {
	WaitUntil string `json:"waitUntil"`
	Timeout   int64  `json:"timeout,omitempty"`
}

// Render fetches the rendered HTML for a URL, retrying timeouts.
func (c *ServiceClient) Render(ctx context.Context, url string) (string, error) {
	retry := c.retry
	retry.OnRetry = resilience.RetryLogger("render.service", url)

	return resilience.DoVal(ctx, retry, func(ctx context.Context) (string, error) {
		return c.renderOnce(ctx, url)
	})
}

func (c *ServiceClient) renderOnce(ctx context.Context, url string) (string, error) {
	body, err := json.Marshal(contentRequest{
		URL: url,
		GotoOptions: gotoOptions{
			WaitUntil: c.opts.WaitUntil,
			Timeout:   c.opts.Timeout.Milliseconds(),
		},
	})
	if err != nil {
		return "", resilience.NewPermanentError(eris.Wrap(err, "render: marshal request"))
	}

	endpoint := c.opts.BaseURL + "/content"
	if c.opts.Token != "" {
		endpoint += "?token=" + c.opts.Token
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", resilience.NewPermanentError(eris.Wrap(err, "render: create request"))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", eris.Wrapf(err, "render: post %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	html, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", eris.Wrap(err, "render: read body")
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode <= 299:
		return string(html), nil
	case resp.StatusCode == http.StatusRequestTimeout || resp.StatusCode == http.StatusGatewayTimeout:
		// The service reports page-load timeouts as HTTP timeouts.
		return "", resilience.NewTransientError(&resilience.StatusError{
			StatusCode: resp.StatusCode,
			URL:        url,
		})
	default:
		return "", resilience.NewPermanentError(&resilience.StatusError{
			StatusCode: resp.StatusCode,
			URL:        url,
		})
	}
}
