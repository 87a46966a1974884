// Package scrape fetches and parses pages from the public tour site.
// Fetching retries timeouts with exponential backoff; parsing is
// defensive and yields nil fields instead of failing a document over
// one malformed row.
package scrape

import (
	"context"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/courtside-data/atp-cli/internal/resilience"
)

// Options configures the fetch client.
type Options struct {
	BaseURL           string
	UserAgent         string
	Timeout           time.Duration
	MaxAttempts       int
	RequestsPerSecond float64
}

// Client fetches tour pages with per-request timeout, polite rate
// limiting, and bounded timeout retries. Non-2xx statuses fail
// immediately: against a scraped site they mean the resource is truly
// absent, and retrying only adds load.
type Client struct {
	http    *http.Client
	baseURL string
	agent   string
	limiter *rate.Limiter
	retry   resilience.RetryConfig
}

// NewClient creates a Client with sensible defaults.
func NewClient(opts Options) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = "Mozilla/5.0 (compatible; atp-cli/1.0)"
	}
	if opts.Timeout == 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.MaxAttempts == 0 {
		opts.MaxAttempts = 3
	}
	if opts.RequestsPerSecond == 0 {
		opts.RequestsPerSecond = 2
	}

	retry := resilience.DefaultRetryConfig()
	retry.MaxAttempts = opts.MaxAttempts

	return &Client{
		http: &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 10 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout: 10 * time.Second,
				MaxIdleConnsPerHost: 4,
			},
		},
		baseURL: opts.BaseURL,
		agent:   opts.UserAgent,
		limiter: rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1),
		retry:   retry,
	}
}

// Get fetches a URL and parses it into a document. Timeouts are
// retried up to the attempt budget, sleeping 1s, 2s, 4s, ... between
// tries; any other failure is returned at once.
func (c *Client) Get(ctx context.Context, url string) (*goquery.Document, error) {
	retry := c.retry
	retry.OnRetry = resilience.RetryLogger("scrape.client", url)

	return resilience.DoVal(ctx, retry, func(ctx context.Context) (*goquery.Document, error) {
		return c.fetchOnce(ctx, url)
	})
}

func (c *Client) fetchOnce(ctx context.Context, url string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "scrape: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, resilience.NewPermanentError(eris.Wrap(err, "scrape: create request"))
	}
	req.Header.Set("User-Agent", c.agent)

	resp, err := c.http.Do(req)
	if err != nil {
		// Timeouts surface as net.Error and are retried by the caller.
		return nil, eris.Wrapf(err, "scrape: fetch %s", url)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, resilience.NewPermanentError(&resilience.StatusError{
			StatusCode: resp.StatusCode,
			URL:        url,
		})
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, resilience.NewPermanentError(eris.Wrapf(err, "scrape: parse %s", url))
	}
	return doc, nil
}
