// Package fetch implements a retrying HTTP client for remote component documents.
package fetch

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.trai.ch/compass/internal/adapters/metrics"
	"go.trai.ch/compass/internal/core/domain"
	"go.trai.ch/compass/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	// DefaultRetries is the number of retries after the first attempt.
	DefaultRetries = 3
	// DefaultTimeout bounds every single attempt.
	DefaultTimeout = 10 * time.Second
	// DefaultBaseDelay is the first backoff step.
	DefaultBaseDelay = 500 * time.Millisecond
	// MaxJitter bounds the random component added to every backoff.
	MaxJitter = time.Second
	// MaxRetryAfter caps the delay a server may request through Retry-After.
	MaxRetryAfter = 30 * time.Second

	userAgent = "compass"
)

// Client implements ports.Fetcher with per-attempt timeouts and exponential backoff.
type Client struct {
	doer      ports.HTTPDoer
	retries   int
	timeout   time.Duration
	baseDelay time.Duration
	jitter    func() time.Duration
	sleep     func(context.Context, time.Duration) error
	logger    ports.Logger
	metrics   *metrics.Metrics
}

// Option configures a Client.
type Option func(*Client)

// WithRetries sets the number of retries after the first attempt.
func WithRetries(n int) Option {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithTimeout sets the per-attempt timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithBaseDelay sets the first backoff step.
func WithBaseDelay(d time.Duration) Option {
	return func(c *Client) {
		if d >= 0 {
			c.baseDelay = d
		}
	}
}

// WithJitter replaces the random backoff component.
func WithJitter(fn func() time.Duration) Option {
	return func(c *Client) { c.jitter = fn }
}

// WithSleep replaces the function used to wait between attempts.
func WithSleep(fn func(context.Context, time.Duration) error) Option {
	return func(c *Client) { c.sleep = fn }
}

// WithLogger reports retries at debug level.
func WithLogger(l ports.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// WithMetrics counts attempts by outcome.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Client) { c.metrics = m }
}

// New creates a Client sending requests through doer.
func New(doer ports.HTTPDoer, opts ...Option) *Client {
	c := &Client{
		doer:      doer,
		retries:   DefaultRetries,
		timeout:   DefaultTimeout,
		baseDelay: DefaultBaseDelay,
		jitter:    uniformJitter,
		sleep:     sleepContext,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Fetch performs a GET request and returns the body of the first successful attempt.
// Server errors, 429, timeouts and transport failures are retried; other statuses are final.
func (c *Client) Fetch(ctx context.Context, req ports.FetchRequest) ([]byte, error) {
	for attempt := 0; ; attempt++ {
		body, retryAfter, err := c.attempt(ctx, req)
		if err == nil {
			c.observe(metrics.OutcomeSuccess)
			return body, nil
		}

		var netErr *domain.NetworkError
		if !errors.As(err, &netErr) {
			c.observe(metrics.OutcomeFatal)
			return nil, err
		}
		netErr.Attempts = attempt + 1

		if ctxErr := ctx.Err(); ctxErr != nil {
			c.observe(metrics.OutcomeFatal)
			return nil, zerr.With(zerr.Wrap(ctxErr, domain.ErrFetchFailed.Error()), "url", req.URL)
		}

		if !netErr.Retryable() || attempt >= c.retries {
			c.observe(metrics.OutcomeFatal)
			return nil, zerr.With(zerr.Wrap(netErr, domain.ErrFetchFailed.Error()), "url", req.URL)
		}
		c.observe(metrics.OutcomeRetryable)

		delay := c.backoff(attempt, retryAfter)
		if c.logger != nil {
			c.logger.Debug("retrying " + req.URL + " in " + delay.String() + ": " + netErr.Error())
		}
		if err := c.sleep(ctx, delay); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrFetchFailed.Error()), "url", req.URL)
		}
	}
}

// FetchJSON fetches req and decodes the body into v.
// A body that is not valid JSON yields a ParseError and is not retried.
func (c *Client) FetchJSON(ctx context.Context, req ports.FetchRequest, v any) error {
	body, err := c.Fetch(ctx, req)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(body, v); err != nil {
		return zerr.With(domain.NewParseError("malformed JSON response", body, err), "url", req.URL)
	}
	return nil
}

// attempt performs a single request bounded by the per-attempt timeout.
func (c *Client) attempt(ctx context.Context, req ports.FetchRequest) ([]byte, time.Duration, error) {
	actx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(actx, http.MethodGet, req.URL, http.NoBody)
	if err != nil {
		return nil, 0, zerr.With(zerr.Wrap(err, domain.ErrRequestBuildFailed.Error()), "url", req.URL)
	}
	httpReq.Header.Set("User-Agent", userAgent)
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := c.doer.Do(httpReq)
	if err != nil {
		return nil, 0, &domain.NetworkError{
			URL:      req.URL,
			TimedOut: timedOut(actx, err),
			Err:      err,
		}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, retryAfter(resp), &domain.NetworkError{
			URL:        req.URL,
			StatusCode: resp.StatusCode,
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &domain.NetworkError{
			URL:      req.URL,
			TimedOut: timedOut(actx, err),
			Err:      zerr.Wrap(err, domain.ErrResponseReadFailed.Error()),
		}
	}
	return body, 0, nil
}

// backoff returns base * 2^attempt plus jitter, raised to the server's Retry-After.
func (c *Client) backoff(attempt int, retryAfter time.Duration) time.Duration {
	delay := c.baseDelay<<attempt + c.jitter()
	return max(delay, retryAfter)
}

func (c *Client) observe(outcome string) {
	if c.metrics != nil {
		c.metrics.FetchAttempts.WithLabelValues(outcome).Inc()
	}
}

// retryAfter reads the delay advertised by a 429 response, capped at MaxRetryAfter.
func retryAfter(resp *http.Response) time.Duration {
	if resp.StatusCode != http.StatusTooManyRequests {
		return 0
	}
	secs, err := strconv.Atoi(resp.Header.Get("Retry-After"))
	if err != nil || secs <= 0 {
		return 0
	}
	return min(time.Duration(secs)*time.Second, MaxRetryAfter)
}

func timedOut(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func uniformJitter() time.Duration {
	return rand.N(MaxJitter)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
