package adapter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/g2b-insight/g2b-indexer/internal/logger"
)

const (
	defaultRetryInitialInterval = 2 * time.Second
	defaultRetryMaxElapsed      = 1 * time.Minute
)

var errRateLimited = errors.New("rate limited (429)")

// Response holds the status and body of a completed HTTP exchange
type Response struct {
	StatusCode int
	Body       []byte
}

// HTTPClient defines an interface for HTTP client operations to enable mocking
//
//go:generate mockgen -source=http.go -destination=../mocks/http.go -package=mocks -mock_names=HTTPClient=MockHTTPClient
type HTTPClient interface {
	// GetRaw performs a GET request and returns the response whatever its status.
	// Only 429 responses are retried; transport failures are returned as errors.
	GetRaw(ctx context.Context, url string) (*Response, error)
}

// RealHTTPClient implements HTTPClient using the standard http package
type RealHTTPClient struct {
	client               *http.Client
	retryInitialInterval time.Duration
	retryMaxElapsed      time.Duration
}

// NewHTTPClient creates a new real HTTP client
func NewHTTPClient(timeout time.Duration, retryMaxElapsed time.Duration) HTTPClient {
	if retryMaxElapsed <= 0 {
		retryMaxElapsed = defaultRetryMaxElapsed
	}

	return &RealHTTPClient{
		client: &http.Client{
			Timeout: timeout,
		},
		retryInitialInterval: defaultRetryInitialInterval,
		retryMaxElapsed:      retryMaxElapsed,
	}
}

// doRequestWithRetry executes an HTTP request with exponential backoff retry for rate limiting
func (c *RealHTTPClient) doRequestWithRetry(ctx context.Context, req *http.Request) (*Response, error) {
	var last *Response

	operation := func() error {
		resp, err := c.client.Do(req)
		if err != nil {
			// Transport failures wait for the next scheduled run
			return backoff.Permanent(err)
		}
		defer func() {
			if err := resp.Body.Close(); err != nil {
				logger.Warn("failed to close response body", zap.Error(err))
			}
		}()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("failed to read response body: %w", err))
		}
		last = &Response{StatusCode: resp.StatusCode, Body: body}

		// Handle rate limiting - retry with backoff
		if resp.StatusCode == http.StatusTooManyRequests {
			logger.Warn("rate limited, retrying with backoff", zap.String("host", req.URL.Host))
			return errRateLimited
		}

		return nil
	}

	// Configure exponential backoff
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryInitialInterval
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = c.retryMaxElapsed
	b.Multiplier = 2.0
	b.RandomizationFactor = 0.5 // Add jitter to prevent thundering herd

	if err := backoff.Retry(operation, backoff.WithContext(b, ctx)); err != nil {
		// Still rate limited once the budget is spent; the caller sees the 429
		if errors.Is(err, errRateLimited) && last != nil {
			return last, nil
		}
		return nil, err
	}

	return last, nil
}

// GetRaw performs a GET request and returns the status code and body
func (c *RealHTTPClient) GetRaw(ctx context.Context, url string) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.doRequestWithRetry(ctx, req)
}
