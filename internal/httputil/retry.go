// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides the HTTP plumbing shared by every request the
// catalog client makes: a rate-limit retry loop and a GET helper that
// classifies the outcome.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// RetryDelay is the fixed pause after an HTTP 429 (Too Many Requests)
// response. Tests override this to avoid real sleeps.
var RetryDelay = 15 * time.Second

// DefaultMaxRetries is how many times a rate-limited request is repeated
// before giving up.
const DefaultMaxRetries = 8

var (
	// ErrNoContent reports a successful response with nothing in it. Callers
	// treat it as an empty result, not a failure.
	ErrNoContent = errors.New("no content")

	// ErrRateLimitExceeded reports that the server kept answering 429 after
	// every retry was used.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Doer is the minimal HTTP client interface; *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// StatusError is returned for a non-2xx response other than 429.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d %s", e.StatusCode, http.StatusText(e.StatusCode))
}

// DoWithRetry executes an HTTP request and retries on HTTP 429 (Too Many
// Requests), pausing RetryDelay before each retry. No other status or
// transport error is retried.
//
// When maxRetries is 0 the default (8) is used, so a request is sent at
// most nine times. On each 429 the response body is drained and closed
// before sleeping. If the context is cancelled during a wait the function
// returns ctx.Err(). After exhausting retries it returns an error wrapping
// ErrRateLimitExceeded.
func DoWithRetry(ctx context.Context, client Doer, req *http.Request, maxRetries int) (*http.Response, error) {
	return doWithRetry(ctx, client, req, maxRetries, RetryDelay)
}

func doWithRetry(ctx context.Context, client Doer, req *http.Request, maxRetries int, delay time.Duration) (*http.Response, error) {
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}

	for attempt := 0; ; attempt++ {
		resp, err := client.Do(req.Clone(ctx))
		if err != nil {
			return nil, err
		}

		if resp.StatusCode != http.StatusTooManyRequests {
			return resp, nil
		}

		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()

		if attempt >= maxRetries {
			return nil, fmt.Errorf("%w after %d retries", ErrRateLimitExceeded, maxRetries)
		}

		slog.Debug("rate limited, pausing before retry",
			"url", req.URL.String(), "delay", delay, "attempt", attempt+1, "max", maxRetries)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}
}

// Options adjusts a single Get call.
type Options struct {
	// UserAgent is sent as the User-Agent header when non-empty.
	UserAgent string

	// Token is sent as "Authorization: Token <token>" when non-empty.
	Token string

	// MaxRetries overrides DefaultMaxRetries when positive.
	MaxRetries int

	// RetryDelay overrides the package RetryDelay when positive.
	RetryDelay time.Duration
}

// Get fetches url and returns the response body. The outcome is classified
// for the caller: a 204 or an empty 2xx body yields ErrNoContent; a 429 that
// outlasts the retries yields ErrRateLimitExceeded; any other non-2xx status
// yields a *StatusError; transport failures are returned as they are.
func Get(ctx context.Context, client Doer, url string, opts Options) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}
	if opts.Token != "" {
		req.Header.Set("Authorization", "Token "+opts.Token)
	}

	delay := RetryDelay
	if opts.RetryDelay > 0 {
		delay = opts.RetryDelay
	}

	resp, err := doWithRetry(ctx, client, req, opts.MaxRetries, delay)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil, ErrNoContent
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if len(body) == 0 {
		return nil, ErrNoContent
	}
	return body, nil
}
