// Package gateways implements the HTTP clients for the external billing and
// fleet services. Both clients share a small JSON transport with bounded
// exponential-backoff retries; repeated failure surfaces as an upstream
// availability error so callers can degrade instead of failing the order.
package gateways

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryConfig bounds the retry loop around a single logical call.
type RetryConfig struct {
	MaxRetries      int
	InitialInterval time.Duration
	MaxInterval     time.Duration
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:      2,
		InitialInterval: 200 * time.Millisecond,
		MaxInterval:     2 * time.Second,
	}
}

type httpClient struct {
	base  string
	http  *http.Client
	retry RetryConfig
}

func newHTTPClient(baseURL string, timeout time.Duration, retry RetryConfig) httpClient {
	if retry.InitialInterval == 0 {
		retry.InitialInterval = 200 * time.Millisecond
	}
	if retry.MaxInterval == 0 {
		retry.MaxInterval = 2 * time.Second
	}

	return httpClient{
		base:  baseURL,
		http:  &http.Client{Timeout: timeout},
		retry: retry,
	}
}

// statusError marks a non-2xx response. Server-side statuses are retryable,
// client-side ones are not.
type statusError struct {
	code int
	body string
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.code, e.body)
}

func (e *statusError) retryable() bool {
	return e.code >= http.StatusInternalServerError
}

// postJSON POSTs the request body and decodes the response into out,
// retrying transient failures with exponential backoff.
func (c httpClient) postJSON(ctx context.Context, path string, in, out any) error {
	payload, err := json.Marshal(in)
	if err != nil {
		return err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = c.retry.InitialInterval
	bo.MaxInterval = c.retry.MaxInterval
	bo.MaxElapsedTime = 0

	attempts := 0
	for {
		err = c.doOnce(ctx, path, payload, out)
		if err == nil {
			return nil
		}

		if se, ok := err.(*statusError); ok && !se.retryable() {
			return err
		}
		if ctx.Err() != nil {
			return err
		}
		if attempts >= c.retry.MaxRetries {
			return err
		}
		attempts++

		wait := bo.NextBackOff()
		if wait == backoff.Stop {
			return err
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (c httpClient) doOnce(ctx context.Context, path string, payload []byte, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &statusError{code: resp.StatusCode, body: string(body)}
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
