package payments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
)

const (
	retryWaitMin    = 200 * time.Millisecond
	retryWaitMax    = 2 * time.Second
	maxResponseBody = 1 << 20
)

// StatusError is a non-2xx gateway response. Body is kept for logs only.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.StatusCode)
}

// newRetryableClient builds the HTTP client for REST gateways.
//
// Only transport errors and 429/502/503/504 are retried. Any other response
// goes straight back to the caller.
func newRetryableClient(maxRetries int, logger *zap.Logger) *retryablehttp.Client {
	c := retryablehttp.NewClient()
	c.RetryMax = maxRetries
	c.RetryWaitMin = retryWaitMin
	c.RetryWaitMax = retryWaitMax
	c.Backoff = retryablehttp.LinearJitterBackoff
	c.CheckRetry = retryTransient
	c.ErrorHandler = retryablehttp.PassthroughErrorHandler
	c.Logger = zapLeveledLogger{logger.Sugar()}
	return c
}

func retryTransient(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil {
		return retryablehttp.DefaultRetryPolicy(ctx, resp, err)
	}
	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true, nil
	}
	return false, nil
}

// doJSON sends body as JSON (when non-nil) and decodes a 2xx response into out.
func doJSON(ctx context.Context, c *retryablehttp.Client, method, url string, headers map[string]string, body, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		payload = b
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return do(c, req, out)
}

func do(c *retryablehttp.Client, req *retryablehttp.Request, out any) error {
	resp, err := c.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{StatusCode: resp.StatusCode, Body: string(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}

type zapLeveledLogger struct {
	s *zap.SugaredLogger
}

func (l zapLeveledLogger) Error(msg string, kv ...interface{}) { l.s.Errorw(msg, kv...) }
func (l zapLeveledLogger) Info(msg string, kv ...interface{})  { l.s.Debugw(msg, kv...) }
func (l zapLeveledLogger) Debug(msg string, kv ...interface{}) { l.s.Debugw(msg, kv...) }
func (l zapLeveledLogger) Warn(msg string, kv ...interface{})  { l.s.Warnw(msg, kv...) }
