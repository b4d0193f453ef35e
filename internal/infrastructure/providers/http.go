package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"payledger.backend/internal/infrastructure/metrics"
)

const maxResponseBytes = 1 << 20

// jsonCaller performs JSON round-trips against one provider
type jsonCaller struct {
	provider   string
	baseURL    string
	httpClient *http.Client
	headers    func(h http.Header)
	retries    uint64
}

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// do sends body (if any) and decodes the response into out. The returned status
// is zero when no response arrived.
func (c *jsonCaller) do(ctx context.Context, operation, method, path string, body, out interface{}) (int, error) {
	started := time.Now()
	status, err := c.send(ctx, method, path, body, out)
	if err != nil {
		var perr *ProviderError
		if !errors.As(err, &perr) {
			err = &ProviderError{Provider: c.provider, Operation: operation, StatusCode: status, Message: err.Error()}
		} else if perr.Operation == "" {
			perr.Operation = operation
		}
	}
	observed := err
	if observed == nil && status >= http.StatusBadRequest {
		observed = fmt.Errorf("status %d", status)
	}
	metrics.ObserveProviderCall(c.provider, operation, started, observed)
	return status, err
}

// doIdempotent retries transport failures and 5xx answers. Only safe for lookups.
func (c *jsonCaller) doIdempotent(ctx context.Context, operation, method, path string, out interface{}) (int, error) {
	var status int
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(
			backoff.WithInitialInterval(200*time.Millisecond),
			backoff.WithMaxElapsedTime(5*time.Second),
		), c.retries),
		ctx,
	)
	err := backoff.Retry(func() error {
		var err error
		status, err = c.do(ctx, operation, method, path, nil, out)
		if err == nil && (status >= http.StatusInternalServerError || status == http.StatusTooManyRequests) {
			err = &ProviderError{Provider: c.provider, Operation: operation, StatusCode: status, Message: http.StatusText(status)}
		}
		if err == nil {
			return nil
		}
		var perr *ProviderError
		if errors.As(err, &perr) && !perr.Retryable() {
			return backoff.Permanent(err)
		}
		return err
	}, policy)
	return status, err
}

func (c *jsonCaller) send(ctx context.Context, method, path string, body, out interface{}) (int, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.headers != nil {
		c.headers(req.Header)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	if out != nil && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil && resp.StatusCode < 400 {
			return resp.StatusCode, fmt.Errorf("decode response: %w", err)
		}
	}
	return resp.StatusCode, nil
}
