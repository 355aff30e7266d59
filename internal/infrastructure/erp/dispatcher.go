// Package erp contains the outbound HTTP adapter for third-party ERP
// systems: the retrying dispatcher and response interpretation.
package erp

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/procureflow/backend/internal/domain/integration"
)

// maxResponseSize is the maximum allowed response size from an ERP (10MB)
const maxResponseSize = 10 * 1024 * 1024

// HTTPDispatcher implements integration.Dispatcher over net/http with a
// per-call timeout and exponential-backoff retries. Network failures,
// timeouts and 5xx responses are retried; a 4xx response is terminal.
type HTTPDispatcher struct {
	client *http.Client
	logger *zap.Logger
	wait   func(ctx context.Context, d time.Duration) error
}

// DispatcherOption configures an HTTPDispatcher
type DispatcherOption func(*HTTPDispatcher)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(client *http.Client) DispatcherOption {
	return func(d *HTTPDispatcher) {
		d.client = client
	}
}

// WithWaitFunc overrides the backoff wait, used by tests to avoid sleeping
func WithWaitFunc(wait func(ctx context.Context, d time.Duration) error) DispatcherOption {
	return func(d *HTTPDispatcher) {
		d.wait = wait
	}
}

// NewHTTPDispatcher creates a dispatcher. The per-request timeout comes from
// each integration's policy, so the shared client carries none.
func NewHTTPDispatcher(logger *zap.Logger, opts ...DispatcherOption) *HTTPDispatcher {
	d := &HTTPDispatcher{
		client: &http.Client{},
		logger: logger.Named("erp.dispatcher"),
		wait:   waitWithContext,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send performs up to RetryAttempts+1 HTTP calls. The returned Result holds
// the last response obtained (if any), the number of attempts actually made,
// and the last transient error when the budget was exhausted without an
// ok or terminal response.
func (d *HTTPDispatcher) Send(ctx context.Context, req integration.Request) integration.Result {
	var res integration.Result

	for attempt := 0; attempt <= req.RetryAttempts; attempt++ {
		res.Attempts++

		status, body, err := d.attempt(ctx, req)
		if err == nil {
			res.HasResponse = true
			res.StatusCode = status
			res.Body = body
			res.Err = nil

			if status < http.StatusBadRequest {
				res.OK = true
				return res
			}
			if status < http.StatusInternalServerError {
				// Client errors are not retried; the ERP rejected the
				// payload and retrying the same request cannot help.
				d.logger.Warn("ERP rejected request",
					zap.String("url", req.URL),
					zap.Int("status", status),
					zap.Int("attempt", attempt+1),
				)
				return res
			}
		} else {
			res.Err = err
		}

		d.logger.Warn("ERP request attempt failed",
			zap.String("url", req.URL),
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", req.RetryAttempts+1),
			zap.Error(res.Err),
		)

		if attempt < req.RetryAttempts {
			if err := d.wait(ctx, BackoffDelay(attempt)); err != nil {
				res.Err = err
				return res
			}
		}
	}

	return res
}

// attempt issues a single HTTP call bounded by the request timeout.
func (d *HTTPDispatcher) attempt(ctx context.Context, req integration.Request) (int, []byte, error) {
	callCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := http.NewRequestWithContext(callCtx, req.Method, req.URL, bytes.NewReader(req.Body))
	if err != nil {
		return 0, nil, fmt.Errorf("erp: failed to create request: %w", err)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := d.client.Do(httpReq)
	if err != nil {
		return 0, nil, fmt.Errorf("erp: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return 0, nil, fmt.Errorf("erp: failed to read response: %w", err)
	}

	return resp.StatusCode, body, nil
}

// BackoffDelay returns the wait before the retry following the given
// attempt: 2^attempt seconds, attempt 0-indexed from the first try.
func BackoffDelay(attempt int) time.Duration {
	return time.Duration(1<<uint(attempt)) * time.Second
}

// waitWithContext sleeps without blocking past context cancellation.
func waitWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
