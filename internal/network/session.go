package network

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const maxBodyBytes = 8 << 20

// RetryPolicy controls how a Session retries transient failures.
// Attempts counts the first try; the delay before attempt n (n >= 2) is
// BaseDelay * 2^(n-2).
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	Sleep     func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy tries three times, waiting 1s then 2s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:  3,
		BaseDelay: time.Second,
		Sleep:     SleepContext,
	}
}

// SessionOptions configures a Session.
type SessionOptions struct {
	UserAgent string
	// MinDelay is the minimum gap between two requests of the same session.
	MinDelay time.Duration
	Timeout  time.Duration
	Retry    RetryPolicy
	Logger   zerolog.Logger
}

// Session issues polite requests for a single source: fixed user agent,
// rate limited, retried and bounded by a per-request timeout.
type Session struct {
	doer      Doer
	userAgent string
	limiter   *rate.Limiter
	timeout   time.Duration
	retry     RetryPolicy
	logger    zerolog.Logger
}

func NewSession(doer Doer, opts SessionOptions) *Session {
	limit := rate.Inf
	if opts.MinDelay > 0 {
		limit = rate.Every(opts.MinDelay)
	}

	retry := opts.Retry
	if retry.Attempts <= 0 {
		retry.Attempts = 1
	}
	if retry.Sleep == nil {
		retry.Sleep = SleepContext
	}

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}

	return &Session{
		doer:      doer,
		userAgent: userAgent,
		limiter:   rate.NewLimiter(limit, 1),
		timeout:   opts.Timeout,
		retry:     retry,
		logger:    opts.Logger,
	}
}

// Get fetches target and returns the response body. Transient failures are
// retried per the session's RetryPolicy; the last error is returned once
// attempts are exhausted.
func (s *Session) Get(ctx context.Context, target string, headers map[string]string) ([]byte, error) {
	var lastErr error
	for attempt := 1; attempt <= s.retry.Attempts; attempt++ {
		if attempt > 1 {
			wait := s.retry.BaseDelay << (attempt - 2)
			s.logger.Debug().
				Str("url", target).
				Int("attempt", attempt).
				Dur("wait", wait).
				Err(lastErr).
				Msg("retrying request")
			if err := s.retry.Sleep(ctx, wait); err != nil {
				return nil, err
			}
		}

		body, err := s.once(ctx, target, headers)
		if err == nil {
			return body, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		lastErr = err
		if !IsRetryable(err) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("giving up after %d attempts: %w", s.retry.Attempts, lastErr)
}

func (s *Session) once(ctx context.Context, target string, headers map[string]string) ([]byte, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	reqCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	req, err := fhttp.NewRequestWithContext(reqCtx, fhttp.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.doer.Do(req)
	if err != nil {
		var transportErr *TransportError
		if !errors.As(err, &transportErr) {
			err = &TransportError{URL: target, Err: err}
		}
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return nil, &StatusError{URL: target, Code: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &TransportError{URL: target, Err: err}
	}
	return body, nil
}

// SleepContext waits for d or until ctx is done.
func SleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
