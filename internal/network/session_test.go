package network

import (
	"context"
	"errors"
	"io"
	"net"
	"strings"
	"testing"
	"time"

	fhttp "github.com/bogdanfinn/fhttp"
	"github.com/rs/zerolog"
)

type scriptedDoer struct {
	statuses []int
	errs     []error
	calls    int
	agents   []string
}

func (d *scriptedDoer) Do(req *fhttp.Request) (*fhttp.Response, error) {
	idx := d.calls
	d.calls++
	d.agents = append(d.agents, req.Header.Get("User-Agent"))
	if idx < len(d.errs) && d.errs[idx] != nil {
		return nil, d.errs[idx]
	}
	status := 200
	if idx < len(d.statuses) {
		status = d.statuses[idx]
	}
	return &fhttp.Response{
		StatusCode: status,
		Body:       io.NopCloser(strings.NewReader("body")),
	}, nil
}

type recordedSleep struct {
	waits []time.Duration
}

func (r *recordedSleep) Sleep(_ context.Context, d time.Duration) error {
	r.waits = append(r.waits, d)
	return nil
}

func newTestSession(doer Doer, sleep *recordedSleep) *Session {
	return NewSession(doer, SessionOptions{
		UserAgent: "fithire-test",
		Retry: RetryPolicy{
			Attempts:  3,
			BaseDelay: time.Second,
			Sleep:     sleep.Sleep,
		},
		Logger: zerolog.Nop(),
	})
}

func TestSessionRetriesTransientStatus(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{503, 429, 200}}
	sleep := &recordedSleep{}
	session := newTestSession(doer, sleep)

	body, err := session.Get(context.Background(), "https://example.com/jobs", nil)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if string(body) != "body" {
		t.Fatalf("unexpected body: %q", body)
	}
	if doer.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", doer.calls)
	}
	want := []time.Duration{time.Second, 2 * time.Second}
	if len(sleep.waits) != len(want) {
		t.Fatalf("expected %d waits, got %v", len(want), sleep.waits)
	}
	for i := range want {
		if sleep.waits[i] != want[i] {
			t.Fatalf("wait[%d] = %v, want %v", i, sleep.waits[i], want[i])
		}
	}
}

func TestSessionGivesUpAfterThreeAttempts(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{500, 502, 504, 200}}
	session := newTestSession(doer, &recordedSleep{})

	_, err := session.Get(context.Background(), "https://example.com/jobs", nil)
	if err == nil {
		t.Fatalf("expected error after exhausting attempts")
	}
	var statusErr *StatusError
	if !errors.As(err, &statusErr) || statusErr.Code != 504 {
		t.Fatalf("expected wrapped 504 status error, got %v", err)
	}
	if doer.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", doer.calls)
	}
}

func TestSessionDoesNotRetryClientErrors(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{404}}
	sleep := &recordedSleep{}
	session := newTestSession(doer, sleep)

	_, err := session.Get(context.Background(), "https://example.com/missing", nil)
	if err == nil {
		t.Fatalf("expected error for 404")
	}
	if doer.calls != 1 {
		t.Fatalf("expected 1 call, got %d", doer.calls)
	}
	if len(sleep.waits) != 0 {
		t.Fatalf("expected no waits, got %v", sleep.waits)
	}
}

func TestSessionRetriesTransportErrors(t *testing.T) {
	doer := &scriptedDoer{errs: []error{&net.OpError{Op: "dial", Err: errors.New("refused")}}}
	session := newTestSession(doer, &recordedSleep{})

	if _, err := session.Get(context.Background(), "https://example.com", nil); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if doer.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", doer.calls)
	}
}

func TestSessionSendsFixedUserAgent(t *testing.T) {
	doer := &scriptedDoer{}
	session := newTestSession(doer, &recordedSleep{})

	_, _ = session.Get(context.Background(), "https://example.com", map[string]string{"User-Agent": "other"})
	if len(doer.agents) != 1 || doer.agents[0] != "fithire-test" {
		t.Fatalf("unexpected user agents: %v", doer.agents)
	}
}

func TestSessionStopsOnCancelledContext(t *testing.T) {
	doer := &scriptedDoer{statuses: []int{503, 503, 503}}
	ctx, cancel := context.WithCancel(context.Background())
	session := NewSession(doer, SessionOptions{
		Retry: RetryPolicy{
			Attempts:  3,
			BaseDelay: time.Second,
			Sleep: func(context.Context, time.Duration) error {
				cancel()
				return context.Canceled
			},
		},
		Logger: zerolog.Nop(),
	})

	_, err := session.Get(ctx, "https://example.com", nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if doer.calls != 1 {
		t.Fatalf("expected 1 call, got %d", doer.calls)
	}
}

func TestSessionRateLimitHonoursContext(t *testing.T) {
	doer := &scriptedDoer{}
	session := NewSession(doer, SessionOptions{MinDelay: time.Hour, Logger: zerolog.Nop()})

	if _, err := session.Get(context.Background(), "https://example.com", nil); err != nil {
		t.Fatalf("first Get() error = %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, err := session.Get(ctx, "https://example.com", nil); err == nil {
		t.Fatalf("expected second Get() to fail while rate limited")
	}
	if doer.calls != 1 {
		t.Fatalf("expected rate limiter to block the second request, got %d calls", doer.calls)
	}
}

func TestIsRetryable(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"http 429", &StatusError{Code: 429}, true},
		{"http 500", &StatusError{Code: 500}, true},
		{"http 403", &StatusError{Code: 403}, false},
		{"transport", &TransportError{Err: errors.New("eof")}, true},
		{"dns timeout", &net.DNSError{IsTimeout: true}, true},
		{"plain", errors.New("parse failure"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsRetryable(tt.err); got != tt.want {
				t.Fatalf("IsRetryable() = %v, want %v", got, tt.want)
			}
		})
	}
}
