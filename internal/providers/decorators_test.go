package providers

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/preston-bernstein/sports-lines-service/internal/domain/games"
	"github.com/preston-bernstein/sports-lines-service/internal/resilience"
)

type scriptedProvider struct {
	mu    sync.Mutex
	calls int
	errs  []error
}

func (s *scriptedProvider) Name() string { return "scripted" }

func (s *scriptedProvider) Fetch(ctx context.Context, q Query) ([]Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	s.calls++
	if idx < len(s.errs) && s.errs[idx] != nil {
		return nil, s.errs[idx]
	}
	return []Payload{{"id": "1"}}, nil
}

func (s *scriptedProvider) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

type attemptLog struct {
	attempts   int
	failures   int
	rateLimits int
	retryAfter time.Duration
}

func (a *attemptLog) RecordProviderAttempt(provider string, duration time.Duration, err error) {
	a.attempts++
	if err != nil {
		a.failures++
	}
}

func (a *attemptLog) RecordRateLimit(provider string, retryAfter time.Duration) {
	a.rateLimits++
	a.retryAfter = retryAfter
}

var testQuery = ScheduleQuery(games.SportNFL, "")

func TestBreakerProviderOpensAfterTransportFailures(t *testing.T) {
	boom := TransportError("scripted", errors.New("dial tcp: refused"))
	inner := &scriptedProvider{errs: []error{boom, boom}}
	breaker := resilience.New(resilience.Config{Enabled: true, FailureThreshold: 2, OpenTimeout: time.Hour, HalfOpenProbes: 1})
	p := NewBreakerProvider(inner, breaker, nil)

	for i := 0; i < 2; i++ {
		if _, err := p.Fetch(context.Background(), testQuery); !errors.Is(err, ErrTransport) {
			t.Fatalf("expected transport error, got %v", err)
		}
	}
	_, err := p.Fetch(context.Background(), testQuery)
	if !errors.Is(err, ErrTransport) || !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected open-circuit transport error, got %v", err)
	}
	if inner.Calls() != 2 {
		t.Fatalf("expected open breaker to skip upstream, got %d calls", inner.Calls())
	}
}

func TestBreakerProviderTreatsFormatErrorsAsReachable(t *testing.T) {
	inner := &scriptedProvider{errs: []error{UpstreamFormatError("scripted", nil), UpstreamFormatError("scripted", nil)}}
	breaker := resilience.New(resilience.Config{Enabled: true, FailureThreshold: 1, OpenTimeout: time.Hour, HalfOpenProbes: 1})
	p := NewBreakerProvider(inner, breaker, nil)

	_, _ = p.Fetch(context.Background(), testQuery)
	_, _ = p.Fetch(context.Background(), testQuery)
	if breaker.State() != resilience.StateClosed {
		t.Fatalf("expected breaker to stay closed, got %s", breaker.State())
	}
	if inner.Calls() != 2 {
		t.Fatalf("expected both calls to reach upstream, got %d", inner.Calls())
	}
}

func TestNewBreakerProviderNilBreakerReturnsInner(t *testing.T) {
	inner := &scriptedProvider{}
	if got := NewBreakerProvider(inner, nil, nil); got != Provider(inner) {
		t.Fatalf("expected inner provider to be returned unchanged")
	}
}

func TestInstrumentedProviderRecordsAttemptsAndRateLimits(t *testing.T) {
	rl := &RateLimitError{Provider: "scripted", StatusCode: 429, RetryAfter: 5 * time.Second}
	inner := &scriptedProvider{errs: []error{nil, TransportError("scripted", rl)}}
	log := &attemptLog{}
	p := NewInstrumentedProvider(inner, log)

	if _, err := p.Fetch(context.Background(), testQuery); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if _, err := p.Fetch(context.Background(), testQuery); err == nil {
		t.Fatalf("expected rate limit error")
	}
	if log.attempts != 2 || log.failures != 1 {
		t.Fatalf("expected 2 attempts and 1 failure, got %+v", log)
	}
	if log.rateLimits != 1 || log.retryAfter != 5*time.Second {
		t.Fatalf("expected rate limit recorded with retry-after, got %+v", log)
	}
	if p.Name() != "scripted" {
		t.Fatalf("expected name passthrough, got %s", p.Name())
	}
}

func TestCooldownProviderShortCircuitsUntilRetryAfter(t *testing.T) {
	rl := &RateLimitError{Provider: "scripted", StatusCode: 429, RetryAfter: time.Minute}
	inner := &scriptedProvider{errs: []error{rl}}
	p := NewCooldownProvider(inner, 0, nil).(*cooldownProvider)
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p.now = func() time.Time { return now }

	_, err := p.Fetch(context.Background(), testQuery)
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("expected rate limit to surface as transport error, got %v", err)
	}

	now = now.Add(30 * time.Second)
	_, err = p.Fetch(context.Background(), testQuery)
	if _, ok := AsRateLimitError(err); !ok || inner.Calls() != 1 {
		t.Fatalf("expected cooldown to skip upstream, err=%v calls=%d", err, inner.Calls())
	}

	now = now.Add(31 * time.Second)
	if _, err := p.Fetch(context.Background(), testQuery); err != nil {
		t.Fatalf("expected upstream call after cooldown, got %v", err)
	}
	if inner.Calls() != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", inner.Calls())
	}
}
