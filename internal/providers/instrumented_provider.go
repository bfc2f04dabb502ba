package providers

import (
	"context"
	"time"
)

// AttemptRecorder receives one observation per upstream call.
type AttemptRecorder interface {
	RecordProviderAttempt(provider string, duration time.Duration, err error)
	RecordRateLimit(provider string, retryAfter time.Duration)
}

type instrumentedProvider struct {
	inner    Provider
	recorder AttemptRecorder
	now      func() time.Time
}

// NewInstrumentedProvider records latency, errors and rate limits for every call to inner.
func NewInstrumentedProvider(inner Provider, recorder AttemptRecorder) Provider {
	if recorder == nil {
		return inner
	}
	return &instrumentedProvider{inner: inner, recorder: recorder, now: time.Now}
}

func (p *instrumentedProvider) Name() string {
	return p.inner.Name()
}

func (p *instrumentedProvider) Fetch(ctx context.Context, q Query) ([]Payload, error) {
	start := p.now()
	payloads, err := p.inner.Fetch(ctx, q)
	p.recorder.RecordProviderAttempt(p.Name(), p.now().Sub(start), err)
	if rlErr, ok := AsRateLimitError(err); ok {
		p.recorder.RecordRateLimit(p.Name(), rlErr.RetryAfter)
	}
	return payloads, err
}
