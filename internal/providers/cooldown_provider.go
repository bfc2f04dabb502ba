package providers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

const defaultCooldown = 30 * time.Second

// cooldownProvider short-circuits calls to a rate-limited upstream until its Retry-After elapses.
type cooldownProvider struct {
	next     Provider
	fallback time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu    sync.Mutex
	until time.Time
}

// NewCooldownProvider wraps next; fallback is used when a rate limit carries no Retry-After.
func NewCooldownProvider(next Provider, fallback time.Duration, logger *slog.Logger) Provider {
	if fallback <= 0 {
		fallback = defaultCooldown
	}
	return &cooldownProvider{next: next, fallback: fallback, logger: logger, now: time.Now}
}

func (p *cooldownProvider) Name() string {
	return p.next.Name()
}

func (p *cooldownProvider) Fetch(ctx context.Context, q Query) ([]Payload, error) {
	if remaining := p.remaining(); remaining > 0 {
		return nil, TransportError(p.Name(), &RateLimitError{
			Provider:   p.Name(),
			RetryAfter: remaining,
			Message:    "provider cooling down after rate limit",
		})
	}

	payloads, err := p.next.Fetch(ctx, q)
	if rlErr, ok := AsRateLimitError(err); ok {
		wait := rlErr.RetryAfter
		if wait <= 0 {
			wait = p.fallback
		}
		p.mu.Lock()
		p.until = p.now().Add(wait)
		p.mu.Unlock()
		logWithProvider(ctx, p.logger, slog.LevelWarn, p.Name(), "provider rate limited", slog.Duration("retry_after", wait))
		if !errors.Is(err, ErrTransport) {
			err = TransportError(p.Name(), err)
		}
	}
	return payloads, err
}

func (p *cooldownProvider) remaining() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.until.Sub(p.now())
}
