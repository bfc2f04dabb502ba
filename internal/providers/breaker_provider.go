package providers

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/sports-lines-service/internal/resilience"
)

// breakerProvider fails fast while the upstream's circuit is open.
type breakerProvider struct {
	inner   Provider
	breaker *resilience.Breaker
	logger  *slog.Logger
}

// NewBreakerProvider guards inner with breaker. A nil breaker returns inner unchanged.
func NewBreakerProvider(inner Provider, breaker *resilience.Breaker, logger *slog.Logger) Provider {
	if breaker == nil {
		return inner
	}
	return &breakerProvider{inner: inner, breaker: breaker, logger: logger}
}

func (p *breakerProvider) Name() string {
	return p.inner.Name()
}

func (p *breakerProvider) Fetch(ctx context.Context, q Query) ([]Payload, error) {
	if err := p.breaker.Allow(); err != nil {
		logWithProvider(ctx, p.logger, slog.LevelDebug, p.Name(), "circuit open, skipping provider")
		return nil, TransportError(p.Name(), err)
	}
	payloads, err := p.inner.Fetch(ctx, q)
	if Classify(err) == "transport" {
		p.breaker.Failure()
		if p.breaker.State() == resilience.StateOpen {
			logWithProvider(ctx, p.logger, slog.LevelWarn, p.Name(), "circuit opened", slog.Any("error", err))
		}
		return payloads, err
	}
	// Format and empty results still prove the upstream is reachable.
	p.breaker.Success()
	return payloads, err
}
