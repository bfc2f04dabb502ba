package server

import (
	"log/slog"

	"github.com/preston-bernstein/sports-lines-service/internal/config"
	"github.com/preston-bernstein/sports-lines-service/internal/metrics"
	"github.com/preston-bernstein/sports-lines-service/internal/providers"
	"github.com/preston-bernstein/sports-lines-service/internal/providers/backend"
	"github.com/preston-bernstein/sports-lines-service/internal/providers/espn"
	"github.com/preston-bernstein/sports-lines-service/internal/resilience"
)

// providerFactory assembles the upstream providers with shared wrappers
// (rate-limit cooldown, circuit breaker, instrumentation).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, recorder *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: recorder}
}

// build returns the primary and secondary providers. Either may be nil when
// disabled by configuration; the resolver treats a missing tier as failed.
func (f providerFactory) build(cfg config.Config) (primary, secondary providers.Provider) {
	if cfg.Primary.BaseURL != "" {
		primary = f.wrap(backend.NewClient(backend.Config{
			BaseURL:  cfg.Primary.BaseURL,
			APIKey:   cfg.Primary.APIKey,
			MaxPages: cfg.Primary.MaxPages,
		}), cfg.Breaker)
	} else if f.logger != nil {
		f.logger.Warn("primary provider disabled, no base url configured")
	}

	if cfg.ESPN.Enabled {
		secondary = f.wrap(espn.New(espn.Config{
			BaseURL:   cfg.ESPN.BaseURL,
			UserAgent: cfg.ESPN.UserAgent,
		}), cfg.Breaker)
	}
	return primary, secondary
}

// wrap layers cooldown inside the breaker so a rate-limited upstream trips
// it, with instrumentation outermost so short-circuited calls are counted too.
func (f providerFactory) wrap(p providers.Provider, cfg config.BreakerConfig) providers.Provider {
	wrapped := providers.NewCooldownProvider(p, 0, f.logger)
	wrapped = providers.NewBreakerProvider(wrapped, newBreaker(cfg), f.logger)
	if f.metrics != nil {
		wrapped = providers.NewInstrumentedProvider(wrapped, f.metrics)
	}
	return wrapped
}

func newBreaker(cfg config.BreakerConfig) *resilience.Breaker {
	if !cfg.Enabled {
		return nil
	}
	return resilience.New(resilience.Config{
		Enabled:          true,
		FailureThreshold: cfg.FailureThreshold,
		OpenTimeout:      cfg.OpenTimeout,
		HalfOpenProbes:   cfg.HalfOpenProbes,
	})
}
