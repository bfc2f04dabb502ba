package server

import (
	"log/slog"

	"github.com/preston-bernstein/sports-lines-service/internal/cache"
	"github.com/preston-bernstein/sports-lines-service/internal/config"
	"github.com/preston-bernstein/sports-lines-service/internal/metrics"
	"github.com/preston-bernstein/sports-lines-service/internal/normalize"
	"github.com/preston-bernstein/sports-lines-service/internal/providers/fixture"
	"github.com/preston-bernstein/sports-lines-service/internal/resolver"
)

// Chain is a fully wired source chain plus the resources it holds open.
type Chain struct {
	Cache    *cache.Manager
	Resolver *resolver.Resolver
	close    func() error
}

// Close releases the chain's snapshot backend connection, if any.
func (c *Chain) Close() error {
	if c == nil || c.close == nil {
		return nil
	}
	return c.close()
}

// BuildChain assembles the memory cache, providers, snapshot store and
// fallback dataset from configuration. recorder may be nil.
func BuildChain(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) *Chain {
	primary, secondary := newProviderFactory(logger, recorder).build(cfg)
	return buildChain(cfg, logger, recorder, &upstreams{primary: primary, secondary: secondary})
}

func buildChain(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, src *upstreams) *Chain {
	snaps := buildSnapshots(cfg, logger)
	ttl := cfg.Resolver.CacheTTL
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	memCache := cache.New(ttl)
	opts := resolver.Options{
		Cache:      memCache,
		Snapshots:  snaps.store,
		Primary:    src.primary,
		Secondary:  src.secondary,
		Fallback:   fixture.New(),
		Normalizer: normalize.New(nil),
		Logger:     logger,
		Config: resolver.Config{
			ProviderTimeout:  cfg.Resolver.ProviderTimeout,
			FlightTimeout:    cfg.Resolver.FlightTimeout,
			SnapshotTTL:      cfg.Snapshots.TTL,
			LiveTTL:          cfg.Resolver.LiveTTL,
			LinesConcurrency: cfg.Resolver.LinesConcurrency,
		},
	}
	if recorder != nil {
		opts.Recorder = recorder
	}
	return &Chain{Cache: memCache, Resolver: resolver.New(opts), close: snaps.close}
}
