package resolver

import "time"

const (
	defaultProviderTimeout  = 4 * time.Second
	defaultFlightTimeout    = 15 * time.Second
	defaultSnapshotTTL      = 24 * time.Hour
	defaultLiveTTL          = 15 * time.Second
	defaultLinesConcurrency = 8
)

// Config bounds how long the chain may spend and how long its results live.
type Config struct {
	// ProviderTimeout bounds each upstream call.
	ProviderTimeout time.Duration
	// FlightTimeout bounds a whole shared fetch, independent of any caller's context.
	FlightTimeout time.Duration
	// SnapshotTTL is the logical expiry written alongside durable snapshots.
	SnapshotTTL time.Duration
	// LiveTTL overrides the memory cache's default TTL for live queries.
	LiveTTL time.Duration
	// LinesConcurrency caps parallel lines lookups when building a slate.
	LinesConcurrency int
}

func (c Config) withDefaults() Config {
	if c.ProviderTimeout <= 0 {
		c.ProviderTimeout = defaultProviderTimeout
	}
	if c.FlightTimeout <= 0 {
		c.FlightTimeout = defaultFlightTimeout
	}
	if c.SnapshotTTL <= 0 {
		c.SnapshotTTL = defaultSnapshotTTL
	}
	if c.LiveTTL <= 0 {
		c.LiveTTL = defaultLiveTTL
	}
	if c.LinesConcurrency <= 0 {
		c.LinesConcurrency = defaultLinesConcurrency
	}
	return c
}
