package config

import "time"

// Duration wraps time.Duration for clearer type usage in Config.
type Duration = time.Duration

// ResolverConfig holds cache TTLs and source chain timeouts.
type ResolverConfig struct {
	CacheTTL         Duration
	LiveTTL          Duration
	ProviderTimeout  Duration
	FlightTimeout    Duration
	LinesConcurrency int
}

// WarmerConfig controls the background cache warmer.
type WarmerConfig struct {
	Enabled  bool
	Interval Duration
	Sports   []string
	Workers  int
}

func loadResolver() ResolverConfig {
	return ResolverConfig{
		CacheTTL:         durationEnvOrDefault(envCacheTTL, defaultCacheTTL),
		LiveTTL:          durationEnvOrDefault(envLiveTTL, defaultLiveTTL),
		ProviderTimeout:  durationEnvOrDefault(envProviderTimeout, defaultProviderTimeout),
		FlightTimeout:    durationEnvOrDefault(envFlightTimeout, defaultFlightTimeout),
		LinesConcurrency: intEnvOrDefault(envLinesConcurrency, defaultLinesConcurrency),
	}
}

func loadWarmer() WarmerConfig {
	return WarmerConfig{
		Enabled:  boolEnvOrDefault(envWarmerEnabled, true),
		Interval: durationEnvOrDefault(envWarmerInterval, defaultWarmerInterval),
		Sports:   listEnvOrDefault(envWarmerSports, defaultWarmerSports),
		Workers:  intEnvOrDefault(envWarmerWorkers, defaultWarmerWorkers),
	}
}
