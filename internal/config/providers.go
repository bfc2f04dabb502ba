package config

// PrimaryConfig controls the primary backend provider. An empty BaseURL disables it.
type PrimaryConfig struct {
	BaseURL  string
	APIKey   string
	MaxPages int
}

// ESPNConfig controls the secondary ESPN scoreboard provider.
type ESPNConfig struct {
	Enabled   bool
	BaseURL   string
	UserAgent string
}

// BreakerConfig tunes the per-provider circuit breakers.
type BreakerConfig struct {
	Enabled          bool
	FailureThreshold int
	OpenTimeout      Duration
	HalfOpenProbes   int
}

func loadPrimary() PrimaryConfig {
	return PrimaryConfig{
		BaseURL:  envOrDefault(envPrimaryBaseURL, ""),
		APIKey:   envOrDefault(envPrimaryAPIKey, ""),
		MaxPages: intEnvOrDefault(envPrimaryMaxPages, defaultPrimaryMaxPages),
	}
}

func loadESPN() ESPNConfig {
	return ESPNConfig{
		Enabled:   boolEnvOrDefault(envESPNEnabled, true),
		BaseURL:   envOrDefault(envESPNBaseURL, defaultESPNBaseURL),
		UserAgent: envOrDefault(envESPNUserAgent, defaultServiceName),
	}
}

func loadBreaker() BreakerConfig {
	return BreakerConfig{
		Enabled:          boolEnvOrDefault(envBreakerEnabled, true),
		FailureThreshold: intEnvOrDefault(envBreakerFailures, defaultBreakerFailures),
		OpenTimeout:      durationEnvOrDefault(envBreakerOpen, defaultBreakerOpen),
		HalfOpenProbes:   intEnvOrDefault(envBreakerProbes, defaultBreakerProbes),
	}
}
