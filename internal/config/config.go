package config

// Config holds runtime configuration for the server and the CLI.
type Config struct {
	Port        string
	AdminToken  string
	CORSOrigins []string
	Logging     LoggingConfig
	Primary     PrimaryConfig
	ESPN        ESPNConfig
	Resolver    ResolverConfig
	Snapshots   SnapshotsConfig
	Breaker     BreakerConfig
	Warmer      WarmerConfig
	Metrics     MetricsConfig
}

// LoggingConfig selects the slog handler.
type LoggingConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:        envOrDefault(envPort, defaultPort),
		AdminToken:  envOrDefault(envAdminToken, ""),
		CORSOrigins: listEnvOrDefault(envCORSOrigins, []string{"*"}),
		Logging: LoggingConfig{
			Level:  envOrDefault(envLogLevel, "info"),
			Format: envOrDefault(envLogFormat, "text"),
		},
		Primary:   loadPrimary(),
		ESPN:      loadESPN(),
		Resolver:  loadResolver(),
		Snapshots: loadSnapshots(),
		Breaker:   loadBreaker(),
		Warmer:    loadWarmer(),
		Metrics:   loadMetrics(),
	}
}
