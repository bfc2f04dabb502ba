package config

import "time"

const (
	envPort             = "PORT"
	envAdminToken       = "ADMIN_TOKEN"
	envCORSOrigins      = "CORS_ALLOWED_ORIGINS"
	envLogLevel         = "LOG_LEVEL"
	envLogFormat        = "LOG_FORMAT"
	envPrimaryBaseURL   = "PRIMARY_BASE_URL"
	envPrimaryAPIKey    = "PRIMARY_API_KEY"
	envPrimaryMaxPages  = "PRIMARY_MAX_PAGES"
	envESPNEnabled      = "ESPN_ENABLED"
	envESPNBaseURL      = "ESPN_BASE_URL"
	envESPNUserAgent    = "ESPN_USER_AGENT"
	envCacheTTL         = "CACHE_TTL"
	envLiveTTL          = "LIVE_CACHE_TTL"
	envProviderTimeout  = "PROVIDER_TIMEOUT"
	envFlightTimeout    = "FLIGHT_TIMEOUT"
	envLinesConcurrency = "LINES_CONCURRENCY"
	envSnapshotBackend  = "SNAPSHOT_BACKEND"
	envSnapshotFolder   = "SNAPSHOT_DIR"
	envSnapshotTTL      = "SNAPSHOT_TTL"
	envRedisURL         = "REDIS_URL"
	envRedisPrefix      = "REDIS_KEY_PREFIX"
	envBreakerEnabled   = "BREAKER_ENABLED"
	envBreakerFailures  = "BREAKER_FAILURE_THRESHOLD"
	envBreakerOpen      = "BREAKER_OPEN_TIMEOUT"
	envBreakerProbes    = "BREAKER_HALF_OPEN_PROBES"
	envWarmerEnabled    = "WARMER_ENABLED"
	envWarmerInterval   = "WARMER_INTERVAL"
	envWarmerSports     = "WARMER_SPORTS"
	envWarmerWorkers    = "WARMER_WORKERS"
	envMetricsPort      = "METRICS_PORT"
	envMetricsOn        = "METRICS_ENABLED"
	envOtelEndpoint     = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService      = "OTEL_SERVICE_NAME"
	envOtelInsecure     = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort             = "4000"
	defaultServiceName      = "sports-lines-service"
	defaultESPNBaseURL      = "https://site.api.espn.com/apis/site/v2/sports"
	defaultPrimaryMaxPages  = 5
	defaultCacheTTL         = 5 * time.Minute
	defaultLiveTTL          = 15 * time.Second
	defaultProviderTimeout  = 4 * time.Second
	defaultFlightTimeout    = 15 * time.Second
	defaultLinesConcurrency = 8
	defaultSnapshotBackend  = SnapshotBackendFS
	defaultSnapshotFolder   = "data/snapshots"
	defaultSnapshotTTL      = 24 * time.Hour
	defaultRedisPrefix      = "lines:"
	defaultBreakerFailures  = 5
	defaultBreakerOpen      = 30 * time.Second
	defaultBreakerProbes    = 1
	// Warming every live TTL keeps the live board hot without outpacing upstream quotas.
	defaultWarmerInterval = 15 * time.Second
	defaultWarmerWorkers  = 4
	defaultMetricsPort    = "9090"
)

var defaultWarmerSports = []string{"nfl", "nba", "mlb", "nhl"}
