package config

import "strings"

// Snapshot backends.
const (
	SnapshotBackendFS    = "fs"
	SnapshotBackendRedis = "redis"
	SnapshotBackendNone  = "none"
)

// SnapshotsConfig selects and configures the durable snapshot store.
type SnapshotsConfig struct {
	Backend     string
	Folder      string
	TTL         Duration
	RedisURL    string
	RedisPrefix string
}

func loadSnapshots() SnapshotsConfig {
	backend := strings.ToLower(envOrDefault(envSnapshotBackend, defaultSnapshotBackend))
	switch backend {
	case SnapshotBackendFS, SnapshotBackendRedis, SnapshotBackendNone:
	default:
		backend = defaultSnapshotBackend
	}
	return SnapshotsConfig{
		Backend:     backend,
		Folder:      envOrDefault(envSnapshotFolder, defaultSnapshotFolder),
		TTL:         durationEnvOrDefault(envSnapshotTTL, defaultSnapshotTTL),
		RedisURL:    envOrDefault(envRedisURL, ""),
		RedisPrefix: envOrDefault(envRedisPrefix, defaultRedisPrefix),
	}
}
