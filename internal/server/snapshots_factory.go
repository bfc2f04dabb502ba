package server

import (
	"context"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/preston-bernstein/sports-lines-service/internal/config"
	"github.com/preston-bernstein/sports-lines-service/internal/snapshots"
)

// snapshotComponents holds the durable store and whatever must be released on shutdown.
type snapshotComponents struct {
	store snapshots.Store
	close func() error
}

func buildSnapshots(cfg config.Config, logger *slog.Logger) snapshotComponents {
	switch cfg.Snapshots.Backend {
	case config.SnapshotBackendNone:
		return snapshotComponents{store: snapshots.Nop{}}
	case config.SnapshotBackendRedis:
		if comps, ok := buildRedisSnapshots(cfg.Snapshots, logger); ok {
			return comps
		}
	}
	if cfg.Snapshots.Folder == "" {
		return snapshotComponents{store: snapshots.Nop{}}
	}
	return snapshotComponents{store: snapshots.NewFSStore(cfg.Snapshots.Folder)}
}

// buildRedisSnapshots falls back to the filesystem when the URL is unusable.
// An unreachable server is only logged; the chain treats its errors as misses.
func buildRedisSnapshots(cfg config.SnapshotsConfig, logger *slog.Logger) (snapshotComponents, bool) {
	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		if logger != nil {
			logger.Warn("invalid redis url, using filesystem snapshots", "error", err)
		}
		return snapshotComponents{}, false
	}

	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil && logger != nil {
		logger.Warn("redis unreachable at startup", "addr", opts.Addr, "error", err)
	}

	return snapshotComponents{
		store: snapshots.NewRedisStore(client, cfg.RedisPrefix),
		close: client.Close,
	}, true
}
