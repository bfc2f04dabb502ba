package server

import (
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/preston-bernstein/sports-lines-service/internal/config"
	"github.com/preston-bernstein/sports-lines-service/internal/snapshots"
)

func TestBuildSnapshotsSelectsBackend(t *testing.T) {
	dir := t.TempDir()

	fs := buildSnapshots(config.Config{Snapshots: config.SnapshotsConfig{Backend: config.SnapshotBackendFS, Folder: dir}}, nil)
	if _, ok := fs.store.(*snapshots.FSStore); !ok {
		t.Fatalf("expected filesystem store, got %T", fs.store)
	}

	none := buildSnapshots(config.Config{Snapshots: config.SnapshotsConfig{Backend: config.SnapshotBackendNone, Folder: dir}}, nil)
	if _, ok := none.store.(snapshots.Nop); !ok {
		t.Fatalf("expected nop store, got %T", none.store)
	}

	noFolder := buildSnapshots(config.Config{Snapshots: config.SnapshotsConfig{Backend: config.SnapshotBackendFS}}, nil)
	if _, ok := noFolder.store.(snapshots.Nop); !ok {
		t.Fatalf("expected nop store without folder, got %T", noFolder.store)
	}
}

func TestBuildSnapshotsRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	comps := buildSnapshots(config.Config{Snapshots: config.SnapshotsConfig{
		Backend:     config.SnapshotBackendRedis,
		RedisURL:    "redis://" + mr.Addr() + "/0",
		RedisPrefix: "lines:",
	}}, nil)
	if _, ok := comps.store.(*snapshots.RedisStore); !ok {
		t.Fatalf("expected redis store, got %T", comps.store)
	}
	if comps.close == nil {
		t.Fatalf("expected redis client closer")
	}
	if err := comps.close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
}

func TestBuildSnapshotsInvalidRedisURLFallsBackToFS(t *testing.T) {
	comps := buildSnapshots(config.Config{Snapshots: config.SnapshotsConfig{
		Backend:  config.SnapshotBackendRedis,
		RedisURL: "not a url",
		Folder:   t.TempDir(),
	}}, nil)
	if _, ok := comps.store.(*snapshots.FSStore); !ok {
		t.Fatalf("expected filesystem fallback, got %T", comps.store)
	}
}
