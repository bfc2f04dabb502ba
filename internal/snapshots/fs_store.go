package snapshots

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
)

// FSStore keeps one file per key under basePath. Values and their expiry are
// written as separate files so the expiry behaves like a sibling key.
type FSStore struct {
	basePath string
	now      func() time.Time
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string) *FSStore {
	return &FSStore{basePath: basePath, now: time.Now}
}

// BasePath exposes the store root (primarily for testing).
func (s *FSStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// SetWithExpiry drops the old expiry, writes the value, then writes the new expiry.
// A crash at any point leaves a value without expiry, which reads as expired.
func (s *FSStore) SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s == nil {
		return errors.New("snapshot store not configured")
	}
	if key == "" {
		return errors.New("snapshot key required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.Remove(s.path(ExpiryKey(key))); err != nil && !errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(err, "clear snapshot expiry %q", key)
	}
	if err := s.writeFile(key, value); err != nil {
		return errors.Wrapf(err, "write snapshot %q", key)
	}
	if err := s.writeFile(ExpiryKey(key), formatExpiry(s.now().Add(ttl))); err != nil {
		return errors.Wrapf(err, "write snapshot expiry %q", key)
	}
	return nil
}

// GetWithExpiry returns the value when present and unexpired. Stale entries are removed.
func (s *FSStore) GetWithExpiry(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil {
		return nil, false, errors.New("snapshot store not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	value, ok, err := s.readFile(key)
	if err != nil || !ok {
		return nil, false, err
	}
	rawExpiry, hasExpiry, err := s.readFile(ExpiryKey(key))
	if err != nil {
		return nil, false, err
	}
	if !fresh(rawExpiry, hasExpiry, s.now()) {
		s.remove(key)
		return nil, false, nil
	}
	return value, true, nil
}

func (s *FSStore) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(s.basePath, hex.EncodeToString(sum[:])+".json")
}

func (s *FSStore) writeFile(key string, data []byte) error {
	target := s.path(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	if existing, err := os.ReadFile(target); err == nil && bytes.Equal(existing, data) {
		return nil
	}

	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, target)
}

func (s *FSStore) readFile(key string) ([]byte, bool, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (s *FSStore) remove(key string) {
	_ = os.Remove(s.path(key))
	_ = os.Remove(s.path(ExpiryKey(key)))
}
