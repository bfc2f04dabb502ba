package snapshots

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/redis/go-redis/v9"
)

// storageGrace keeps Redis's own TTL a little longer than the logical expiry so the
// expiry key, not Redis eviction, decides staleness.
const storageGrace = time.Hour

// RedisStore keeps snapshots in Redis with the expiry under a sibling key.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	now    func() time.Time
}

// NewRedisStore wraps client; prefix namespaces every key.
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	return &RedisStore{client: client, prefix: prefix, now: time.Now}
}

// SetWithExpiry writes value and expiry in one MULTI/EXEC.
func (s *RedisStore) SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if s == nil || s.client == nil {
		return errors.New("snapshot store not configured")
	}
	k := s.prefix + key
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, k, value, ttl+storageGrace)
	pipe.Set(ctx, ExpiryKey(k), formatExpiry(s.now().Add(ttl)), ttl+storageGrace)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Wrapf(err, "redis snapshot set %q", key)
	}
	return nil
}

// GetWithExpiry reads value and expiry together; stale entries are deleted.
func (s *RedisStore) GetWithExpiry(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.client == nil {
		return nil, false, errors.New("snapshot store not configured")
	}
	k := s.prefix + key
	values, err := s.client.MGet(ctx, k, ExpiryKey(k)).Result()
	if err != nil {
		return nil, false, errors.Wrapf(err, "redis snapshot get %q", key)
	}
	value, hasValue := asBytes(values[0])
	if !hasValue {
		return nil, false, nil
	}
	rawExpiry, hasExpiry := asBytes(values[1])
	if !fresh(rawExpiry, hasExpiry, s.now()) {
		if err := s.client.Del(ctx, k, ExpiryKey(k)).Err(); err != nil {
			return nil, false, errors.Wrapf(err, "redis snapshot delete %q", key)
		}
		return nil, false, nil
	}
	return value, true, nil
}

// Close releases the underlying client.
func (s *RedisStore) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func asBytes(v any) ([]byte, bool) {
	switch t := v.(type) {
	case string:
		return []byte(t), true
	case []byte:
		return t, true
	default:
		return nil, false
	}
}
