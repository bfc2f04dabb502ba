package snapshots

import (
	"context"
	"strings"
	"time"
)

// expirySuffix names the sibling key that holds a value's absolute expiry.
const expirySuffix = ":expires_at"

// Store is a durable key/value store whose entries carry an independent expiry.
// Reads never return a value whose expiry is missing, unparseable or in the past.
type Store interface {
	SetWithExpiry(ctx context.Context, key string, value []byte, ttl time.Duration) error
	GetWithExpiry(ctx context.Context, key string) ([]byte, bool, error)
}

// ExpiryKey returns the sibling key under which key's expiry is stored.
func ExpiryKey(key string) string {
	return key + expirySuffix
}

func formatExpiry(t time.Time) []byte {
	return []byte(t.UTC().Format(time.RFC3339Nano))
}

// parseExpiry reports ok=false for anything that is not a timestamp.
func parseExpiry(raw []byte) (time.Time, bool) {
	t, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(string(raw)))
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// fresh reports whether a value with the given raw expiry may be served at now.
func fresh(rawExpiry []byte, hasExpiry bool, now time.Time) bool {
	if !hasExpiry {
		return false
	}
	expiresAt, ok := parseExpiry(rawExpiry)
	return ok && !now.After(expiresAt)
}

// Nop is the store used when snapshots are disabled; it never holds anything.
type Nop struct{}

func (Nop) SetWithExpiry(context.Context, string, []byte, time.Duration) error { return nil }

func (Nop) GetWithExpiry(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
