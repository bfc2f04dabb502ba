package providers

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
)

const (
	maxErrorExcerpt = 512
	maxBodyBytes    = 8 << 20
)

// HTTPDoer is satisfied by *http.Client and by test round-trippers.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoJSON executes req and decodes a JSON body. Transport failures and non-2xx statuses
// come back as TransportError (429 additionally carries a RateLimitError); bodies that
// are not JSON come back as UpstreamFormatError.
func DoJSON(doer HTTPDoer, req *http.Request, provider string) (any, error) {
	resp, err := doer.Do(req)
	if err != nil {
		return nil, TransportError(provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, TransportError(provider, &RateLimitError{
			Provider:   provider,
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"), time.Now()),
			Remaining:  resp.Header.Get("X-RateLimit-Remaining"),
			Message:    excerpt(resp.Body),
		})
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, TransportError(provider, errors.Newf("unexpected status %d: %s", resp.StatusCode, excerpt(resp.Body)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, TransportError(provider, err)
	}
	var decoded any
	if err := sonic.Unmarshal(body, &decoded); err != nil {
		return nil, UpstreamFormatError(provider, errors.Wrap(err, "decode body"))
	}
	return decoded, nil
}

// PayloadList unwraps the list envelopes upstreams use: a bare array, a single object
// under "data", or an array under any of keys.
func PayloadList(decoded any, keys ...string) []Payload {
	switch v := decoded.(type) {
	case []any:
		return objects(v)
	case map[string]any:
		for _, key := range append([]string{"data"}, keys...) {
			switch inner := v[key].(type) {
			case []any:
				return objects(inner)
			case map[string]any:
				return []Payload{inner}
			}
		}
		return []Payload{v}
	default:
		return nil
	}
}

func objects(items []any) []Payload {
	out := make([]Payload, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func excerpt(r io.Reader) string {
	body, _ := io.ReadAll(io.LimitReader(r, maxErrorExcerpt))
	return strings.TrimSpace(string(body))
}

// parseRetryAfter accepts delta-seconds or an HTTP date.
func parseRetryAfter(raw string, now time.Time) time.Duration {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if secs, err := strconv.Atoi(raw); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	if at, err := http.ParseTime(raw); err == nil && at.After(now) {
		return at.Sub(now)
	}
	return 0
}
