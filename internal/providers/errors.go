package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
)

var (
	// ErrTransport marks network failures, timeouts, non-success statuses and open breakers.
	ErrTransport = errors.New("transport error")
	// ErrUpstreamFormat marks payloads that no known shape could parse.
	ErrUpstreamFormat = errors.New("upstream format error")
	// ErrEmptyResult marks well-formed responses with nothing in them.
	ErrEmptyResult = errors.New("empty result")
	// ErrConfiguration marks requests with no safe default, such as an unknown sport.
	ErrConfiguration = errors.New("configuration error")
	// ErrProviderUnavailable is returned when a provider is not configured.
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// TransportError wraps err as a transport failure attributed to provider.
func TransportError(provider string, err error) error {
	if err == nil {
		err = ErrProviderUnavailable
	}
	return errors.Mark(errors.Wrapf(err, "%s", provider), ErrTransport)
}

// UpstreamFormatError wraps err as an unparseable payload from provider.
func UpstreamFormatError(provider string, err error) error {
	if err == nil {
		err = errors.New("no viable record")
	}
	return errors.Mark(errors.Wrapf(err, "%s: unparseable payload", provider), ErrUpstreamFormat)
}

// EmptyResultError reports that provider answered with zero records.
func EmptyResultError(provider string) error {
	return errors.Mark(errors.Newf("%s: zero records", provider), ErrEmptyResult)
}

// ConfigurationError marks err as a configuration problem that callers must see.
func ConfigurationError(err error) error {
	if err == nil {
		return nil
	}
	return errors.Mark(err, ErrConfiguration)
}

// Classify returns a short label for logs and metrics.
func Classify(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrUpstreamFormat):
		return "format"
	case errors.Is(err, ErrEmptyResult):
		return "empty"
	case errors.Is(err, ErrTransport),
		errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return "transport"
	default:
		return "unknown"
	}
}

// RateLimitError captures rate limit responses from upstream providers.
type RateLimitError struct {
	Provider   string
	StatusCode int
	RetryAfter time.Duration
	Remaining  string
	Message    string
}

func (e *RateLimitError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = "provider rate limited"
	}
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s (status=%d)", msg, e.StatusCode)
	}
	return msg
}

// AsRateLimitError attempts to unwrap an error into a RateLimitError.
func AsRateLimitError(err error) (*RateLimitError, bool) {
	var rlErr *RateLimitError
	if errors.As(err, &rlErr) {
		return rlErr, true
	}
	return nil, false
}
