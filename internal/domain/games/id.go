package games

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrInvalidGameID is returned for ids that are not of the form <sport>-<upstreamId>.
var ErrInvalidGameID = errors.New("invalid game id")

// GameID namespaces an upstream id with its sport.
func GameID(sport Sport, upstreamID string) string {
	return string(sport) + "-" + upstreamID
}

// SplitGameID recovers the sport and upstream id from a canonical game id.
func SplitGameID(id string) (Sport, string, error) {
	prefix, upstream, ok := strings.Cut(strings.TrimSpace(id), "-")
	if !ok || upstream == "" {
		return "", "", errors.Wrapf(ErrInvalidGameID, "%q", id)
	}
	sport, err := ParseSport(prefix)
	if err != nil {
		return "", "", errors.Wrapf(ErrInvalidGameID, "%q: %v", id, err)
	}
	return sport, upstream, nil
}
