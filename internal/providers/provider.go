package providers

import (
	"context"
	"strings"

	"github.com/preston-bernstein/sports-lines-service/internal/domain/games"
)

// QueryKind names the logical query a provider is asked to answer.
type QueryKind string

const (
	KindSchedule QueryKind = "schedule"
	KindLive     QueryKind = "live"
	KindLines    QueryKind = "lines"
)

// Payload is one raw upstream record decoded from JSON.
type Payload = map[string]any

// Query describes a single read against the provider chain.
// Period applies to schedule queries; GameID (canonical form) to lines queries.
type Query struct {
	Sport  games.Sport
	Kind   QueryKind
	Period string
	GameID string
}

// ScheduleQuery builds a schedule query.
func ScheduleQuery(sport games.Sport, period string) Query {
	return Query{Sport: sport, Kind: KindSchedule, Period: period}
}

// LiveQuery builds a live-scores query.
func LiveQuery(sport games.Sport) Query {
	return Query{Sport: sport, Kind: KindLive}
}

// LinesQuery builds a lines query for a canonical game id.
func LinesQuery(sport games.Sport, gameID string) Query {
	return Query{Sport: sport, Kind: KindLines, GameID: gameID}
}

// Key is the cache and in-flight signature of the query: sport|kind|params.
func (q Query) Key() string {
	var params string
	switch q.Kind {
	case KindSchedule:
		params = "period=" + q.Period
	case KindLines:
		params = "game=" + q.GameID
	}
	return strings.Join([]string{string(q.Sport), string(q.Kind), params}, "|")
}

// UpstreamGameID strips the sport namespace from the query's game id.
func (q Query) UpstreamGameID() string {
	if _, upstream, err := games.SplitGameID(q.GameID); err == nil {
		return upstream
	}
	return q.GameID
}

// Provider fetches raw payloads for a query from one upstream.
// Implementations return an error for transport failures and non-success responses;
// an empty slice with a nil error means the upstream answered with nothing.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, q Query) ([]Payload, error)
}
