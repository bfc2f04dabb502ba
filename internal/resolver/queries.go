package resolver

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/sourcegraph/conc/iter"

	"github.com/preston-bernstein/sports-lines-service/internal/domain/games"
	"github.com/preston-bernstein/sports-lines-service/internal/providers"
)

// GetSchedule returns the canonical schedule for sport and period. An empty period means
// the current week or today. Only invalid input surfaces as an error.
func (r *Resolver) GetSchedule(ctx context.Context, sport games.Sport, period string) ([]games.Game, error) {
	sport, period, err := validateSchedule(sport, period)
	if err != nil {
		return nil, err
	}
	q := providers.ScheduleQuery(sport, period)
	return resolve(ctx, r, q, r.gamesOps(q))
}

// GetLiveScores returns the games of sport that are in progress right now.
// The chain requires a non-empty scoreboard; the live filter is applied afterwards,
// so "nothing live" is a valid empty answer.
func (r *Resolver) GetLiveScores(ctx context.Context, sport games.Sport) ([]games.Game, error) {
	if !sport.Valid() {
		return nil, providers.ConfigurationError(unknownSport(sport))
	}
	q := providers.LiveQuery(sport)
	board, err := resolve(ctx, r, q, r.gamesOps(q))
	if err != nil {
		return nil, err
	}
	return games.FilterLive(board), nil
}

// GetLines returns the canonical lines for a game id of the form <sport>-<upstreamId>.
func (r *Resolver) GetLines(ctx context.Context, gameID string) (games.Lines, error) {
	sport, upstream, err := games.SplitGameID(gameID)
	if err != nil {
		return games.Lines{}, providers.ConfigurationError(err)
	}
	q := providers.LinesQuery(sport, games.GameID(sport, upstream))
	return resolve(ctx, r, q, kindOps[games.Lines]{
		normalize: func(ps []providers.Payload, _ string) (games.Lines, error) {
			return r.normalizer.NormalizeLinesList(ps, q.GameID, sport)
		},
		fallback: func() (games.Lines, error) {
			return r.fallback.Lines(q.GameID)
		},
		clone:   games.Lines.Clone,
		restore: func(l games.Lines) (games.Lines, error) {
			if l.IsZero() {
				return games.Lines{}, providers.EmptyResultError("snapshot")
			}
			if l.GameID == "" {
				l.GameID = q.GameID
			}
			return l.WithDefaults(sport), nil
		},
	})
}

// GetGamesWithLines pairs the current schedule with each game's lines, fetching lines
// concurrently and preserving schedule order.
func (r *Resolver) GetGamesWithLines(ctx context.Context, sport games.Sport) ([]games.GameWithLines, error) {
	schedule, err := r.GetSchedule(ctx, sport, "")
	if err != nil {
		return nil, err
	}
	mapper := iter.Mapper[games.Game, games.GameWithLines]{MaxGoroutines: r.cfg.LinesConcurrency}
	return mapper.MapErr(schedule, func(g *games.Game) (games.GameWithLines, error) {
		lines, err := r.GetLines(ctx, g.ID)
		if err != nil {
			return games.GameWithLines{}, err
		}
		return games.GameWithLines{Game: *g, Lines: lines}, nil
	})
}

func (r *Resolver) gamesOps(q providers.Query) kindOps[[]games.Game] {
	return kindOps[[]games.Game]{
		normalize: func(ps []providers.Payload, provider string) ([]games.Game, error) {
			out, dropped := r.normalizer.NormalizeList(ps, q.Sport)
			r.recordDrops(provider, q, dropped)
			if len(out) == 0 {
				if dropped > 0 {
					return nil, providers.UpstreamFormatError(provider, nil)
				}
				return nil, providers.EmptyResultError(provider)
			}
			return out, nil
		},
		fallback: func() ([]games.Game, error) {
			return r.fallback.Games(q)
		},
		clone:   games.CloneGames,
		restore: func(list []games.Game) ([]games.Game, error) {
			if len(list) == 0 {
				return nil, providers.EmptyResultError("snapshot")
			}
			out := make([]games.Game, len(list))
			for i, g := range list {
				g.Sport = q.Sport
				out[i] = g.WithDefaults()
			}
			return out, nil
		},
	}
}

func validateSchedule(sport games.Sport, period string) (games.Sport, string, error) {
	if !sport.Valid() {
		return "", "", providers.ConfigurationError(unknownSport(sport))
	}
	normalized, err := sport.NormalizePeriod(period)
	if err != nil {
		return "", "", providers.ConfigurationError(err)
	}
	return sport, normalized, nil
}

func unknownSport(sport games.Sport) error {
	return errors.Wrapf(games.ErrUnknownSport, "%q", sport)
}
