package games

import (
	"context"

	domaingames "github.com/preston-bernstein/sports-lines-service/internal/domain/games"
	"github.com/preston-bernstein/sports-lines-service/internal/providers"
)

// Resolver is the read-only query surface backed by the source chain.
type Resolver interface {
	GetSchedule(ctx context.Context, sport domaingames.Sport, period string) ([]domaingames.Game, error)
	GetLiveScores(ctx context.Context, sport domaingames.Sport) ([]domaingames.Game, error)
	GetLines(ctx context.Context, gameID string) (domaingames.Lines, error)
	GetGamesWithLines(ctx context.Context, sport domaingames.Sport) ([]domaingames.GameWithLines, error)
}

// Service adapts raw transport inputs to resolver queries.
type Service struct {
	resolver Resolver
}

// NewService constructs a Service over the provided Resolver.
func NewService(resolver Resolver) *Service {
	return &Service{resolver: resolver}
}

// Schedule returns the schedule for a sport key and optional period.
func (s *Service) Schedule(ctx context.Context, sport, period string) ([]domaingames.Game, error) {
	parsed, err := parseSport(sport)
	if err != nil {
		return nil, err
	}
	return s.resolver.GetSchedule(ctx, parsed, period)
}

// Live returns the in-progress games for a sport key.
func (s *Service) Live(ctx context.Context, sport string) ([]domaingames.Game, error) {
	parsed, err := parseSport(sport)
	if err != nil {
		return nil, err
	}
	return s.resolver.GetLiveScores(ctx, parsed)
}

// Lines returns the lines for a canonical game id.
func (s *Service) Lines(ctx context.Context, gameID string) (domaingames.Lines, error) {
	return s.resolver.GetLines(ctx, gameID)
}

// Slate returns the current schedule paired with lines.
func (s *Service) Slate(ctx context.Context, sport string) ([]domaingames.GameWithLines, error) {
	parsed, err := parseSport(sport)
	if err != nil {
		return nil, err
	}
	return s.resolver.GetGamesWithLines(ctx, parsed)
}

func parseSport(raw string) (domaingames.Sport, error) {
	sport, err := domaingames.ParseSport(raw)
	if err != nil {
		return "", providers.ConfigurationError(err)
	}
	return sport, nil
}
