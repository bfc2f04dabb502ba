package testutil

import (
	"context"

	"github.com/preston-bernstein/sports-lines-service/internal/app/games"
	domaingames "github.com/preston-bernstein/sports-lines-service/internal/domain/games"
)

// StubResolver answers queries from canned values.
type StubResolver struct {
	Games []domaingames.Game
	Lines domaingames.Lines
	Slate []domaingames.GameWithLines
	Err   error

	LastSport  domaingames.Sport
	LastPeriod string
	LastGameID string
}

func (s *StubResolver) GetSchedule(_ context.Context, sport domaingames.Sport, period string) ([]domaingames.Game, error) {
	s.LastSport, s.LastPeriod = sport, period
	return s.Games, s.Err
}

func (s *StubResolver) GetLiveScores(_ context.Context, sport domaingames.Sport) ([]domaingames.Game, error) {
	s.LastSport = sport
	return domaingames.FilterLive(s.Games), s.Err
}

func (s *StubResolver) GetLines(_ context.Context, gameID string) (domaingames.Lines, error) {
	s.LastGameID = gameID
	return s.Lines, s.Err
}

func (s *StubResolver) GetGamesWithLines(_ context.Context, sport domaingames.Sport) ([]domaingames.GameWithLines, error) {
	s.LastSport = sport
	return s.Slate, s.Err
}

// NewServiceWithGames builds a games service whose resolver returns g for every game query.
func NewServiceWithGames(g []domaingames.Game) (*games.Service, *StubResolver) {
	r := &StubResolver{Games: g}
	return games.NewService(r), r
}
