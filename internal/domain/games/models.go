package games

import "time"

// GameStatus is the canonical lifecycle state of a game.
type GameStatus string

const (
	StatusScheduled GameStatus = "scheduled"
	StatusLive      GameStatus = "live"
	StatusFinal     GameStatus = "final"
)

// Placeholders used when an upstream omits a field.
const (
	PlaceholderName         = "TBD"
	PlaceholderAbbreviation = "TBD"
	PlaceholderLogo         = "placeholder:team-logo"
	PlaceholderRecord       = "0-0"
	PlaceholderVenue        = "TBD"
	PlaceholderLivePeriod   = "In Progress"
	PlaceholderLiveClock    = "0:00"
)

// Team describes one side of a game.
type Team struct {
	Name         string `json:"name"`
	Abbreviation string `json:"abbreviation"`
	Logo         string `json:"logo"`
	Record       string `json:"record"`
}

// Game is the canonical game shape exposed by the service.
// Period and Clock are only populated while the game is live.
type Game struct {
	ID        string     `json:"id"`
	Sport     Sport      `json:"sport"`
	HomeTeam  Team       `json:"homeTeam"`
	AwayTeam  Team       `json:"awayTeam"`
	HomeScore int        `json:"homeScore"`
	AwayScore int        `json:"awayScore"`
	Status    GameStatus `json:"status"`
	Period    string     `json:"period,omitempty"`
	Clock     string     `json:"clock,omitempty"`
	GameTime  time.Time  `json:"gameTime"`
	Venue     string     `json:"venue"`
	Broadcast []string   `json:"broadcast"`
}

// IsLive reports whether the game is in progress.
func (g Game) IsLive() bool {
	return g.Status == StatusLive
}

// WithDefaults fills every missing field with its placeholder so callers never see a partial record.
func (g Game) WithDefaults() Game {
	g.HomeTeam = g.HomeTeam.WithDefaults()
	g.AwayTeam = g.AwayTeam.WithDefaults()
	if g.HomeScore < 0 {
		g.HomeScore = 0
	}
	if g.AwayScore < 0 {
		g.AwayScore = 0
	}
	switch g.Status {
	case StatusLive:
		if g.Period == "" {
			g.Period = PlaceholderLivePeriod
		}
		if g.Clock == "" {
			g.Clock = PlaceholderLiveClock
		}
	case StatusFinal:
		g.Period, g.Clock = "", ""
	default:
		g.Status = StatusScheduled
		g.Period, g.Clock = "", ""
	}
	if g.Venue == "" {
		g.Venue = PlaceholderVenue
	}
	if g.Broadcast == nil {
		g.Broadcast = []string{}
	}
	return g
}

// WithDefaults replaces empty team fields with placeholders.
func (t Team) WithDefaults() Team {
	if t.Name == "" {
		t.Name = PlaceholderName
	}
	if t.Abbreviation == "" {
		t.Abbreviation = PlaceholderAbbreviation
	}
	if t.Logo == "" {
		t.Logo = PlaceholderLogo
	}
	if t.Record == "" {
		t.Record = PlaceholderRecord
	}
	return t
}

// Clone returns a copy that shares no slices with g.
func (g Game) Clone() Game {
	g.Broadcast = append([]string{}, g.Broadcast...)
	return g
}

// CloneGames deep-copies a slice of games.
func CloneGames(in []Game) []Game {
	out := make([]Game, len(in))
	for i, g := range in {
		out[i] = g.Clone()
	}
	return out
}

// FilterLive returns the subset of games currently in progress.
func FilterLive(in []Game) []Game {
	out := make([]Game, 0, len(in))
	for _, g := range in {
		if g.IsLive() {
			out = append(out, g)
		}
	}
	return out
}
