package games

// DefaultMoneyline is used for either side when no price is known.
const DefaultMoneyline = -110

// BookLines is the per-sportsbook view of a game's lines.
type BookLines struct {
	Spread        float64 `json:"spread"`
	Total         float64 `json:"total"`
	MoneylineHome int     `json:"moneylineHome"`
	MoneylineAway int     `json:"moneylineAway"`
}

// Lines is the canonical betting-lines record for a game.
type Lines struct {
	GameID        string               `json:"gameId"`
	Spread        float64              `json:"spread"`
	Total         float64              `json:"total"`
	MoneylineHome int                  `json:"moneylineHome"`
	MoneylineAway int                  `json:"moneylineAway"`
	Sportsbooks   map[string]BookLines `json:"sportsbooks"`
}

// GameWithLines pairs a game with its lines.
type GameWithLines struct {
	Game  Game  `json:"game"`
	Lines Lines `json:"lines"`
}

// DefaultLines returns the sport defaults for a game with no known lines.
func DefaultLines(gameID string, sport Sport) Lines {
	return Lines{
		GameID:        gameID,
		Spread:        sport.DefaultSpread(),
		Total:         sport.DefaultTotal(),
		MoneylineHome: DefaultMoneyline,
		MoneylineAway: DefaultMoneyline,
		Sportsbooks:   map[string]BookLines{},
	}
}

// DefaultBookLines returns sport defaults for a single book.
func DefaultBookLines(sport Sport) BookLines {
	return BookLines{
		Spread:        sport.DefaultSpread(),
		Total:         sport.DefaultTotal(),
		MoneylineHome: DefaultMoneyline,
		MoneylineAway: DefaultMoneyline,
	}
}

// Clone returns a copy that shares no map with l.
func (l Lines) Clone() Lines {
	books := make(map[string]BookLines, len(l.Sportsbooks))
	for name, b := range l.Sportsbooks {
		books[name] = b
	}
	l.Sportsbooks = books
	return l
}

// IsZero reports whether l carries no data at all, as decoded from an empty record.
func (l Lines) IsZero() bool {
	return l.GameID == "" && l.Spread == 0 && l.Total == 0 &&
		l.MoneylineHome == 0 && l.MoneylineAway == 0 && len(l.Sportsbooks) == 0
}

// WithDefaults fills missing totals and prices with the sport defaults.
// A zero spread is a pick'em and is kept.
func (l Lines) WithDefaults(sport Sport) Lines {
	l.Total, l.MoneylineHome, l.MoneylineAway = lineDefaults(sport, l.Total, l.MoneylineHome, l.MoneylineAway)
	books := make(map[string]BookLines, len(l.Sportsbooks))
	for name, b := range l.Sportsbooks {
		b.Total, b.MoneylineHome, b.MoneylineAway = lineDefaults(sport, b.Total, b.MoneylineHome, b.MoneylineAway)
		books[name] = b
	}
	l.Sportsbooks = books
	return l
}

func lineDefaults(sport Sport, total float64, home, away int) (float64, int, int) {
	if total <= 0 {
		total = sport.DefaultTotal()
	}
	if home == 0 {
		home = DefaultMoneyline
	}
	if away == 0 {
		away = DefaultMoneyline
	}
	return total, home, away
}
