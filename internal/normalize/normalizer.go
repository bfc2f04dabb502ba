package normalize

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/preston-bernstein/sports-lines-service/internal/domain/games"
	"github.com/preston-bernstein/sports-lines-service/internal/providers"
	"github.com/preston-bernstein/sports-lines-service/internal/timeutil"
)

const source = "normalizer"

var (
	errNoViableGame  = errors.New("payload has no game id and no team names")
	errNoViableLines = errors.New("payload carries no line fields")
)

// Normalizer turns upstream payloads into canonical records.
// Output depends only on the payload and the injected clock.
type Normalizer struct {
	now func() time.Time
}

// New returns a normalizer; a nil clock uses time.Now.
func New(now func() time.Time) *Normalizer {
	if now == nil {
		now = time.Now
	}
	return &Normalizer{now: now}
}

// Normalize builds one canonical game. It fails with an upstream format error only when
// the payload has neither an id nor any team name.
func (n *Normalizer) Normalize(p providers.Payload, sport games.Sport) (games.Game, error) {
	env := Decode(p)

	homeTeam := extractTeam(env, home)
	awayTeam := extractTeam(env, away)
	upstreamID := extractID(env, sport)
	if upstreamID == "" && teamLabel(homeTeam) == "" && teamLabel(awayTeam) == "" {
		return games.Game{}, providers.UpstreamFormatError(source, errNoViableGame)
	}

	gameTime, ok := extractGameTime(env)
	if !ok {
		gameTime = n.now().UTC()
	}

	g := games.Game{
		Sport:     sport,
		HomeTeam:  homeTeam,
		AwayTeam:  awayTeam,
		HomeScore: extractScore(env, home),
		AwayScore: extractScore(env, away),
		Status:    deriveStatus(env),
		GameTime:  gameTime,
		Venue:     extractVenue(env),
		Broadcast: extractBroadcast(env),
	}
	if g.Status == games.StatusLive {
		g.Period, g.Clock = extractPeriodClock(env, sport)
	}
	if upstreamID != "" {
		g.ID = games.GameID(sport, upstreamID)
	} else {
		g.ID = fallbackID(sport, homeTeam, awayTeam, gameTime)
	}
	return g.WithDefaults(), nil
}

// NormalizeList normalizes every payload, dropping the ones that fail. Duplicate ids keep
// the first occurrence. The result is ordered by game time, then id.
func (n *Normalizer) NormalizeList(ps []providers.Payload, sport games.Sport) ([]games.Game, int) {
	out := make([]games.Game, 0, len(ps))
	seen := make(map[string]struct{}, len(ps))
	dropped := 0
	for _, p := range ps {
		g, err := n.Normalize(p, sport)
		if err != nil {
			dropped++
			continue
		}
		if _, dup := seen[g.ID]; dup {
			continue
		}
		seen[g.ID] = struct{}{}
		out = append(out, g)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].GameTime.Equal(out[j].GameTime) {
			return out[i].GameTime.Before(out[j].GameTime)
		}
		return out[i].ID < out[j].ID
	})
	return out, dropped
}

// NormalizeLines builds canonical lines for gameID. Missing fields take the sport
// defaults, but a payload with no line field at all is an upstream format error.
func (n *Normalizer) NormalizeLines(p providers.Payload, gameID string, sport games.Sport) (games.Lines, error) {
	main, books := extractLines(Decode(p))
	if main.empty() {
		return games.Lines{}, providers.UpstreamFormatError(source, errNoViableLines)
	}

	consensus := main.book(sport)
	lines := games.Lines{
		GameID:        gameID,
		Spread:        consensus.Spread,
		Total:         consensus.Total,
		MoneylineHome: consensus.MoneylineHome,
		MoneylineAway: consensus.MoneylineAway,
		Sportsbooks:   make(map[string]games.BookLines, len(books)),
	}
	for name, b := range books {
		lines.Sportsbooks[name] = b.book(sport)
	}
	return lines, nil
}

// NormalizeLinesList returns the lines from the first payload that yields a viable record.
func (n *Normalizer) NormalizeLinesList(ps []providers.Payload, gameID string, sport games.Sport) (games.Lines, error) {
	for _, p := range ps {
		if lines, err := n.NormalizeLines(p, gameID, sport); err == nil {
			return lines, nil
		}
	}
	return games.Lines{}, providers.UpstreamFormatError(source, errNoViableLines)
}

var slugUnsafe = regexp.MustCompile(`[^a-z0-9]+`)

// fallbackID is derived from fields only, so the same matchup on the same day always
// maps to the same id.
func fallbackID(sport games.Sport, homeTeam, awayTeam games.Team, at time.Time) string {
	return strings.Join([]string{
		string(sport),
		slug(awayTeam),
		"at",
		slug(homeTeam),
		at.UTC().Format(timeutil.CompactDateLayout),
	}, "-")
}

func slug(t games.Team) string {
	s := strings.Trim(slugUnsafe.ReplaceAllString(strings.ToLower(teamLabel(t)), "-"), "-")
	if s == "" {
		return "tbd"
	}
	return s
}

func teamLabel(t games.Team) string {
	if t.Abbreviation != "" {
		return t.Abbreviation
	}
	return t.Name
}
