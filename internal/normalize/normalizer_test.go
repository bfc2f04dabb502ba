package normalize

import (
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/preston-bernstein/sports-lines-service/internal/domain/games"
	"github.com/preston-bernstein/sports-lines-service/internal/providers"
)

var fixedNow = time.Date(2024, 10, 6, 17, 0, 0, 0, time.UTC)

func newTestNormalizer() *Normalizer {
	return New(func() time.Time { return fixedNow })
}

func espnEvent(state string, completed *bool) providers.Payload {
	statusType := map[string]any{"name": "STATUS_SCHEDULED"}
	if state != "" {
		statusType["state"] = state
	}
	if completed != nil {
		statusType["completed"] = *completed
	}
	return providers.Payload{
		"id":   "401547403",
		"date": "2024-10-06T17:00Z",
		"name": "Minnesota Vikings at Green Bay Packers",
		"status": map[string]any{
			"period":       float64(3),
			"displayClock": "5:12",
			"type":         statusType,
		},
		"competitions": []any{
			map[string]any{
				"id":    "401547403",
				"venue": map[string]any{"fullName": "Lambeau Field"},
				"broadcasts": []any{
					map[string]any{"names": []any{"CBS"}},
				},
				"competitors": []any{
					map[string]any{
						"homeAway": "home",
						"score":    "14",
						"team": map[string]any{
							"displayName":  "Green Bay Packers",
							"abbreviation": "GB",
							"logo":         "https://a.espncdn.com/gb.png",
						},
						"records": []any{map[string]any{"summary": "2-2"}},
					},
					map[string]any{
						"homeAway": "away",
						"score":    "21",
						"team": map[string]any{
							"displayName":  "Minnesota Vikings",
							"abbreviation": "MIN",
						},
					},
				},
				"odds": []any{
					map[string]any{
						"provider":     map[string]any{"name": "ESPN BET"},
						"details":      "MIN -7",
						"overUnder":    float64(45.5),
						"homeTeamOdds": map[string]any{"moneyLine": float64(250)},
						"awayTeamOdds": map[string]any{"moneyLine": float64(-310)},
					},
				},
			},
		},
	}
}

func boolPtr(b bool) *bool { return &b }

func TestNormalizeCompetitionShape(t *testing.T) {
	g, err := newTestNormalizer().Normalize(espnEvent("in", nil), games.SportNFL)
	require.NoError(t, err)

	assert.Equal(t, "nfl-401547403", g.ID)
	assert.Equal(t, games.SportNFL, g.Sport)
	assert.Equal(t, "Green Bay Packers", g.HomeTeam.Name)
	assert.Equal(t, "MIN", g.AwayTeam.Abbreviation)
	assert.Equal(t, "2-2", g.HomeTeam.Record)
	assert.Equal(t, games.PlaceholderRecord, g.AwayTeam.Record)
	assert.Equal(t, games.PlaceholderLogo, g.AwayTeam.Logo)
	assert.Equal(t, 14, g.HomeScore)
	assert.Equal(t, 21, g.AwayScore)
	assert.Equal(t, games.StatusLive, g.Status)
	assert.Equal(t, "Q3", g.Period)
	assert.Equal(t, "5:12", g.Clock)
	assert.Equal(t, "Lambeau Field", g.Venue)
	assert.Equal(t, []string{"CBS"}, g.Broadcast)
	assert.True(t, g.GameTime.Equal(time.Date(2024, 10, 6, 17, 0, 0, 0, time.UTC)))
}

func TestStatusPrecedence(t *testing.T) {
	cases := []struct {
		name      string
		state     string
		completed *bool
		want      games.GameStatus
	}{
		{"state in", "in", nil, games.StatusLive},
		{"state in wins over completed", "in", boolPtr(true), games.StatusLive},
		{"completed without state", "", boolPtr(true), games.StatusFinal},
		{"state post", "post", boolPtr(false), games.StatusFinal},
		{"state pre", "pre", nil, games.StatusScheduled},
		{"falls through to type name", "", nil, games.StatusScheduled},
	}
	n := newTestNormalizer()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := n.Normalize(espnEvent(tc.state, tc.completed), games.SportNFL)
			require.NoError(t, err)
			assert.Equal(t, tc.want, g.Status)
		})
	}
}

func TestStatusFromFlatSources(t *testing.T) {
	cases := []struct {
		name    string
		payload providers.Payload
		want    games.GameStatus
	}{
		{"isLive beats isFinal", providers.Payload{"id": "1", "isLive": true, "isFinal": true}, games.StatusLive},
		{"is_final flag", providers.Payload{"id": "1", "is_final": true}, games.StatusFinal},
		{"nested name", providers.Payload{"id": "1", "status": map[string]any{"type": map[string]any{"name": "STATUS_HALFTIME"}}}, games.StatusLive},
		{"plain final", providers.Payload{"id": "1", "status": "Final"}, games.StatusFinal},
		{"quarter label", providers.Payload{"id": "1", "status": "3rd Qtr"}, games.StatusLive},
		{"tip-off time is not a status", providers.Payload{"id": "1", "status": "7:30 pm ET"}, games.StatusScheduled},
		{"abbreviated st", providers.Payload{"gid": "1", "st": "F/OT"}, games.StatusFinal},
		{"gameStatus literal", providers.Payload{"id": "1", "gameStatus": "in progress"}, games.StatusLive},
		{"nothing known", providers.Payload{"id": "1"}, games.StatusScheduled},
	}
	n := newTestNormalizer()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := n.Normalize(tc.payload, games.SportNBA)
			require.NoError(t, err)
			assert.Equal(t, tc.want, g.Status)
		})
	}
}

func TestNormalizeFlatShape(t *testing.T) {
	p := providers.Payload{
		"id":                 float64(18444),
		"date":               "2024-01-15T00:00:00Z",
		"status":             "Final",
		"home_team":          map[string]any{"full_name": "Boston Celtics", "abbreviation": "BOS"},
		"visitor_team":       map[string]any{"full_name": "Miami Heat", "abbreviation": "MIA"},
		"home_team_score":    float64(112),
		"visitor_team_score": float64(104),
		"venue":              map[string]any{"name": "TD Garden"},
		"broadcast":          "ESPN, NBA TV",
	}
	g, err := newTestNormalizer().Normalize(p, games.SportNBA)
	require.NoError(t, err)

	assert.Equal(t, "nba-18444", g.ID)
	assert.Equal(t, "Boston Celtics", g.HomeTeam.Name)
	assert.Equal(t, "MIA", g.AwayTeam.Abbreviation)
	assert.Equal(t, 112, g.HomeScore)
	assert.Equal(t, 104, g.AwayScore)
	assert.Equal(t, games.StatusFinal, g.Status)
	assert.Empty(t, g.Period)
	assert.Empty(t, g.Clock)
	assert.Equal(t, "TD Garden", g.Venue)
	assert.Equal(t, []string{"ESPN", "NBA TV"}, g.Broadcast)
}

func TestNormalizeAbbreviatedShape(t *testing.T) {
	p := providers.Payload{
		"gid": "nhl-77",
		"h":   "BOS",
		"a":   "TOR",
		"hs":  "3",
		"as":  float64(2),
		"st":  "live",
		"p":   float64(4),
		"c":   "1:10",
		"t":   float64(1728234000),
		"tv":  []any{"TNT"},
	}
	g, err := newTestNormalizer().Normalize(p, games.SportNHL)
	require.NoError(t, err)

	assert.Equal(t, "nhl-77", g.ID)
	assert.Equal(t, "BOS", g.HomeTeam.Abbreviation)
	assert.Equal(t, games.PlaceholderName, g.HomeTeam.Name)
	assert.Equal(t, 3, g.HomeScore)
	assert.Equal(t, 2, g.AwayScore)
	assert.Equal(t, games.StatusLive, g.Status)
	assert.Equal(t, "OT", g.Period)
	assert.Equal(t, "1:10", g.Clock)
	assert.Equal(t, int64(1728234000), g.GameTime.Unix())
	assert.Equal(t, []string{"TNT"}, g.Broadcast)
}

func TestNormalizePartialPayloadIsTotal(t *testing.T) {
	payloads := []providers.Payload{
		{"id": "1"},
		{"homeTeam": "Chiefs"},
		{"id": "2", "homeScore": "not a number", "awayScore": float64(-3), "date": "yesterday-ish"},
		{"competitions": []any{map[string]any{"competitors": []any{}}}, "id": "3"},
		{"id": "4", "status": "in", "broadcasts": float64(7)},
	}
	n := newTestNormalizer()
	for _, p := range payloads {
		g, err := n.Normalize(p, games.SportNFL)
		require.NoError(t, err)

		assert.NotEmpty(t, g.ID)
		assert.NotEmpty(t, g.HomeTeam.Name)
		assert.NotEmpty(t, g.AwayTeam.Abbreviation)
		assert.NotEmpty(t, g.HomeTeam.Logo)
		assert.NotEmpty(t, g.AwayTeam.Record)
		assert.GreaterOrEqual(t, g.HomeScore, 0)
		assert.GreaterOrEqual(t, g.AwayScore, 0)
		assert.Contains(t, []games.GameStatus{games.StatusScheduled, games.StatusLive, games.StatusFinal}, g.Status)
		assert.False(t, g.GameTime.IsZero())
		assert.NotEmpty(t, g.Venue)
		assert.NotNil(t, g.Broadcast)
		if g.Status == games.StatusLive {
			assert.NotEmpty(t, g.Period)
			assert.NotEmpty(t, g.Clock)
		} else {
			assert.Empty(t, g.Period)
		}
	}
}

func TestNormalizeUnparseableTimeDefaultsToNow(t *testing.T) {
	g, err := newTestNormalizer().Normalize(providers.Payload{"id": "9", "gameTime": "soon"}, games.SportMLB)
	require.NoError(t, err)
	assert.True(t, g.GameTime.Equal(fixedNow))
}

func TestNormalizeRejectsPayloadWithoutIdentity(t *testing.T) {
	_, err := newTestNormalizer().Normalize(providers.Payload{"status": "Final", "homeScore": float64(3)}, games.SportNFL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, providers.ErrUpstreamFormat))

	_, err = newTestNormalizer().Normalize(nil, games.SportNFL)
	assert.True(t, errors.Is(err, providers.ErrUpstreamFormat))
}

func TestNormalizeFallbackIDIsDeterministic(t *testing.T) {
	p := providers.Payload{
		"homeTeam": map[string]any{"name": "Green Bay Packers", "abbreviation": "GB"},
		"awayTeam": map[string]any{"name": "Minnesota Vikings", "abbreviation": "MIN"},
		"gameTime": "2024-10-06T17:00:00Z",
	}
	g, err := newTestNormalizer().Normalize(p, games.SportNFL)
	require.NoError(t, err)
	assert.Equal(t, "nfl-min-at-gb-20241006", g.ID)

	sport, upstream, err := games.SplitGameID(g.ID)
	require.NoError(t, err)
	assert.Equal(t, games.SportNFL, sport)
	assert.Equal(t, "min-at-gb-20241006", upstream)
}

func TestNormalizeIsDeterministic(t *testing.T) {
	n := newTestNormalizer()
	payloads := []providers.Payload{
		espnEvent("in", boolPtr(true)),
		{"id": "1", "homeTeam": "A", "awayTeam": "B", "broadcast": []any{"X", "Y"}},
		{"gid": "2", "h": "H", "a": "A", "st": "final"},
	}
	for _, p := range payloads {
		first, err := n.Normalize(p, games.SportNFL)
		require.NoError(t, err)
		second, err := n.Normalize(p, games.SportNFL)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	}
}

func TestNormalizeListDropsDedupesAndSorts(t *testing.T) {
	payloads := []providers.Payload{
		{"id": "b", "homeTeam": "B1", "date": "2024-10-06T20:00:00Z"},
		{"status": "Final"},
		{"id": "a", "homeTeam": "A1", "date": "2024-10-06T17:00:00Z"},
		{"id": "b", "homeTeam": "B2", "date": "2024-10-06T20:00:00Z"},
		{"id": "c", "homeTeam": "C1", "date": "2024-10-06T17:00:00Z"},
	}
	out, dropped := newTestNormalizer().NormalizeList(payloads, games.SportNFL)

	assert.Equal(t, 1, dropped)
	require.Len(t, out, 3)
	assert.Equal(t, "nfl-a", out[0].ID)
	assert.Equal(t, "nfl-c", out[1].ID)
	assert.Equal(t, "nfl-b", out[2].ID)
	assert.Equal(t, "B1", out[2].HomeTeam.Name)
}

func TestNormalizeLinesFromCompetitionOdds(t *testing.T) {
	lines, err := newTestNormalizer().NormalizeLines(espnEvent("pre", nil), "nfl-401547403", games.SportNFL)
	require.NoError(t, err)

	assert.Equal(t, "nfl-401547403", lines.GameID)
	assert.Equal(t, -7.0, lines.Spread)
	assert.Equal(t, 45.5, lines.Total)
	assert.Equal(t, 250, lines.MoneylineHome)
	assert.Equal(t, -310, lines.MoneylineAway)
	require.Contains(t, lines.Sportsbooks, "ESPN BET")
	assert.Equal(t, -7.0, lines.Sportsbooks["ESPN BET"].Spread)
}

func TestNormalizeLinesGarbageSpreadUsesSportDefault(t *testing.T) {
	lines, err := newTestNormalizer().NormalizeLines(providers.Payload{"spread": "garbage", "total": "o47"}, "nfl-1", games.SportNFL)
	require.NoError(t, err)

	assert.Equal(t, -3.5, lines.Spread)
	assert.Equal(t, 47.0, lines.Total)
	assert.Equal(t, games.DefaultMoneyline, lines.MoneylineHome)
	assert.Equal(t, games.DefaultMoneyline, lines.MoneylineAway)
	assert.NotNil(t, lines.Sportsbooks)
}

func TestNormalizeLinesFlatBooksAndAbbrev(t *testing.T) {
	p := providers.Payload{
		"sportsbooks": map[string]any{
			"fanduel":    map[string]any{"spread": float64(-2.5), "total": float64(221.5)},
			"draftkings": map[string]any{"moneylineHome": "+120", "moneylineAway": float64(-140)},
		},
		"mlh": float64(115),
	}
	lines, err := newTestNormalizer().NormalizeLines(p, "nba-5", games.SportNBA)
	require.NoError(t, err)

	assert.Equal(t, 115, lines.MoneylineHome)
	assert.Equal(t, -4.5, lines.Spread)
	assert.Equal(t, 224.5, lines.Total)
	require.Len(t, lines.Sportsbooks, 2)
	assert.Equal(t, 221.5, lines.Sportsbooks["fanduel"].Total)
	assert.Equal(t, games.DefaultMoneyline, lines.Sportsbooks["fanduel"].MoneylineHome)
	assert.Equal(t, 120, lines.Sportsbooks["draftkings"].MoneylineHome)
	assert.Equal(t, -4.5, lines.Sportsbooks["draftkings"].Spread)
}

func TestNormalizeLinesRejectsPayloadWithoutLines(t *testing.T) {
	_, err := newTestNormalizer().NormalizeLines(providers.Payload{"id": "1", "total": float64(-4)}, "nfl-1", games.SportNFL)
	assert.True(t, errors.Is(err, providers.ErrUpstreamFormat))

	_, err = newTestNormalizer().NormalizeLinesList(nil, "nfl-1", games.SportNFL)
	assert.True(t, errors.Is(err, providers.ErrUpstreamFormat))
}

func TestNormalizeLinesListTakesFirstViable(t *testing.T) {
	lines, err := newTestNormalizer().NormalizeLinesList([]providers.Payload{
		{"id": "x"},
		{"sp": "PK", "ou": "6½"},
	}, "nhl-1", games.SportNHL)
	require.NoError(t, err)
	assert.Equal(t, 0.0, lines.Spread)
	assert.Equal(t, 6.5, lines.Total)
}
