package normalize

import (
	"strings"

	"github.com/preston-bernstein/sports-lines-service/internal/providers"
)

// Shape identifies one known upstream payload layout.
type Shape uint8

const (
	// ShapeCompetition is the nested competitions[0].competitors[] layout (ESPN scoreboard and summary).
	ShapeCompetition Shape = 1 << iota
	// ShapeFlat is the homeTeam/awayTeam or home_team/visitor_team layout.
	ShapeFlat
	// ShapeAbbrev is the compact h/a/hs/as/sp/ou layout.
	ShapeAbbrev
)

// Envelope is a payload classified into the shape views it carries.
// Extractors consult the views in the order competition, flat, abbreviated.
type Envelope struct {
	Raw         providers.Payload
	Competition *CompetitionView
	Flat        *FlatView
	Abbrev      *AbbrevView
}

// Shapes reports which views were recognised.
func (e Envelope) Shapes() Shape {
	var s Shape
	if e.Competition != nil {
		s |= ShapeCompetition
	}
	if e.Flat != nil {
		s |= ShapeFlat
	}
	if e.Abbrev != nil {
		s |= ShapeAbbrev
	}
	return s
}

// CompetitionView exposes the nested event layout.
type CompetitionView struct {
	event       map[string]any
	competition map[string]any
	status      map[string]any
	home        map[string]any
	away        map[string]any
	odds        []map[string]any
}

// FlatView exposes the flat home/away layout.
type FlatView struct {
	root map[string]any
	home teamRef
	away teamRef
}

// AbbrevView exposes the compact single-letter layout.
type AbbrevView struct {
	root map[string]any
}

// teamRef is a team given either as an object or as a bare name.
type teamRef struct {
	obj  map[string]any
	text string
}

func (t teamRef) empty() bool {
	return t.obj == nil && t.text == ""
}

var flatKeys = []string{
	"homeTeam", "awayTeam", "home_team", "away_team", "visitor_team",
	"homeScore", "awayScore", "home_score", "away_score", "home_team_score", "visitor_team_score",
	"spread", "pointSpread", "point_spread", "total", "overUnder", "over_under",
	"moneylineHome", "moneylineAway", "moneyline_home", "moneyline_away", "sportsbooks", "books",
	"isLive", "is_live", "isFinal", "is_final", "gameStatus", "gameTime", "startTime", "start_time",
	"venue", "arena", "broadcast", "broadcasts", "period", "clock",
}

var abbrevKeys = []string{"h", "a", "hn", "an", "hs", "as", "sp", "ou", "mlh", "mla", "st", "t"}

// Decode classifies p into its shape views. A nil payload decodes to an empty envelope.
func Decode(p providers.Payload) Envelope {
	env := Envelope{Raw: p}
	if p == nil {
		return env
	}
	env.Competition = decodeCompetition(p)
	if hasAny(p, flatKeys) {
		env.Flat = &FlatView{
			root: p,
			home: decodeTeamRef(p, "homeTeam", "home_team"),
			away: decodeTeamRef(p, "awayTeam", "away_team", "visitor_team"),
		}
	}
	if hasAny(p, abbrevKeys) {
		env.Abbrev = &AbbrevView{root: p}
	}
	return env
}

func decodeCompetition(p map[string]any) *CompetitionView {
	comps := asSlice(p["competitions"])
	if len(comps) == 0 {
		comps = asSlice(lookup(p, "header", "competitions"))
	}
	pickcenter := asMaps(p["pickcenter"])
	if len(comps) == 0 && len(pickcenter) == 0 {
		return nil
	}

	view := &CompetitionView{event: p}
	if len(comps) > 0 {
		view.competition = asMap(comps[0])
	}
	view.status = asMap(p["status"])
	if view.status == nil {
		view.status = asMap(view.competition["status"])
	}

	competitors := asMaps(view.competition["competitors"])
	for _, c := range competitors {
		switch strings.ToLower(asString(c["homeAway"])) {
		case "home":
			view.home = c
		case "away":
			view.away = c
		}
	}
	if view.home == nil && len(competitors) > 0 {
		view.home = competitors[0]
	}
	if view.away == nil && len(competitors) > 1 {
		view.away = competitors[1]
	}

	view.odds = append(pickcenter, asMaps(view.competition["odds"])...)
	return view
}

func decodeTeamRef(p map[string]any, keys ...string) teamRef {
	for _, key := range keys {
		switch v := p[key].(type) {
		case map[string]any:
			return teamRef{obj: v}
		case string:
			if s := strings.TrimSpace(v); s != "" {
				return teamRef{text: s}
			}
		}
	}
	return teamRef{}
}

func hasAny(p map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := p[k]; ok {
			return true
		}
	}
	return false
}
