package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/preston-bernstein/sports-lines-service/internal/domain/games"
	"github.com/preston-bernstein/sports-lines-service/internal/timeutil"
)

type side int

const (
	home side = iota
	away
)

// extractID returns the upstream id with any sport namespace removed.
func extractID(env Envelope, sport games.Sport) string {
	var id string
	if c := env.Competition; c != nil {
		id = firstString(c.event, "id")
		if id == "" {
			id = firstString(c.competition, "id")
		}
	}
	if id == "" {
		id = firstString(env.Raw, "id", "gameId", "game_id", "eventId", "event_id", "gid")
	}
	return strings.TrimPrefix(id, string(sport)+"-")
}

func extractTeam(env Envelope, s side) games.Team {
	if c := env.Competition; c != nil {
		if t, ok := competitionTeam(c, s); ok {
			return t
		}
	}
	if f := env.Flat; f != nil {
		ref := f.home
		if s == away {
			ref = f.away
		}
		if t, ok := flatTeam(ref); ok {
			return t
		}
	}
	if a := env.Abbrev; a != nil {
		abbrKey, nameKey := "h", "hn"
		if s == away {
			abbrKey, nameKey = "a", "an"
		}
		abbr := firstString(a.root, abbrKey)
		name := firstString(a.root, nameKey)
		if abbr != "" || name != "" {
			return games.Team{Name: name, Abbreviation: abbr}
		}
	}
	return games.Team{}
}

func competitionTeam(c *CompetitionView, s side) (games.Team, bool) {
	competitor := c.home
	if s == away {
		competitor = c.away
	}
	if competitor == nil {
		return games.Team{}, false
	}
	team := asMap(competitor["team"])
	t := games.Team{
		Name:         firstString(team, "displayName", "name", "shortDisplayName"),
		Abbreviation: firstString(team, "abbreviation"),
		Logo:         firstString(team, "logo"),
	}
	if t.Logo == "" {
		if logos := asMaps(team["logos"]); len(logos) > 0 {
			t.Logo = firstString(logos[0], "href")
		}
	}
	if records := asMaps(competitor["records"]); len(records) > 0 {
		t.Record = firstString(records[0], "summary")
	}
	if t == (games.Team{}) {
		return t, false
	}
	return t, true
}

func flatTeam(ref teamRef) (games.Team, bool) {
	if ref.empty() {
		return games.Team{}, false
	}
	if ref.obj == nil {
		return games.Team{Name: ref.text}, true
	}
	t := games.Team{
		Name:         firstString(ref.obj, "name", "full_name", "displayName", "fullName"),
		Abbreviation: firstString(ref.obj, "abbreviation", "abbr", "code"),
		Logo:         firstString(ref.obj, "logo", "logoUrl", "logo_url"),
		Record:       firstString(ref.obj, "record"),
	}
	return t, t != (games.Team{})
}

func extractScore(env Envelope, s side) int {
	if c := env.Competition; c != nil {
		competitor := c.home
		if s == away {
			competitor = c.away
		}
		if v, ok := asInt(competitor["score"]); ok {
			return v
		}
	}
	if f := env.Flat; f != nil {
		keys := []string{"homeScore", "home_score", "home_team_score"}
		if s == away {
			keys = []string{"awayScore", "away_score", "visitor_team_score"}
		}
		if v, ok := firstInt(f.root, keys...); ok {
			return v
		}
		ref := f.home
		if s == away {
			ref = f.away
		}
		if v, ok := asInt(ref.obj["score"]); ok {
			return v
		}
	}
	if a := env.Abbrev; a != nil {
		key := "hs"
		if s == away {
			key = "as"
		}
		if v, ok := asInt(a.root[key]); ok {
			return v
		}
	}
	return 0
}

func extractPeriodClock(env Envelope, sport games.Sport) (period, clock string) {
	if c := env.Competition; c != nil && c.status != nil {
		if n, ok := asInt(c.status["period"]); ok && n > 0 {
			period = PeriodLabel(sport, n)
		}
		clock = firstString(c.status, "displayClock")
	}
	if f := env.Flat; f != nil {
		if period == "" {
			if n, ok := asInt(f.root["period"]); ok && n > 0 {
				period = PeriodLabel(sport, n)
			} else {
				period = firstString(f.root, "period")
			}
		}
		if clock == "" {
			clock = firstString(f.root, "clock", "time", "gameClock")
		}
	}
	if a := env.Abbrev; a != nil {
		if period == "" {
			if n, ok := asInt(a.root["p"]); ok && n > 0 {
				period = PeriodLabel(sport, n)
			}
		}
		if clock == "" {
			clock = firstString(a.root, "c")
		}
	}
	return period, clock
}

// PeriodLabel renders a numeric period the way the sport names it.
func PeriodLabel(sport games.Sport, n int) string {
	switch sport {
	case games.SportNCAAB:
		if n > 2 {
			return overtimeLabel(n - 2)
		}
		return fmt.Sprintf("H%d", n)
	case games.SportNHL:
		if n > 3 {
			return overtimeLabel(n - 3)
		}
		return fmt.Sprintf("P%d", n)
	case games.SportMLB:
		return fmt.Sprintf("Inning %d", n)
	default:
		if n > 4 {
			return overtimeLabel(n - 4)
		}
		return fmt.Sprintf("Q%d", n)
	}
}

func overtimeLabel(n int) string {
	if n == 1 {
		return "OT"
	}
	return fmt.Sprintf("%dOT", n)
}

// extractGameTime returns ok=false when no source parsed.
func extractGameTime(env Envelope) (time.Time, bool) {
	if c := env.Competition; c != nil {
		for _, m := range []map[string]any{c.event, c.competition} {
			if t, ok := timeutil.ParseTimestamp(firstString(m, "date", "startDate")); ok {
				return t, true
			}
		}
	}
	if f := env.Flat; f != nil {
		for _, key := range []string{"gameTime", "startTime", "start_time", "commence_time", "datetime", "date"} {
			if t, ok := timeutil.ParseTimestamp(asString(f.root[key])); ok {
				return t, true
			}
		}
	}
	if a := env.Abbrev; a != nil {
		if t, ok := timeutil.ParseTimestamp(asString(a.root["t"])); ok {
			return t, true
		}
	}
	if t, ok := timeutil.ParseTimestamp(firstString(env.Raw, "date")); ok {
		return t, true
	}
	return time.Time{}, false
}

func extractVenue(env Envelope) string {
	if c := env.Competition; c != nil {
		if v := firstString(asMap(c.competition["venue"]), "fullName", "name"); v != "" {
			return v
		}
	}
	if f := env.Flat; f != nil {
		if v := firstString(asMap(f.root["venue"]), "name", "fullName"); v != "" {
			return v
		}
		if v := firstString(f.root, "venue", "arena", "stadium"); v != "" {
			return v
		}
	}
	if a := env.Abbrev; a != nil {
		if v := firstString(a.root, "v"); v != "" {
			return v
		}
	}
	return firstString(env.Raw, "venue")
}

func extractBroadcast(env Envelope) []string {
	if c := env.Competition; c != nil {
		var names []string
		for _, b := range asMaps(c.competition["broadcasts"]) {
			names = append(names, stringList(b["names"])...)
		}
		if len(names) == 0 {
			for _, b := range asMaps(c.competition["geoBroadcasts"]) {
				if n := asString(lookup(b, "media", "shortName")); n != "" {
					names = append(names, n)
				}
			}
		}
		if len(names) > 0 {
			return dedupeStrings(names)
		}
	}
	for _, m := range []map[string]any{flatRoot(env), abbrevRoot(env)} {
		if m == nil {
			continue
		}
		for _, key := range []string{"broadcast", "broadcasts", "tv"} {
			if names := stringList(m[key]); len(names) > 0 {
				return dedupeStrings(names)
			}
		}
	}
	return []string{}
}

func flatRoot(env Envelope) map[string]any {
	if env.Flat == nil {
		return nil
	}
	return env.Flat.root
}

func abbrevRoot(env Envelope) map[string]any {
	if env.Abbrev == nil {
		return nil
	}
	return env.Abbrev.root
}

// stringList accepts a single string, a comma separated string, or a list of strings.
func stringList(v any) []string {
	var out []string
	switch t := v.(type) {
	case string:
		for _, part := range strings.Split(t, ",") {
			if s := strings.TrimSpace(part); s != "" {
				out = append(out, s)
			}
		}
	case []any:
		for _, item := range t {
			if s := asString(item); s != "" {
				out = append(out, s)
			} else if s := firstString(asMap(item), "name", "shortName"); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func firstInt(m map[string]any, keys ...string) (int, bool) {
	for _, k := range keys {
		if v, ok := asInt(m[k]); ok {
			return v, true
		}
	}
	return 0, false
}

func firstFloat(m map[string]any, keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := asFloat(m[k]); ok {
			return v, true
		}
	}
	return 0, false
}
