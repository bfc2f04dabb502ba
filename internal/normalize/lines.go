package normalize

import (
	"sort"

	"github.com/preston-bernstein/sports-lines-service/internal/domain/games"
)

// lineFields holds whatever line values a source yielded; the has* flags separate
// "absent" from a legitimate zero (a pick'em spread).
type lineFields struct {
	spread    float64
	total     float64
	mlHome    int
	mlAway    int
	hasSpread bool
	hasTotal  bool
	hasMLHome bool
	hasMLAway bool
}

func (l lineFields) empty() bool {
	return !l.hasSpread && !l.hasTotal && !l.hasMLHome && !l.hasMLAway
}

// merge fills fields l lacks from other.
func (l lineFields) merge(other lineFields) lineFields {
	if !l.hasSpread && other.hasSpread {
		l.spread, l.hasSpread = other.spread, true
	}
	if !l.hasTotal && other.hasTotal {
		l.total, l.hasTotal = other.total, true
	}
	if !l.hasMLHome && other.hasMLHome {
		l.mlHome, l.hasMLHome = other.mlHome, true
	}
	if !l.hasMLAway && other.hasMLAway {
		l.mlAway, l.hasMLAway = other.mlAway, true
	}
	return l
}

func (l lineFields) book(sport games.Sport) games.BookLines {
	b := games.DefaultBookLines(sport)
	if l.hasSpread {
		b.Spread = l.spread
	}
	if l.hasTotal {
		b.Total = l.total
	}
	if l.hasMLHome {
		b.MoneylineHome = l.mlHome
	}
	if l.hasMLAway {
		b.MoneylineAway = l.mlAway
	}
	return b
}

func readLineFields(m map[string]any, spreadKeys, totalKeys, homeKeys, awayKeys []string) lineFields {
	var l lineFields
	if m == nil {
		return l
	}
	l.spread, l.hasSpread = firstFloat(m, spreadKeys...)
	if total, ok := firstFloat(m, totalKeys...); ok && total > 0 {
		l.total, l.hasTotal = total, true
	}
	if ml, ok := firstInt(m, homeKeys...); ok && ml != 0 {
		l.mlHome, l.hasMLHome = ml, true
	}
	if ml, ok := firstInt(m, awayKeys...); ok && ml != 0 {
		l.mlAway, l.hasMLAway = ml, true
	}
	return l
}

var (
	flatSpreadKeys = []string{"spread", "pointSpread", "point_spread", "spreadText"}
	flatTotalKeys  = []string{"total", "overUnder", "over_under"}
	flatHomeMLKeys = []string{"moneylineHome", "moneyline_home", "homeMoneyline", "home_moneyline"}
	flatAwayMLKeys = []string{"moneylineAway", "moneyline_away", "awayMoneyline", "away_moneyline"}
)

func competitionOdds(odds map[string]any) lineFields {
	l := readLineFields(odds, []string{"spread", "details"}, []string{"overUnder", "total"}, nil, nil)
	if ml, ok := asInt(lookup(odds, "homeTeamOdds", "moneyLine")); ok && ml != 0 {
		l.mlHome, l.hasMLHome = ml, true
	} else if ml, ok := asInt(lookup(odds, "moneyline", "home", "close", "odds")); ok && ml != 0 {
		l.mlHome, l.hasMLHome = ml, true
	}
	if ml, ok := asInt(lookup(odds, "awayTeamOdds", "moneyLine")); ok && ml != 0 {
		l.mlAway, l.hasMLAway = ml, true
	} else if ml, ok := asInt(lookup(odds, "moneyline", "away", "close", "odds")); ok && ml != 0 {
		l.mlAway, l.hasMLAway = ml, true
	}
	return l
}

// extractLines returns the consensus fields and the per-book fields found in env.
func extractLines(env Envelope) (lineFields, map[string]lineFields) {
	var main lineFields
	books := map[string]lineFields{}
	addBook := func(name string, l lineFields) {
		if name == "" || l.empty() {
			return
		}
		if _, ok := books[name]; !ok {
			books[name] = l
		}
	}

	if c := env.Competition; c != nil {
		for _, odds := range c.odds {
			l := competitionOdds(odds)
			main = main.merge(l)
			addBook(asString(lookup(odds, "provider", "name")), l)
		}
	}
	if f := env.Flat; f != nil {
		main = main.merge(readLineFields(f.root, flatSpreadKeys, flatTotalKeys, flatHomeMLKeys, flatAwayMLKeys))
		byName := asMap(f.root["sportsbooks"])
		names := make([]string, 0, len(byName))
		for name := range byName {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			addBook(name, readLineFields(asMap(byName[name]), flatSpreadKeys, flatTotalKeys, flatHomeMLKeys, flatAwayMLKeys))
		}
		for _, b := range asMaps(f.root["books"]) {
			addBook(firstString(b, "name", "key", "title"),
				readLineFields(b, flatSpreadKeys, flatTotalKeys, flatHomeMLKeys, flatAwayMLKeys))
		}
	}
	if a := env.Abbrev; a != nil {
		main = main.merge(readLineFields(a.root, []string{"sp"}, []string{"ou"}, []string{"mlh"}, []string{"mla"}))
	}

	// A payload that only carries books still has a consensus: the first book by name.
	if main.empty() && len(books) > 0 {
		names := make([]string, 0, len(books))
		for name := range books {
			names = append(names, name)
		}
		sort.Strings(names)
		main = books[names[0]]
	}
	return main, books
}
