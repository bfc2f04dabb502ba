package games

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/preston-bernstein/sports-lines-service/internal/timeutil"
)

// Sport identifies a supported league.
type Sport string

const (
	SportNFL   Sport = "nfl"
	SportNCAAF Sport = "ncaaf"
	SportNBA   Sport = "nba"
	SportNCAAB Sport = "ncaab"
	SportMLB   Sport = "mlb"
	SportNHL   Sport = "nhl"
)

// PeriodStyle describes how a sport's schedule is partitioned.
type PeriodStyle string

const (
	PeriodWeek PeriodStyle = "week"
	PeriodDate PeriodStyle = "date"
)

const maxWeek = 25

var (
	ErrUnknownSport  = errors.New("unknown sport")
	ErrInvalidPeriod = errors.New("invalid period")
)

type sportProfile struct {
	spread float64
	total  float64
	style  PeriodStyle
}

var profiles = map[Sport]sportProfile{
	SportNFL:   {spread: -3.5, total: 44.5, style: PeriodWeek},
	SportNCAAF: {spread: -6.5, total: 54.5, style: PeriodWeek},
	SportNBA:   {spread: -4.5, total: 224.5, style: PeriodDate},
	SportNCAAB: {spread: -5.5, total: 142.5, style: PeriodDate},
	SportMLB:   {spread: -1.5, total: 8.5, style: PeriodDate},
	SportNHL:   {spread: -1.5, total: 6.0, style: PeriodDate},
}

// Sports lists every supported sport in a stable order.
func Sports() []Sport {
	return []Sport{SportNFL, SportNCAAF, SportNBA, SportNCAAB, SportMLB, SportNHL}
}

// ParseSport resolves a case-insensitive sport key.
func ParseSport(raw string) (Sport, error) {
	s := Sport(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := profiles[s]; !ok {
		return "", errors.Wrapf(ErrUnknownSport, "%q", raw)
	}
	return s, nil
}

// Valid reports whether s is a supported sport.
func (s Sport) Valid() bool {
	_, ok := profiles[s]
	return ok
}

// DefaultSpread is the spread used when an upstream provides none.
func (s Sport) DefaultSpread() float64 {
	return profiles[s].spread
}

// DefaultTotal is the total used when an upstream provides none.
func (s Sport) DefaultTotal() float64 {
	if t := profiles[s].total; t > 0 {
		return t
	}
	return 1
}

// PeriodStyle reports whether schedules are keyed by week or by date.
func (s Sport) PeriodStyle() PeriodStyle {
	return profiles[s].style
}

// NormalizePeriod validates a schedule period for the sport.
// An empty period means "current" and is always accepted.
func (s Sport) NormalizePeriod(raw string) (string, error) {
	period := strings.TrimSpace(raw)
	if period == "" {
		return "", nil
	}
	switch s.PeriodStyle() {
	case PeriodWeek:
		week, err := strconv.Atoi(period)
		if err != nil || week < 1 || week > maxWeek {
			return "", errors.Wrapf(ErrInvalidPeriod, "%s expects a week between 1 and %d, got %q", s, maxWeek, raw)
		}
		return strconv.Itoa(week), nil
	default:
		if _, err := timeutil.ParseDate(period); err != nil {
			return "", errors.Wrapf(ErrInvalidPeriod, "%s expects a YYYY-MM-DD date, got %q", s, raw)
		}
		return period, nil
	}
}
