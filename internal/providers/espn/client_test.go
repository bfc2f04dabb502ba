package espn

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"

	"github.com/preston-bernstein/sports-lines-service/internal/domain/games"
	"github.com/preston-bernstein/sports-lines-service/internal/providers"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func recordingClient(body string, seen *[]*http.Request) *Client {
	return New(Config{
		BaseURL: "https://espn.test/sports/",
		HTTPClient: &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			*seen = append(*seen, r)
			return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(body))}, nil
		})},
	})
}

func TestScheduleUsesWeekForFootball(t *testing.T) {
	var seen []*http.Request
	c := recordingClient(`{"events":[{"id":"1"},{"id":"2"}]}`, &seen)

	payloads, err := c.Fetch(context.Background(), providers.ScheduleQuery(games.SportNFL, "7"))
	if err != nil || len(payloads) != 2 {
		t.Fatalf("expected 2 events, got %d err=%v", len(payloads), err)
	}
	req := seen[0]
	if req.URL.Path != "/sports/football/nfl/scoreboard" {
		t.Fatalf("unexpected path %s", req.URL.Path)
	}
	if req.URL.Query().Get("week") != "7" || req.URL.Query().Get("seasontype") != "2" {
		t.Fatalf("expected week params, got %s", req.URL.RawQuery)
	}
	if req.Header.Get("User-Agent") == "" {
		t.Fatalf("expected user agent header")
	}
}

func TestScheduleUsesCompactDateForDateSports(t *testing.T) {
	var seen []*http.Request
	c := recordingClient(`{"events":[]}`, &seen)

	payloads, err := c.Fetch(context.Background(), providers.ScheduleQuery(games.SportNBA, "2024-01-15"))
	if err != nil || len(payloads) != 0 {
		t.Fatalf("expected empty events, got %d err=%v", len(payloads), err)
	}
	if got := seen[0].URL.Query().Get("dates"); got != "20240115" {
		t.Fatalf("expected compact date, got %q", got)
	}
	if seen[0].URL.Path != "/sports/basketball/nba/scoreboard" {
		t.Fatalf("unexpected path %s", seen[0].URL.Path)
	}
}

func TestLiveUsesBareScoreboard(t *testing.T) {
	var seen []*http.Request
	c := recordingClient(`{"events":[{"id":"1"}]}`, &seen)

	if _, err := c.Fetch(context.Background(), providers.LiveQuery(games.SportNHL)); err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if seen[0].URL.RawQuery != "" || seen[0].URL.Path != "/sports/hockey/nhl/scoreboard" {
		t.Fatalf("unexpected live request %s", seen[0].URL.String())
	}
}

func TestLinesUsesSummary(t *testing.T) {
	var seen []*http.Request
	c := recordingClient(`{"header":{"id":"401"},"pickcenter":[{"spread":-3}]}`, &seen)

	payloads, err := c.Fetch(context.Background(), providers.LinesQuery(games.SportNFL, "nfl-401"))
	if err != nil || len(payloads) != 1 {
		t.Fatalf("expected summary payload, got %d err=%v", len(payloads), err)
	}
	if seen[0].URL.Path != "/sports/football/nfl/summary" || seen[0].URL.Query().Get("event") != "401" {
		t.Fatalf("unexpected summary request %s", seen[0].URL.String())
	}
}

func TestLiveQueryReadsTodaysScoreboard(t *testing.T) {
	var seen []*http.Request
	c := recordingClient(`{"events":[{"id":"1"}]}`, &seen)

	payloads, err := c.Fetch(context.Background(), providers.LiveQuery(games.SportMLB))
	if err != nil || len(payloads) != 1 {
		t.Fatalf("expected one event, got %d err=%v", len(payloads), err)
	}
	if seen[0].URL.Path != "/sports/baseball/mlb/scoreboard" || seen[0].URL.RawQuery != "" {
		t.Fatalf("unexpected live request %s", seen[0].URL.String())
	}
}

func TestScoreboardThatIsNotAnObjectIsFormatError(t *testing.T) {
	var seen []*http.Request
	c := recordingClient(`[1,2,3]`, &seen)

	_, err := c.Fetch(context.Background(), providers.LiveQuery(games.SportNBA))
	if !errors.Is(err, providers.ErrUpstreamFormat) {
		t.Fatalf("expected format error, got %v", err)
	}
}

func TestUnknownSportIsConfigurationError(t *testing.T) {
	c := New(Config{})
	_, err := c.Fetch(context.Background(), providers.LiveQuery(games.Sport("curling")))
	if !errors.Is(err, providers.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if c.Name() != "espn" {
		t.Fatalf("unexpected name %s", c.Name())
	}
}
