package espn

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/preston-bernstein/sports-lines-service/internal/domain/games"
	"github.com/preston-bernstein/sports-lines-service/internal/providers"
	"github.com/preston-bernstein/sports-lines-service/internal/timeutil"
)

const (
	// DefaultBaseURL is the public ESPN site API.
	DefaultBaseURL = "https://site.api.espn.com/apis/site/v2/sports"

	providerName       = "espn"
	defaultHTTPTimeout = 15 * time.Second
	defaultUserAgent   = "Mozilla/5.0 (compatible; sports-lines-service/1.0)"
	regularSeasonType  = "2"
)

var sportPaths = map[games.Sport]string{
	games.SportNFL:   "football/nfl",
	games.SportNCAAF: "football/college-football",
	games.SportNBA:   "basketball/nba",
	games.SportNCAAB: "basketball/mens-college-basketball",
	games.SportMLB:   "baseball/mlb",
	games.SportNHL:   "hockey/nhl",
}

// Config controls how the ESPN client reaches the site API.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	UserAgent  string
}

// Client handles ESPN API requests.
type Client struct {
	baseURL    string
	httpClient providers.HTTPDoer
	userAgent  string
}

// New creates a new ESPN API client.
func New(cfg Config) *Client {
	base := strings.TrimSuffix(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		base = DefaultBaseURL
	}
	var doer providers.HTTPDoer = cfg.HTTPClient
	if cfg.HTTPClient == nil {
		doer = &http.Client{Timeout: defaultHTTPTimeout}
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = defaultUserAgent
	}
	return &Client{baseURL: base, httpClient: doer, userAgent: ua}
}

func (c *Client) Name() string {
	return providerName
}

// Fetch reads the scoreboard for schedule and live queries and the game summary for lines.
func (c *Client) Fetch(ctx context.Context, q providers.Query) ([]providers.Payload, error) {
	path, ok := sportPaths[q.Sport]
	if !ok {
		return nil, providers.ConfigurationError(errors.Wrapf(games.ErrUnknownSport, "%q", q.Sport))
	}

	switch q.Kind {
	case providers.KindLines:
		params := url.Values{"event": []string{q.UpstreamGameID()}}
		decoded, err := c.get(ctx, path+"/summary", params)
		if err != nil {
			return nil, err
		}
		return providers.PayloadList(decoded), nil
	case providers.KindSchedule:
		params, err := scheduleParams(q)
		if err != nil {
			return nil, err
		}
		return c.scoreboard(ctx, path, params)
	default:
		return c.scoreboard(ctx, path, nil)
	}
}

func (c *Client) scoreboard(ctx context.Context, path string, params url.Values) ([]providers.Payload, error) {
	decoded, err := c.get(ctx, path+"/scoreboard", params)
	if err != nil {
		return nil, err
	}
	root, ok := decoded.(map[string]any)
	if !ok {
		return nil, providers.UpstreamFormatError(providerName, errors.New("scoreboard is not an object"))
	}
	events, _ := root["events"].([]any)
	out := make([]providers.Payload, 0, len(events))
	for _, e := range events {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out, nil
}

func scheduleParams(q providers.Query) (url.Values, error) {
	if q.Period == "" {
		return nil, nil
	}
	if q.Sport.PeriodStyle() == games.PeriodWeek {
		return url.Values{"week": []string{q.Period}, "seasontype": []string{regularSeasonType}}, nil
	}
	compact, err := timeutil.CompactDate(q.Period)
	if err != nil {
		return nil, providers.ConfigurationError(errors.Wrapf(games.ErrInvalidPeriod, "%q", q.Period))
	}
	return url.Values{"dates": []string{compact}}, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+path, nil)
	if err != nil {
		return nil, providers.TransportError(providerName, err)
	}
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}
	req.Header.Set("User-Agent", c.userAgent)
	return providers.DoJSON(c.httpClient, req, providerName)
}
