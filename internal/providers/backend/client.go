package backend

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/preston-bernstein/sports-lines-service/internal/providers"
)

// Config controls how the backend client reaches the primary API.
type Config struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
	MaxPages   int
}

// Client fetches raw game and line payloads from the primary backend.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient providers.HTTPDoer
	maxPages   int
}

// NewClient constructs a backend client with the provided configuration.
func NewClient(cfg Config) *Client {
	return &Client{
		baseURL:    normalizeBaseURL(cfg.BaseURL),
		apiKey:     cfg.APIKey,
		httpClient: resolveHTTPClient(cfg.HTTPClient),
		maxPages:   resolveMaxPages(cfg.MaxPages),
	}
}

func (c *Client) Name() string {
	return providerName
}

// Fetch answers q from the backend. An unconfigured client fails as unavailable so
// the chain moves on.
func (c *Client) Fetch(ctx context.Context, q providers.Query) ([]providers.Payload, error) {
	if c == nil || c.baseURL == "" {
		return nil, providers.TransportError(providerName, providers.ErrProviderUnavailable)
	}

	switch q.Kind {
	case providers.KindLive:
		return c.fetchPage(ctx, c.baseURL+"/v1/sports/"+url.PathEscape(string(q.Sport))+"/scores/live", nil)
	case providers.KindLines:
		return c.fetchPage(ctx, c.baseURL+"/v1/games/"+url.PathEscape(q.UpstreamGameID())+"/lines", nil)
	default:
		return c.fetchSchedule(ctx, q)
	}
}

func (c *Client) fetchSchedule(ctx context.Context, q providers.Query) ([]providers.Payload, error) {
	endpoint := c.baseURL + "/v1/sports/" + url.PathEscape(string(q.Sport)) + "/schedule"
	all := make([]providers.Payload, 0)

	for page := 1; ; page++ {
		params := url.Values{}
		if q.Period != "" {
			params.Set("period", q.Period)
		}
		params.Set("page", strconv.Itoa(page))

		decoded, err := c.get(ctx, endpoint, params)
		if err != nil {
			return nil, err
		}
		all = append(all, providers.PayloadList(decoded, "games", "events", "items")...)

		totalPages := totalPages(decoded)
		if totalPages <= page || page >= c.maxPages {
			break
		}
	}
	return all, nil
}

func (c *Client) fetchPage(ctx context.Context, endpoint string, params url.Values) ([]providers.Payload, error) {
	decoded, err := c.get(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}
	return providers.PayloadList(decoded, "games", "events", "items"), nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values) (any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, providers.TransportError(providerName, err)
	}
	if len(params) > 0 {
		req.URL.RawQuery = params.Encode()
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	return providers.DoJSON(c.httpClient, req, providerName)
}

// totalPages reads meta.total_pages; a missing value means a single page.
func totalPages(decoded any) int {
	root, ok := decoded.(map[string]any)
	if !ok {
		return 1
	}
	meta, ok := root["meta"].(map[string]any)
	if !ok {
		return 1
	}
	for _, key := range []string{"total_pages", "totalPages"} {
		if n, ok := meta[key].(float64); ok && n >= 1 {
			return int(n)
		}
	}
	return 1
}
