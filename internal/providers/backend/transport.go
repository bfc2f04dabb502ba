package backend

import (
	"net/http"
	"strings"

	"github.com/preston-bernstein/sports-lines-service/internal/providers"
)

func resolveHTTPClient(client *http.Client) providers.HTTPDoer {
	if client != nil {
		return client
	}
	return &http.Client{Timeout: defaultHTTPTimeout}
}

func normalizeBaseURL(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), "/")
}

func resolveMaxPages(max int) int {
	if max <= 0 {
		return defaultMaxPages
	}
	return max
}
