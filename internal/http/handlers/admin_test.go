package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/sports-lines-service/internal/testutil"
)

type stubCache struct {
	entries     map[string]bool
	invalidated []string
}

func (s *stubCache) Invalidate(key string) bool {
	s.invalidated = append(s.invalidated, key)
	ok := s.entries[key]
	delete(s.entries, key)
	return ok
}

func (s *stubCache) Clear() int {
	n := len(s.entries)
	s.entries = map[string]bool{}
	return n
}

func adminRoutes(h *AdminHandler) http.Handler {
	r := chi.NewRouter()
	r.Route("/admin", func(r chi.Router) {
		r.Use(h.RequireToken)
		r.Post("/cache/invalidate", h.InvalidateCache)
		r.Post("/cache/clear", h.ClearCache)
	})
	return r
}

func TestNewAdminHandlerRequiresToken(t *testing.T) {
	if NewAdminHandler(&stubCache{}, "", nil) != nil {
		t.Fatalf("expected nil admin handler without token")
	}
	if NewAdminHandler(nil, "secret", nil) != nil {
		t.Fatalf("expected nil admin handler without cache")
	}
}

func TestAdminRequiresAuth(t *testing.T) {
	cache := &stubCache{entries: map[string]bool{"k": true}}
	h := NewAdminHandler(cache, "secret", nil)

	for _, header := range []string{"", "Bearer wrong", "secret"} {
		req := httptest.NewRequest(http.MethodPost, "/admin/cache/clear", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rr := testutil.ServeRequest(adminRoutes(h), req)
		testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	}
	if len(cache.entries) != 1 {
		t.Fatalf("expected cache untouched by unauthorized calls")
	}
}

func TestAdminInvalidate(t *testing.T) {
	cache := &stubCache{entries: map[string]bool{"nfl|schedule|period=": true}}
	h := NewAdminHandler(cache, "secret", nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/cache/invalidate?key=nfl%7Cschedule%7Cperiod%3D", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr := testutil.ServeRequest(adminRoutes(h), req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]any
	testutil.DecodeJSON(t, rr, &resp)
	if resp["removed"] != true || resp["key"] != "nfl|schedule|period=" {
		t.Fatalf("unexpected invalidate response %+v", resp)
	}
}

func TestAdminInvalidateRequiresKey(t *testing.T) {
	h := NewAdminHandler(&stubCache{}, "secret", nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/cache/invalidate", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr := testutil.ServeRequest(adminRoutes(h), req)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestAdminClear(t *testing.T) {
	cache := &stubCache{entries: map[string]bool{"a": true, "b": true}}
	h := NewAdminHandler(cache, "secret", nil)

	req := httptest.NewRequest(http.MethodPost, "/admin/cache/clear", nil)
	req.Header.Set("Authorization", "Bearer secret")
	rr := testutil.ServeRequest(adminRoutes(h), req)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]int
	testutil.DecodeJSON(t, rr, &resp)
	if resp["cleared"] != 2 {
		t.Fatalf("expected 2 entries cleared, got %+v", resp)
	}
}
