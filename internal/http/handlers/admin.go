package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/preston-bernstein/sports-lines-service/internal/http/requestutil"
	"github.com/preston-bernstein/sports-lines-service/internal/logging"
)

// CacheAdmin is the operational surface of the memory cache.
type CacheAdmin interface {
	Invalidate(key string) bool
	Clear() int
}

// AdminHandler exposes admin-only cache endpoints.
type AdminHandler struct {
	cache    CacheAdmin
	token    string
	logger   *slog.Logger
	validate *validator.Validate
}

type invalidateRequest struct {
	Key string `validate:"required,max=256,printascii"`
}

// NewAdminHandler returns nil when no token is configured, which keeps the admin routes unmounted.
func NewAdminHandler(cache CacheAdmin, token string, logger *slog.Logger) *AdminHandler {
	if token == "" || cache == nil {
		return nil
	}
	return &AdminHandler{
		cache:    cache,
		token:    token,
		logger:   logger,
		validate: validator.New(),
	}
}

// RequireToken rejects requests without the admin bearer token.
func (h *AdminHandler) RequireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !h.authorize(r) {
			logging.Warn(h.logger, "admin unauthorized",
				slog.String(logging.FieldPath, r.URL.Path),
				slog.String("client_ip", requestutil.ClientIP(r)),
			)
			writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// InvalidateCache drops one cache entry: POST /admin/cache/invalidate?key=.
func (h *AdminHandler) InvalidateCache(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	req := invalidateRequest{Key: r.URL.Query().Get("key")}
	if err := h.validate.StructCtx(r.Context(), req); err != nil {
		logging.Warn(logger, "admin invalidate rejected", "error", err)
		writeError(w, r, http.StatusBadRequest, "key is required", logger)
		return
	}

	removed := h.cache.Invalidate(req.Key)
	logging.Info(logger, "admin cache invalidate",
		slog.String(logging.FieldCacheKey, req.Key),
		slog.Bool("removed", removed),
	)
	writeJSON(w, http.StatusOK, map[string]any{"key": req.Key, "removed": removed}, logger)
}

// ClearCache drops every cache entry: POST /admin/cache/clear.
func (h *AdminHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	cleared := h.cache.Clear()
	logging.Info(logger, "admin cache clear", slog.Int(logging.FieldCount, cleared))
	writeJSON(w, http.StatusOK, map[string]any{"cleared": cleared}, logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	got := requestutil.BearerToken(r)
	if h.token == "" || got == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(got), []byte(h.token)) == 1
}
