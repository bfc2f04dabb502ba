package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cockroachdb/errors"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/preston-bernstein/sports-lines-service/internal/app/games"
	domaingames "github.com/preston-bernstein/sports-lines-service/internal/domain/games"
	"github.com/preston-bernstein/sports-lines-service/internal/logging"
	"github.com/preston-bernstein/sports-lines-service/internal/poller"
	"github.com/preston-bernstein/sports-lines-service/internal/providers"
)

// Handler wires HTTP routes to the games service.
type Handler struct {
	svc      *games.Service
	logger   *slog.Logger
	statusFn func() poller.Status
	validate *validator.Validate
}

// GamesResponse is the body of the schedule and live endpoints.
type GamesResponse struct {
	Sport  string             `json:"sport"`
	Period string             `json:"period,omitempty"`
	Count  int                `json:"count"`
	Games  []domaingames.Game `json:"games"`
}

// SlateResponse is the body of the slate endpoint.
type SlateResponse struct {
	Sport string                      `json:"sport"`
	Count int                         `json:"count"`
	Games []domaingames.GameWithLines `json:"games"`
}

type sportRequest struct {
	Sport  string `validate:"required,alphanum,max=16"`
	Period string `validate:"omitempty,max=10,printascii"`
}

type gameRequest struct {
	GameID string `validate:"required,max=96,printascii"`
}

// NewHandler constructs a Handler. statusFn may be nil when no warmer runs.
func NewHandler(svc *games.Service, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		statusFn: statusFn,
		validate: validator.New(),
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports readiness for traffic based on the cache warmer's recent health.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// Schedule serves GET /v1/sports/{sport}/schedule?period=.
func (h *Handler) Schedule(w http.ResponseWriter, r *http.Request) {
	req := sportRequest{Sport: chi.URLParam(r, "sport"), Period: r.URL.Query().Get("period")}
	if !h.valid(w, r, req) {
		return
	}
	list, err := h.svc.Schedule(r.Context(), req.Sport, req.Period)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	logging.Info(loggerFromContext(r, h.logger), "served schedule",
		logging.FieldSport, req.Sport,
		logging.FieldPeriod, req.Period,
		logging.FieldCount, len(list),
	)
	writeJSON(w, http.StatusOK, GamesResponse{Sport: req.Sport, Period: req.Period, Count: len(list), Games: list}, h.logger)
}

// Live serves GET /v1/sports/{sport}/live.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	req := sportRequest{Sport: chi.URLParam(r, "sport")}
	if !h.valid(w, r, req) {
		return
	}
	list, err := h.svc.Live(r.Context(), req.Sport)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, GamesResponse{Sport: req.Sport, Count: len(list), Games: list}, h.logger)
}

// Slate serves GET /v1/sports/{sport}/slate.
func (h *Handler) Slate(w http.ResponseWriter, r *http.Request) {
	req := sportRequest{Sport: chi.URLParam(r, "sport")}
	if !h.valid(w, r, req) {
		return
	}
	slate, err := h.svc.Slate(r.Context(), req.Sport)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, SlateResponse{Sport: req.Sport, Count: len(slate), Games: slate}, h.logger)
}

// Lines serves GET /v1/games/{gameID}/lines.
func (h *Handler) Lines(w http.ResponseWriter, r *http.Request) {
	req := gameRequest{GameID: chi.URLParam(r, "gameID")}
	if !h.valid(w, r, req) {
		return
	}
	lines, err := h.svc.Lines(r.Context(), req.GameID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, lines, h.logger)
}

// NotFound answers unknown routes with the JSON error shape.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "not found", h.logger)
}

// MethodNotAllowed answers known routes hit with the wrong method.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed", h.logger)
}

func (h *Handler) valid(w http.ResponseWriter, r *http.Request, req any) bool {
	if err := h.validate.StructCtx(r.Context(), req); err != nil {
		logging.Warn(loggerFromContext(r, h.logger), "request validation failed", "error", err)
		writeError(w, r, http.StatusBadRequest, "invalid request", h.logger)
		return false
	}
	return true
}

// fail maps resolver errors onto HTTP statuses. Only input problems and
// cancellation can reach here; upstream failures are absorbed by the chain.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := http.StatusInternalServerError, "internal error"
	switch {
	case errors.Is(err, domaingames.ErrInvalidGameID):
		status, msg = http.StatusBadRequest, "invalid game id"
	case errors.Is(err, domaingames.ErrUnknownSport):
		status, msg = http.StatusNotFound, "unknown sport"
	case errors.Is(err, domaingames.ErrInvalidPeriod):
		status, msg = http.StatusBadRequest, "invalid period"
	case errors.Is(err, providers.ErrConfiguration):
		status, msg = http.StatusBadRequest, "invalid request"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status, msg = http.StatusServiceUnavailable, "request cancelled"
	}
	logger := loggerFromContext(r, h.logger)
	if status >= http.StatusInternalServerError {
		logging.Error(logger, "query failed", err, logging.FieldStatusCode, status)
	} else {
		logging.Warn(logger, "query rejected", logging.FieldStatusCode, status, "error", err)
	}
	writeError(w, r, status, msg, h.logger)
}
