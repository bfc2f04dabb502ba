package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/preston-bernstein/sports-lines-service/internal/http/handlers"
	"github.com/preston-bernstein/sports-lines-service/internal/http/middleware"
	"github.com/preston-bernstein/sports-lines-service/internal/metrics"
)

// RouterOptions carries the cross-cutting pieces the router wraps around handlers.
type RouterOptions struct {
	Admin       *handlers.AdminHandler
	Logger      *slog.Logger
	Recorder    *metrics.Recorder
	CORSOrigins []string
}

// NewRouter registers the public and admin routes.
func NewRouter(handler *handlers.Handler, opts RouterOptions) nethttp.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging(opts.Logger, opts.Recorder))
	r.Use(chimiddleware.Recoverer)
	if len(opts.CORSOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", middleware.HeaderRequestID},
			ExposedHeaders: []string{middleware.HeaderRequestID},
			MaxAge:         300,
		}))
	}

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

	r.Get("/health", handler.Health)
	r.Get("/ready", handler.Ready)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/sports/{sport}/schedule", handler.Schedule)
		r.Get("/sports/{sport}/live", handler.Live)
		r.Get("/sports/{sport}/slate", handler.Slate)
		r.Get("/games/{gameID}/lines", handler.Lines)
	})

	if opts.Admin != nil {
		r.Route("/admin", func(r chi.Router) {
			r.Use(opts.Admin.RequireToken)
			r.Post("/cache/invalidate", opts.Admin.InvalidateCache)
			r.Post("/cache/clear", opts.Admin.ClearCache)
		})
	}

	return r
}
