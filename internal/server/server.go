package server

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/sports-lines-service/internal/app/games"
	"github.com/preston-bernstein/sports-lines-service/internal/cache"
	"github.com/preston-bernstein/sports-lines-service/internal/config"
	httpserver "github.com/preston-bernstein/sports-lines-service/internal/http"
	"github.com/preston-bernstein/sports-lines-service/internal/http/handlers"
	"github.com/preston-bernstein/sports-lines-service/internal/logging"
	"github.com/preston-bernstein/sports-lines-service/internal/metrics"
	"github.com/preston-bernstein/sports-lines-service/internal/poller"
	"github.com/preston-bernstein/sports-lines-service/internal/providers"
	"github.com/preston-bernstein/sports-lines-service/internal/resolver"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg           config.Config
	logger        *slog.Logger
	metrics       *metrics.Recorder
	chain         *Chain
	gamesService  *games.Service
	httpServer    httpServer
	metricsServer httpServer
	warmer        Warmer
	metricsStop   func(context.Context) error
}

// upstreams lets tests replace the configured providers.
type upstreams struct {
	primary   providers.Provider
	secondary providers.Provider
}

// New constructs a server with providers, snapshots and warmer built from cfg.
func New(cfg config.Config, logger *slog.Logger) *Server {
	return newServer(cfg, logger, nil, nil)
}

func newServer(cfg config.Config, logger *slog.Logger, src *upstreams, recorder *metrics.Recorder) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	var chain *Chain
	if src == nil {
		chain = BuildChain(cfg, logger, recorder)
	} else {
		chain = buildChain(cfg, logger, recorder, src)
	}
	svc := games.NewService(chain.Resolver)

	var warmer Warmer
	if cfg.Warmer.Enabled {
		warmer = poller.New(chain.Resolver, cfg.Warmer.Sports, logger, recorder, cfg.Warmer.Interval, cfg.Warmer.Workers)
	}

	srv := &Server{
		cfg:           cfg,
		logger:        logger,
		metrics:       recorder,
		chain:         chain,
		gamesService:  svc,
		metricsServer: metricsSrv,
		warmer:        warmer,
		metricsStop:   metricsShutdown,
	}
	srv.httpServer = buildHTTPServer(cfg, svc, chain.Cache, logger, recorder, warmer)
	return srv
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, gameSvc *games.Service, httpSrv httpServer, w Warmer) *Server {
	return &Server{
		cfg:          cfg,
		logger:       logger,
		gamesService: gameSvc,
		httpServer:   httpSrv,
		warmer:       w,
	}
}

func buildHTTPServer(cfg config.Config, svc *games.Service, memCache *cache.Manager, logger *slog.Logger, recorder *metrics.Recorder, w Warmer) httpServer {
	var statusFn func() poller.Status
	if w != nil {
		statusFn = w.Status
	}

	handler := handlers.NewHandler(svc, logger, statusFn)
	router := httpserver.NewRouter(handler, httpserver.RouterOptions{
		Admin:       handlers.NewAdminHandler(memCache, cfg.AdminToken, logger),
		Logger:      logger,
		Recorder:    recorder,
		CORSOrigins: cfg.CORSOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadTimeout:       readTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
	}

	return netHTTPServer{srv: srv}
}

// Run starts the warmer and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	if s.warmer != nil {
		s.warmer.Start(ctx)
	}

	<-ctx.Done()
	if s.logger != nil {
		s.logger.Info("shutdown signal received")
	}

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	if s.logger != nil {
		s.logger.Info("http server starting", slog.String("addr", s.httpServer.Addr()))
	}
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	if s.logger != nil {
		s.logger.Info("metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	}
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.warmer != nil {
		if err := s.warmer.Stop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Error("failed to stop cache warmer", "error", err)
		}
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
		s.logger.Error("graceful shutdown failed", "error", err)
	}

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil && s.logger != nil {
			s.logger.Warn("metrics server shutdown failed", "error", err)
		}
	}

	if err := s.chain.Close(); err != nil && s.logger != nil {
		s.logger.Warn("failed to close snapshot store", "error", err)
	}

	if s.logger != nil {
		s.logger.Info("shutdown complete")
	}
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		if logger != nil {
			logger.Warn("metrics setup failed, continuing without telemetry", "err", err)
		}
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readHeaderTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		if logger != nil {
			logger.Info("starting "+name+" server", slog.String("addr", srv.Addr()))
		}
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if logger != nil {
				logger.Warn(name+" server failed", "error", err)
			}
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

// Resolver exposes the source chain (useful for tests).
func (s *Server) Resolver() *resolver.Resolver {
	if s.chain == nil {
		return nil
	}
	return s.chain.Resolver
}
