// Package server is the HTTP shell around the mapping pipeline.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"visual-mapper/internal/cache"
	"visual-mapper/internal/common/config"
	"visual-mapper/internal/common/logger"
	"visual-mapper/internal/common/observability"
	"visual-mapper/internal/mapping/pipeline"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Mapper is what the handlers need from pipeline.Mapper.
type Mapper interface {
	cache.Mapper
	Config() pipeline.Config
	Templates() []string
}

// Deps are the collaborators of a Server. Cache and Observability may be nil.
type Deps struct {
	Config        *config.Config
	Mapper        Mapper
	Cache         *cache.Cache
	Observability *observability.Observability
	Logger        logger.Logger
}

type Server struct {
	cfg    *config.Config
	mapper Mapper
	cache  *cache.Cache
	obs    *observability.Observability
	logger logger.Logger
	router *gin.Engine
}

// New builds the router.
func New(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = logger.NewNoOpLogger()
	}
	if deps.Config == nil {
		deps.Config = config.Default()
	}
	if deps.Config.Server.Mode != "" {
		gin.SetMode(deps.Config.Server.Mode)
	}

	s := &Server{
		cfg:    deps.Config,
		mapper: deps.Mapper,
		cache:  deps.Cache,
		obs:    deps.Observability,
		logger: deps.Logger.WithFields(map[string]interface{}{"component": "http"}),
		router: gin.New(),
	}
	s.router.Use(gin.Recovery(), RequestID(), RequestLogger(s.logger))
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.router.GET("/", s.index)
	s.router.GET("/healthz", s.healthz)
	s.router.GET("/ready", s.ready)
	s.router.GET(s.cfg.Server.MetricsPath, gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/v1")
	v1.POST("/map", s.mapEntities)
	v1.GET("/components", s.components)
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Server.Addr(),
		Handler:      s.router,
		ReadTimeout:  config.GetDuration(s.cfg.Server.ReadTimeout),
		WriteTimeout: config.GetDuration(s.cfg.Server.WriteTimeout),
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", map[string]interface{}{"addr": srv.Addr})
		if err := srv.ListenAndServe(); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server", nil)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), config.GetDuration(s.cfg.Server.ShutdownTimeout))
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) requestTimeout() time.Duration {
	if s.cfg.Server.RequestTimeout <= 0 {
		return 5 * time.Second
	}
	return config.GetDuration(s.cfg.Server.RequestTimeout)
}
