package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"time"

	"stockdash/config"
	"stockdash/internal/dashboard"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

// Ingestor is the ingestion surface used by POST /stocks.
type Ingestor interface {
	Validate(ctx context.Context, symbol string) error
	Schedule(symbol string) error
}

// Dashboard builds the GET / view model.
type Dashboard interface {
	Page(ctx context.Context, q url.Values) (*dashboard.Page, error)
}

type HealthChecker interface {
	IsHealthy(ctx context.Context) bool
}

type Server struct {
	cfg       config.ServerConfig
	logger    *zap.Logger
	engine    *gin.Engine
	ingest    Ingestor
	dashboard Dashboard
	store     HealthChecker
}

func New(cfg config.ServerConfig, logger *zap.Logger, ingest Ingestor, dash Dashboard, store HealthChecker) (*Server, error) {
	if cfg.Mode != "" {
		gin.SetMode(cfg.Mode)
	}

	tmpl, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	engine := gin.New()
	engine.Use(RequestID(), AccessLog(logger), Recovery(logger))
	engine.SetHTMLTemplate(tmpl)

	s := &Server{
		cfg:       cfg,
		logger:    logger,
		engine:    engine,
		ingest:    ingest,
		dashboard: dash,
		store:     store,
	}
	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	s.engine.GET("/", s.home)
	s.engine.POST("/stocks", s.createStock)
	s.engine.GET("/stocks/:stock_id", s.readStock)
	s.engine.GET("/health", s.health)
}

// Handler exposes the gin engine, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

var templateFuncs = template.FuncMap{
	"num": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}
