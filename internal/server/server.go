// Package server provides the HTTP API for ArchiveIQ.
package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/deanlockgaard/ArchiveIQ/internal/auth"
	"github.com/deanlockgaard/ArchiveIQ/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

// Config holds HTTP server configuration.
type Config struct {
	Host           string
	Port           int
	MaxUploadBytes int64
}

// Server exposes the ingestion and search pipelines over HTTP.
type Server struct {
	echo     *echo.Echo
	ingester domain.Ingester
	searcher domain.Searcher
	creds    *auth.CredentialStore
	tokens   *auth.TokenService
	logger   *zap.Logger
	config   Config
}

type renderer struct {
	templates *template.Template
}

func (r *renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	return r.templates.ExecuteTemplate(w, name, data)
}

// New creates the HTTP server and registers all routes.
func New(ingester domain.Ingester, searcher domain.Searcher, verifier domain.Verifier, creds *auth.CredentialStore, tokens *auth.TokenService, logger *zap.Logger, cfg Config) (*Server, error) {
	if ingester == nil {
		return nil, errors.New("ingester is required")
	}
	if searcher == nil {
		return nil, errors.New("searcher is required")
	}
	if verifier == nil {
		return nil, errors.New("verifier is required")
	}
	if creds == nil {
		return nil, errors.New("credential store is required")
	}
	if tokens == nil {
		return nil, errors.New("token service is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Renderer = &renderer{
		templates: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)

			return err
		}
	})

	s := &Server{
		echo:     e,
		ingester: ingester,
		searcher: searcher,
		creds:    creds,
		tokens:   tokens,
		logger:   logger,
		config:   cfg,
	}

	e.GET("/", s.handleIndex)
	e.GET("/health", s.handleHealth)
	e.POST("/login", s.handleLogin)

	protected := e.Group("", auth.Middleware(verifier))
	protected.POST("/upload", s.handleUpload)
	protected.POST("/search", s.handleSearch)
	protected.POST("/api/search", s.handleAPISearch)

	return s, nil
}

// Handler returns the underlying HTTP handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", zap.String("addr", addr))
	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
