// Package api exposes the scrape-and-upload pipeline over HTTP.
package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/reddrive/reddrive/internal/scrape"
)

// Runner executes one scrape-and-upload run. *scrape.Orchestrator satisfies
// it; tests substitute stubs.
type Runner interface {
	Run(ctx context.Context, req scrape.Request) (*scrape.Summary, error)
}

type Server struct {
	echo   *echo.Echo
	runner Runner
	logger *slog.Logger
}

func NewServer(runner Runner, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))

	server := &Server{echo: e, runner: runner, logger: logger}
	server.setupRoutes()
	return server
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api/v1")
	api.GET("/health", s.handleHealth)
	api.POST("/scrape", s.handleScrape)
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the underlying http.Handler for tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":  "healthy",
		"service": "reddrive",
	})
}
