// Package server exposes transcript extraction over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Veraticus/formsiq/internal/common"
	"github.com/Veraticus/formsiq/internal/extraction"
	"github.com/Veraticus/formsiq/internal/model"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Extractor produces scored fields for a transcript.
type Extractor interface {
	Extract(ctx context.Context, transcript string) []model.ExtractedField
}

// Server provides the HTTP endpoints for field extraction.
type Server struct {
	echo      *echo.Echo
	extractor Extractor
	logger    *slog.Logger
	config    *Config
	metrics   *httpMetrics
}

// Config holds HTTP server configuration.
type Config struct {
	// Registry, when set, receives the HTTP metrics and is served on /metrics.
	Registry     *prometheus.Registry
	Host         string
	AllowOrigins []string
	Port         int
	MaxBodyBytes int64
}

const defaultMaxBodyBytes = 1 << 20

// NewServer creates a new HTTP server. A nil logger uses slog.Default and a
// nil cfg listens on localhost:8000.
func NewServer(extractor Extractor, logger *slog.Logger, cfg *Config) (*Server, error) {
	if extractor == nil {
		return nil, fmt.Errorf("extractor cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = &Config{
			Host: "localhost",
			Port: 8000,
		}
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = defaultMaxBodyBytes
	}
	if len(cfg.AllowOrigins) == 0 {
		cfg.AllowOrigins = []string{"*"}
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	s := &Server{
		echo:      e,
		extractor: extractor,
		logger:    logger,
		config:    cfg,
	}
	if cfg.Registry != nil {
		s.metrics = newHTTPMetrics(cfg.Registry)
	}

	e.HTTPErrorHandler = s.handleError

	// Middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept},
	}))
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dB", cfg.MaxBodyBytes)))
	e.Use(s.logRequests)

	s.registerRoutes()

	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.POST("/extract-fields", s.handleExtract)

	if s.config.Registry != nil {
		s.echo.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(s.config.Registry, promhttp.HandlerOpts{})))
	}
}

// logRequests logs every request once it has been served.
func (s *Server) logRequests(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		if err != nil {
			// Resolve the status before logging it.
			c.Error(err)
		}
		duration := time.Since(start)

		s.logger.Info("http request",
			"method", c.Request().Method,
			"uri", c.Request().RequestURI,
			"status", c.Response().Status,
			"duration", duration,
			"request_id", c.Response().Header().Get(echo.HeaderXRequestID))
		s.metrics.observe(c.Request().Method, c.Path(), c.Response().Status, duration)

		return nil
	}
}

// ExtractRequest is the request body for POST /extract-fields.
type ExtractRequest struct {
	Transcript *string `json:"transcript"`
}

// ExtractResponse is the response body for POST /extract-fields.
type ExtractResponse struct {
	Fields []model.ExtractedField `json:"fields"`
}

// HealthResponse is the response body for GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleExtract(c echo.Context) error {
	var req ExtractRequest
	if err := c.Bind(&req); err != nil {
		// Oversized and non-JSON bodies keep their status.
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) && httpErr.Code != http.StatusBadRequest {
			return httpErr
		}
		s.logger.Warn("invalid extract request", "error", err)
		return fmt.Errorf("%w: request body must be a JSON object with a string transcript", common.ErrInvalidInput)
	}

	if req.Transcript == nil {
		return fmt.Errorf("%w: transcript field is required", common.ErrInvalidInput)
	}
	if err := extraction.ValidateTranscript(*req.Transcript); err != nil {
		return err
	}

	fields := s.extractor.Extract(c.Request().Context(), *req.Transcript)

	return c.JSON(http.StatusOK, ExtractResponse{Fields: fields})
}

// handleError renders every error as {"error": message}.
func (s *Server) handleError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var httpErr *echo.HTTPError
	switch {
	case errors.As(err, &httpErr):
		code = httpErr.Code
		message = fmt.Sprint(httpErr.Message)
	case errors.Is(err, common.ErrInvalidInput):
		code = http.StatusBadRequest
		message = err.Error()
	default:
		s.logger.Error("request failed", "error", err)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, ErrorResponse{Error: message})
	}
	if err != nil {
		s.logger.Error("failed to write error response", "error", err)
	}
}

// Handler returns the server as an http.Handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start starts the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.logger.Info("starting http server", "addr", addr)
	if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.echo.Shutdown(ctx)
}
