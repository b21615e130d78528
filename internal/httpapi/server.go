// Package httpapi exposes the entry store and report over HTTP for
// `mindmetrics serve`.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/mindmetrics/internal/analysis"
	"github.com/fyrsmithlabs/mindmetrics/internal/entry"
	"github.com/fyrsmithlabs/mindmetrics/internal/insight"
	"github.com/fyrsmithlabs/mindmetrics/internal/store"
)

// Config holds HTTP server configuration.
type Config struct {
	Host string
	Port int
}

// Server serves the single-user HTTP API. Reports are cached until the
// store changes; each analysis run still operates on its own snapshot.
type Server struct {
	echo     *echo.Echo
	store    store.Store
	pipeline *analysis.Pipeline
	logger   *zap.Logger
	config   Config
	metrics  *Metrics

	mu     sync.Mutex
	cached *insight.Report
}

// NewServer creates the HTTP server around a store and analysis pipeline.
func NewServer(st store.Store, pipeline *analysis.Pipeline, logger *zap.Logger, cfg Config) (*Server, error) {
	if st == nil {
		return nil, errors.New("store is required")
	}
	if pipeline == nil {
		return nil, errors.New("pipeline is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	s := &Server{
		echo:     e,
		store:    st,
		pipeline: pipeline,
		logger:   logger,
		config:   cfg,
		metrics:  NewMetrics(),
	}

	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			duration := time.Since(start)

			s.metrics.ObserveRequest(c.Request().Method, c.Path(), c.Response().Status, duration)
			logger.Info("http request",
				zap.String("method", c.Request().Method),
				zap.String("uri", c.Request().RequestURI),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", duration),
				zap.String("request_id", c.Response().Header().Get(echo.HeaderXRequestID)),
			)
			return err
		}
	})

	s.registerRoutes()
	return s, nil
}

func (s *Server) registerRoutes() {
	s.echo.GET("/health", s.handleHealth)
	s.echo.GET("/metrics", echo.WrapHandler(s.metrics.Handler()))

	v1 := s.echo.Group("/api/v1")
	v1.GET("/report", s.handleReport)
	v1.GET("/entries", s.handleListEntries)
	v1.GET("/entries/:date", s.handleGetEntry)
	v1.POST("/entries", s.handleCreateEntry)
}

// Start runs the server until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	errCh := make(chan error, 1)
	go func() {
		if err := s.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.logger.Info("http server started", zap.String("addr", addr))

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.echo.Shutdown(shutdownCtx)
	}
}

// InvalidateReport drops the cached report; the next request recomputes it.
func (s *Server) InvalidateReport() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status string `json:"status"`
}

func (s *Server) handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

func (s *Server) handleReport(c echo.Context) error {
	s.mu.Lock()
	cached := s.cached
	s.mu.Unlock()
	if cached != nil {
		return c.JSON(http.StatusOK, cached)
	}

	entries, err := s.store.List()
	if err != nil {
		s.logger.Error("failed to list entries", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load entries")
	}

	report := s.pipeline.Run(entries)
	s.metrics.ObserveAnalysis(report)

	s.mu.Lock()
	s.cached = report
	s.mu.Unlock()
	return c.JSON(http.StatusOK, report)
}

func (s *Server) handleListEntries(c echo.Context) error {
	entries, err := s.store.List()
	if err != nil {
		s.logger.Error("failed to list entries", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load entries")
	}
	if tag := c.QueryParam("tag"); tag != "" {
		filtered := make([]entry.Entry, 0, len(entries))
		for _, e := range entries {
			if e.HasTag(tag) {
				filtered = append(filtered, e)
			}
		}
		entries = filtered
	}
	if entries == nil {
		entries = []entry.Entry{}
	}
	return c.JSON(http.StatusOK, entries)
}

func (s *Server) handleGetEntry(c echo.Context) error {
	date, err := time.ParseInLocation("2006-01-02", c.Param("date"), time.UTC)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("bad date %q: want YYYY-MM-DD", c.Param("date")))
	}

	e, err := s.store.Get(date)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, err.Error())
		}
		s.logger.Error("failed to load entry", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to load entry")
	}
	return c.JSON(http.StatusOK, e)
}

// CreateEntryRequest is the POST /api/v1/entries payload.
type CreateEntryRequest struct {
	Date    string   `json:"date"`
	Score   int      `json:"score"`
	Tags    []string `json:"tags,omitempty"`
	Journal string   `json:"journal,omitempty"`
}

func (s *Server) handleCreateEntry(c echo.Context) error {
	var req CreateEntryRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "malformed request body")
	}

	date, err := time.ParseInLocation("2006-01-02", req.Date, time.UTC)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("bad date %q: want YYYY-MM-DD", req.Date))
	}
	e, err := entry.New(date, req.Score, req.Tags, req.Journal)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := s.store.Append(e); err != nil {
		if errors.Is(err, store.ErrDuplicateDate) {
			return echo.NewHTTPError(http.StatusConflict, err.Error())
		}
		s.logger.Error("failed to append entry", zap.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to store entry")
	}

	s.InvalidateReport()
	return c.JSON(http.StatusCreated, e)
}
