package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/classtrack/classrooms/v1/metrics"
)

// Server is the HTTP API server.
type Server struct {
	Echo *echo.Echo
	cfg  Config
	log  *zap.Logger
}

// NewServer assembles the Echo instance, middleware, and routes.
func NewServer(cfg Config, log *zap.Logger, m *metrics.Metrics, grades *GradesHandler, sections *SectionsHandler) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = newRequestValidator()
	e.HTTPErrorHandler = errorHandler(log)

	e.Use(middleware.Recover())
	e.Use(requestLogger(log))
	if m != nil {
		e.Use(requestMetrics(m))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	api := e.Group("/api/v1")
	grades.register(api)
	sections.register(api)

	return &Server{Echo: e, cfg: cfg, log: log}
}

// Start begins serving on the configured address. Blocks until shutdown.
func (s *Server) Start() error {
	s.log.Info("starting HTTP server", zap.String("address", s.cfg.Address))
	return s.Echo.Start(s.cfg.Address)
}

// errorHandler renders every error as a problem document.
func errorHandler(log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		problem := problemFromError(err)
		problem.Instance = c.Request().URL.Path
		problem.Timestamp = time.Now().UTC().Format(time.RFC3339)
		if problem.Status >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Path()),
				zap.Error(err))
		}
		if writeErr := c.JSON(problem.Status, problem); writeErr != nil {
			log.Error("failed to write error response", zap.Error(writeErr))
		}
	}
}

// requestLogger emits one structured log line per request.
func requestLogger(log *zap.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			log.Info("request handled",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Duration("duration", time.Since(start)))
			return nil
		}
	}
}

// requestMetrics records the request counter and latency histogram. The
// route template is used as the path label to keep cardinality bounded.
func requestMetrics(m *metrics.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			method := c.Request().Method
			path := c.Path()
			m.IncrementHTTPRequests(method, path, strconv.Itoa(c.Response().Status))
			m.RecordHTTPRequestDuration(start, method, path)
			return nil
		}
	}
}
