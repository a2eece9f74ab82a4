// Package api exposes the analysis engine over HTTP.
//
// Routes:
//
//	POST /v1/analyze — run one analysis; see [analyzeRequest].
//	GET  /healthz    — liveness probe.
//	GET  /readyz     — readiness probe.
//	GET  /metrics    — Prometheus scrape endpoint.
//
// The engine itself is pure and lock-free, so concurrent requests share one
// [analysis.Analyzer] with no synchronisation.
package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/readcoach-ai/readcoach/internal/analysis"
	"github.com/readcoach-ai/readcoach/internal/health"
	"github.com/readcoach-ai/readcoach/internal/observe"
)

// shutdownTimeout bounds graceful shutdown once the run context is done.
const shutdownTimeout = 10 * time.Second

// Server wires the analyzer, health checks, and metrics into a gin router.
type Server struct {
	addr     string
	analyzer *analysis.Analyzer
	metrics  *observe.Metrics
	router   *gin.Engine
}

// New builds a [Server] listening on addr. metrics may not be nil; pass
// [observe.Default] when no custom meter provider is needed.
func New(addr string, analyzer *analysis.Analyzer, metrics *observe.Metrics) *Server {
	s := &Server{
		addr:     addr,
		analyzer: analyzer,
		metrics:  metrics,
	}

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.POST("/v1/analyze", s.handleAnalyze)

	hh := health.New(health.Checker{
		Name: "engine",
		// The engine is in-process and stateless; readiness only confirms
		// it was wired at startup.
		Check: func(context.Context) error {
			if s.analyzer == nil {
				return errors.New("analyzer not configured")
			}
			return nil
		},
	})
	router.GET("/healthz", gin.WrapF(hh.Healthz))
	router.GET("/readyz", gin.WrapF(hh.Readyz))
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router = router
	return s
}

// Handler returns the underlying HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.addr,
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	slog.Info("http server listening", "addr", s.addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// requestLogger logs request completion with status and latency.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		slog.Info("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		)
	}
}
