// Package server exposes the gathered gauges over HTTP in the Prometheus
// text exposition format.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const landingPage = `<html>
<head><title>SoftEther Exporter</title></head>
<body>
<h1>SoftEther Exporter</h1>
<p><a href="/metrics">Metrics</a></p>
</body>
</html>`

// Refresher runs one collection cycle before a scrape is answered.
type Refresher interface {
	Refresh(ctx context.Context)
}

// Server is the exporter's HTTP front end. A request to /metrics triggers
// a refresh cycle (unless refresh runs in the background) and answers with
// the encoded gauge set; every other path gets a landing page.
type Server struct {
	httpServer *http.Server
	mux        *http.ServeMux
	refresher  Refresher
	metrics    http.Handler
	logger     *zap.Logger

	sleep           time.Duration
	refreshOnScrape bool
}

// Option configures a Server.
type Option func(*Server)

// WithPacing delays each response by d before the handler returns. It is a
// throttling knob, not part of the scrape contract; 0 disables it.
func WithPacing(d time.Duration) Option {
	return func(s *Server) { s.sleep = d }
}

// WithBackgroundRefresh disables the synchronous refresh on scrape; a
// background loop is expected to keep the registry current instead.
func WithBackgroundRefresh() Option {
	return func(s *Server) { s.refreshOnScrape = false }
}

// New creates a Server listening on addr, serving gauges from gatherer.
func New(addr string, refresher Refresher, gatherer prometheus.Gatherer, logger *zap.Logger, opts ...Option) *Server {
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 2 * time.Minute,
			IdleTimeout:  60 * time.Second,
		},
		mux:       mux,
		refresher: refresher,
		metrics: promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{
			ErrorLog:      zap.NewStdLog(logger),
			ErrorHandling: promhttp.HTTPErrorOnError,
		}),
		logger:          logger,
		refreshOnScrape: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	mux.HandleFunc("/metrics", s.handleMetrics)
	mux.HandleFunc("/", s.handleLanding)

	return s
}

// Start begins serving HTTP requests and blocks until shutdown.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("HTTP server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// Handler exposes the routing mux, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	if s.refreshOnScrape {
		s.refresher.Refresh(r.Context())
	}
	s.metrics.ServeHTTP(w, r)
	s.pace()
}

// handleLanding answers every path other than /metrics with a static page.
// There is deliberately no 404: anything probing an unknown path gets a
// pointer to the metrics path instead.
func (s *Server) handleLanding(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, landingPage)
	s.pace()
}

func (s *Server) pace() {
	if s.sleep > 0 {
		time.Sleep(s.sleep)
	}
}
