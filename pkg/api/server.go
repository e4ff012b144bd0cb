// Package api serves the retrieval engine over HTTP: graph-backed context
// retrieval, the vector baseline, side-by-side comparison, and the usual
// operational endpoints (health, stats, metrics).
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/dd0wney/journeygraph/pkg/auth"
	"github.com/dd0wney/journeygraph/pkg/config"
	"github.com/dd0wney/journeygraph/pkg/graph"
	"github.com/dd0wney/journeygraph/pkg/health"
	"github.com/dd0wney/journeygraph/pkg/llm"
	"github.com/dd0wney/journeygraph/pkg/logging"
	"github.com/dd0wney/journeygraph/pkg/metrics"
	"github.com/dd0wney/journeygraph/pkg/naiverag"
)

// tokenDuration bounds issued tokens; validation only cares about exp.
const tokenDuration = 24 * time.Hour

// Server holds the loaded graph, the vector baseline, and the insight
// backend. The graph is frozen before the server starts, so handlers read
// it without locking.
type Server struct {
	cfg     config.Config
	graph   *graph.Graph
	index   *naiverag.Index
	insight llm.Generator
	checker *health.Checker
	metrics *metrics.Registry
	log     logging.Logger
	tokens  auth.TokenValidator
}

// NewServer wires the server together. Auth is optional: with it disabled
// the query endpoints are open, which is the right default for local demos.
func NewServer(cfg config.Config, g *graph.Graph, idx *naiverag.Index, gen llm.Generator,
	checker *health.Checker, reg *metrics.Registry, log logging.Logger) (*Server, error) {
	s := &Server{
		cfg:     cfg,
		graph:   g,
		index:   idx,
		insight: gen,
		checker: checker,
		metrics: reg,
		log:     log.With(logging.Component("api")),
	}

	if cfg.Auth.Enabled {
		manager, err := auth.NewJWTManager(cfg.Auth.JWTSecret, tokenDuration)
		if err != nil {
			return nil, fmt.Errorf("auth setup: %w", err)
		}
		s.tokens = manager
	}

	return s, nil
}

// initialized reports whether the server can answer queries.
func (s *Server) initialized() bool {
	return s.graph != nil && s.graph.Frozen() && s.index != nil
}

// Handler builds the full route table with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/health", s.checker.HTTPHandler())
	mux.Handle("/ready", s.checker.ReadinessHandler())
	mux.Handle("/live", s.checker.LivenessHandler())
	mux.Handle("/metrics", s.metrics.Handler())

	mux.HandleFunc("/stats", s.handleStats)
	mux.HandleFunc("/presets", s.handlePresets)

	mux.Handle("/query/graphrag", s.authMiddleware(http.HandlerFunc(s.handleQueryGraphRAG)))
	mux.Handle("/query/naive", s.authMiddleware(http.HandlerFunc(s.handleQueryNaive)))
	mux.Handle("/query/compare", s.authMiddleware(http.HandlerFunc(s.handleQueryCompare)))

	var handler http.Handler = mux
	handler = s.corsMiddleware(handler)
	handler = s.loggingMiddleware(handler)
	handler = s.requestIDMiddleware(handler)
	handler = s.panicRecoveryMiddleware(handler)
	return handler
}

// Start runs the HTTP server until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	server := &http.Server{
		Addr:         s.cfg.Addr(),
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.Server.ReadTimeout,
		WriteTimeout: s.cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("server listening",
			logging.String("addr", server.Addr),
			logging.Bool("auth_enabled", s.tokens != nil),
			logging.Bool("insight_enabled", s.insight.Enabled()))
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.log.Info("server shutting down")
		return server.Shutdown(shutdownCtx)
	}
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error("encoding response", logging.Error(err))
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: message,
		Code:    status,
	})
}
