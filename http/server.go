// Package http provides the A2A JSON-RPC server for ndpa agents and an
// HTTP fetcher for retrieving the act's source.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/ndpa"
	"golang.org/x/sync/errgroup"
)

// ShutdownTimeout is the time given for outstanding requests to finish
// before the server is forcibly closed.
const ShutdownTimeout = 10 * time.Second

// Server serves ndpa agents over HTTP.
type Server struct {
	mu     sync.Mutex
	ln     net.Listener
	server *http.Server

	// Addr is the bind address, e.g. ":8080".
	Addr string

	// Agents maps agent ids to agents.
	Agents map[string]ndpa.Agent

	// Metrics, if set, is served at GET /metrics.
	Metrics http.Handler

	// Instrument, if set, wraps the route handler for metrics collection.
	Instrument func(http.Handler) http.Handler

	// RateLimiter, if set, limits requests per client IP.
	RateLimiter *IPRateLimiter

	Logger *slog.Logger
}

// NewServer returns a new Server.
func NewServer() *Server {
	return &Server{
		Agents: make(map[string]ndpa.Agent),
		Logger: slog.Default(),
	}
}

// Handler returns the server's routes wrapped in middleware, outermost first:
// recovery, request id, logging, rate limiting.
func (s *Server) Handler() http.Handler {
	h := NewHandler(s.Agents, s.Logger)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.Healthz)
	mux.HandleFunc("POST /a2a/agent/{agentId}", h.ServeA2A)
	if s.Metrics != nil {
		mux.Handle("GET /metrics", s.Metrics)
	}

	var handler http.Handler = mux
	if s.Instrument != nil {
		handler = s.Instrument(handler)
	}
	if s.RateLimiter != nil {
		handler = s.RateLimiter.Middleware(handler)
	}
	handler = Logging(s.Logger)(handler)
	handler = RequestID(handler)
	handler = Recovery(s.Logger)(handler)
	return handler
}

// Open binds the listener and begins serving in the background.
func (s *Server) Open() error {
	if err := s.listen(); err != nil {
		return err
	}

	go func() {
		if err := s.server.Serve(s.ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.Logger.Error("server stopped", "err", err)
		}
	}()
	return nil
}

func (s *Server) listen() error {
	ln, err := net.Listen("tcp", s.Addr)
	if err != nil {
		return err
	}
	s.server = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	s.mu.Lock()
	s.ln = ln
	s.mu.Unlock()
	return nil
}

// Close gracefully shuts down the server.
func (s *Server) Close() error {
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Run serves until ctx is cancelled or the server fails, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	if err := s.listen(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Logger.Info("server starting", "addr", s.ln.Addr().String())
		if err := s.server.Serve(s.ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		return s.Close()
	})
	return g.Wait()
}

// URL returns the local base URL of the running server.
func (s *Server) URL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ln == nil {
		return ""
	}
	return "http://" + s.ln.Addr().String()
}
