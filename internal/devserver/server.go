// Package devserver is a runnable stand-in for the remote backend and payment
// gateway the client talks to: the same HTTP contract, backed by memory.
package devserver

import (
	"context"
	"log"
	"net/http"
	"time"
)

// Server wraps the HTTP server setup.
type Server struct {
	httpServer *http.Server
	logger     *log.Logger
}

// Options tune the stub.
type Options struct {
	JWTSecret      string
	AccessTokenTTL time.Duration
	// PayAfterPolls is how many gateway polls flip a payment to paid.
	PayAfterPolls int
}

// New builds a Server with the full route set.
func New(addr string, logger *log.Logger, opts Options) *Server {
	router := buildRouter(logger, newDeps(opts))

	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return &Server{
		httpServer: httpSrv,
		logger:     logger,
	}
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
