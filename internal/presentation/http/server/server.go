// Package server runs the API's HTTP listener.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"

	"github.com/AtRiskMedia/fanhub-go/internal/application/container"
	"github.com/AtRiskMedia/fanhub-go/internal/presentation/http/routes"
	"github.com/AtRiskMedia/fanhub-go/pkg/config"
)

// Server owns the http.Server and the listener it is bound to.
type Server struct {
	httpServer *http.Server
	container  *container.Container

	mu       sync.Mutex
	listener net.Listener
}

// New builds the router for the container and configures timeouts. Request
// contexts derive from baseCtx.
func New(baseCtx context.Context, port string, container *container.Container) *Server {
	return &Server{
		container: container,
		httpServer: &http.Server{
			Addr:              ":" + port,
			Handler:           routes.SetupRoutes(container),
			ReadTimeout:       config.ServerReadTimeout,
			ReadHeaderTimeout: config.ServerReadTimeout,
			WriteTimeout:      config.ServerWriteTimeout,
			IdleTimeout:       config.ServerIdleTimeout,
			MaxHeaderBytes:    1 << 20,
			BaseContext:       func(net.Listener) context.Context { return baseCtx },
		},
	}
}

// Start binds the listener and serves until Stop. A clean shutdown returns nil.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()

	s.container.Logger.System().Info("HTTP server listening",
		"address", ln.Addr().String(),
		"database", s.container.DB.ConnectionInfo())

	if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}
	return nil
}

// Addr reports the bound address, or the configured one before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.httpServer.Addr
}

// Stop drains connections until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	s.container.Logger.Shutdown().Info("Shutting down HTTP server", "address", s.Addr())
	return s.httpServer.Shutdown(ctx)
}
