package network

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/charmbracelet/log"

	"github.com/lixenwraith/siege/core"
	"github.com/lixenwraith/siege/parameter"
)

// Server runs the router on a listener until shutdown
type Server struct {
	http *http.Server
	hub  *Hub
	log  *log.Logger
}

// NewServer binds a router to addr; Hub may be nil
func NewServer(addr string, router http.Handler, hub *Hub, logger *log.Logger) *Server {
	return &Server{
		http: &http.Server{Addr: addr, Handler: router},
		hub:  hub,
		log:  logger,
	}
}

// Start listens and serves in a crash-handled goroutine
// Returns the bound address, useful when addr asked for port 0
func (s *Server) Start() (net.Addr, error) {
	ln, err := net.Listen("tcp", s.http.Addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", s.http.Addr, err)
	}
	core.Go(func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error("status server", "err", err)
		}
	})
	s.log.Info("status server listening", "addr", ln.Addr().String())
	return ln.Addr(), nil
}

// Shutdown drains requests and disconnects stream clients
func (s *Server) Shutdown(ctx context.Context) error {
	if s.hub != nil {
		s.hub.Close()
	}
	ctx, cancel := context.WithTimeout(ctx, parameter.ShutdownTimeout)
	defer cancel()
	return s.http.Shutdown(ctx)
}
