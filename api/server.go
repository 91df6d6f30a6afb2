package api

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// ServerState tracks the bridge server lifecycle:
// Stopped -> Starting -> Running -> Stopped.
type ServerState string

const (
	ServerStopped  ServerState = "stopped"
	ServerStarting ServerState = "starting"
	ServerRunning  ServerState = "running"
)

var ErrAlreadyRunning = errors.New("bridge server is already running")

// Server owns the process-wide listening socket and its lifecycle flag.
type Server struct {
	mu        sync.Mutex
	state     ServerState
	listener  net.Listener
	srv       *http.Server
	boundPort int
	observers []func(port int)

	handler http.Handler
}

func NewServer(ctrl *Controller) *Server {
	gin.SetMode(gin.ReleaseMode)
	return &Server{
		state:   ServerStopped,
		handler: DefineRoutes(ctrl).Handler(),
	}
}

// OnPortBound registers an observer that is notified with the actual bound
// port once the server starts. Collaborators that assume the preferred port
// instead of subscribing here will break whenever the fallback port is used.
func (s *Server) OnPortBound(observer func(port int)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.observers = append(s.observers, observer)
}

// Start binds to preferredPort. When that port is already in use it retries
// exactly once on preferredPort+1 and then fails; it never scans further
// ports. On success the server is Running and every registered observer is
// told the actual bound port, which Start also returns.
func (s *Server) Start(preferredPort int) (int, error) {
	s.mu.Lock()

	if s.state != ServerStopped {
		s.mu.Unlock()
		return 0, ErrAlreadyRunning
	}
	s.state = ServerStarting

	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", preferredPort))
	if err != nil {
		if !isAddrInUse(err) {
			s.state = ServerStopped
			s.mu.Unlock()
			return 0, fmt.Errorf("failed to start bridge server on port %d: %w", preferredPort, err)
		}
		log.Warn().Int("port", preferredPort).Msg("Port in use, retrying on next port")
		listener, err = net.Listen("tcp", fmt.Sprintf(":%d", preferredPort+1))
		if err != nil {
			s.state = ServerStopped
			s.mu.Unlock()
			return 0, fmt.Errorf("failed to start bridge server on ports %d and %d: %w", preferredPort, preferredPort+1, err)
		}
	}

	s.listener = listener
	s.boundPort = listener.Addr().(*net.TCPAddr).Port
	s.srv = &http.Server{Handler: s.handler}

	go func(srv *http.Server, listener net.Listener) {
		if err := srv.Serve(listener); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Bridge server stopped unexpectedly")
		}
	}(s.srv, listener)

	s.state = ServerRunning

	// snapshot before unlocking so observers may call back into
	// State()/BoundPort() without deadlocking
	boundPort := s.boundPort
	observers := make([]func(port int), len(s.observers))
	copy(observers, s.observers)
	s.mu.Unlock()

	log.Info().Int("port", boundPort).Msg("Bridge server listening")
	for _, observer := range observers {
		observer(boundPort)
	}

	return boundPort, nil
}

// Stop closes the listener and transitions to Stopped. Calling it while
// already stopped is a no-op that logs a warning, never an error.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == ServerStopped {
		log.Warn().Msg("Bridge server stop requested but it is not running")
		return nil
	}

	err := s.srv.Close()
	s.listener = nil
	s.srv = nil
	s.boundPort = 0
	s.state = ServerStopped
	if err != nil {
		return fmt.Errorf("failed to stop bridge server: %w", err)
	}
	log.Info().Msg("Bridge server stopped")
	return nil
}

func (s *Server) State() ServerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// BoundPort returns the actual listening port, or 0 when not running.
func (s *Server) BoundPort() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.boundPort
}

func isAddrInUse(err error) bool {
	return errors.Is(err, syscall.EADDRINUSE)
}
