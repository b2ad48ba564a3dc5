// Package server serves the cookie policy API as JSON-RPC 2.0 over HTTP
// and WebSocket on a loopback port, for tools and extension pages that do
// not go through native messaging.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/craigmiskell/cookiemaster/pkg/logger"
)

// WebServer mounts an RPCServer on /jsonrpc (HTTP POST) and /jsonrpc/ws.
type WebServer struct {
	port      int
	listenAll bool
	log       logger.Logger
	rpc       *RPCServer
	server    *http.Server
	listener  net.Listener
	mu        sync.Mutex
}

func NewWebServer(l logger.Logger, rpc *RPCServer, port int, listenAll bool) *WebServer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return &WebServer{port: port, listenAll: listenAll, log: l, rpc: rpc}
}

func (s *WebServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/jsonrpc", requireToken(s.rpc.secret, false, s.rpc.bridge))
	mux.Handle("/jsonrpc/ws", requireToken(s.rpc.secret, true, http.HandlerFunc(s.rpc.serveWS)))
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func (s *WebServer) addr() string {
	host := "127.0.0.1"
	if s.listenAll {
		host = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", host, s.port)
}

// Listen binds the port. Start calls it when it has not been called.
func (s *WebServer) Listen() (net.Addr, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr(), nil
	}
	l, err := net.Listen("tcp", s.addr())
	if err != nil {
		return nil, err
	}
	s.listener = l
	s.server = &http.Server{
		Handler:           s.handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return l.Addr(), nil
}

// Start serves until Shutdown.
func (s *WebServer) Start() error {
	addr, err := s.Listen()
	if err != nil {
		return err
	}
	s.log.Info("rpc: listening on %s", addr)
	s.mu.Lock()
	srv, l := s.server, s.listener
	s.mu.Unlock()
	err = srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting connections and waits for requests in flight.
func (s *WebServer) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
