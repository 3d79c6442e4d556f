package net

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/larrybui/tichu-server/internal/config"
	"github.com/larrybui/tichu-server/internal/session"
)

// Server upgrades incoming HTTP requests to websocket connections and
// hands each one off to its own Conn.
type Server struct {
	httpServer *http.Server
	upgrader   websocket.Upgrader
	registry   *session.Registry
	cfg        config.NetworkConfig
	log        *zap.Logger
}

func NewServer(cfg config.NetworkConfig, registry *session.Registry, log *zap.Logger) *Server {
	s := &Server{
		registry: registry,
		cfg:      cfg,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			// Tichu clients connect from arbitrary origins; authorization
			// happens at the application layer via user ids, not origin.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebsocket)
	s.httpServer = &http.Server{Addr: cfg.BindAddress, Handler: mux}
	return s
}

func (s *Server) handleWebsocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	clientUserID := r.URL.Query().Get("user_id")
	conn := NewConn(ws, s.registry, s.cfg, s.log)
	go conn.Start(clientUserID)
}

// ListenAndServe blocks until the server is shut down or fails to
// start. It returns nil once Shutdown has closed the server.
func (s *Server) ListenAndServe() error {
	s.log.Info("listening", zap.String("addr", s.cfg.BindAddress))
	err := s.httpServer.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops accepting new connections and waits for
// in-flight requests to finish, bounded by ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
