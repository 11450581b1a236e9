package web

import (
	"context"
	_ "embed"
	"net/http"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/tomz197/websnake/internal/config"
	"github.com/tomz197/websnake/internal/input"
	"github.com/tomz197/websnake/internal/loop"
)

//go:embed static/index.html
var indexHTML []byte

// Server serves the browser client and its WebSocket endpoint.
type Server struct {
	ctx      context.Context
	cfg      *config.Config
	devices  *input.DeviceMap
	hub      *loop.Hub
	log      *zap.Logger
	upgrader websocket.Upgrader
}

// NewServer creates a server whose sessions end when ctx is cancelled.
func NewServer(ctx context.Context, cfg *config.Config, devices *input.DeviceMap, hub *loop.Hub, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		ctx:     ctx,
		cfg:     cfg,
		devices: devices,
		hub:     hub,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

// Routes returns the HTTP handler for the page, the socket and a health check.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /ws", s.handleWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	return mux
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("upgrade failed", zap.String("remote", r.RemoteAddr), zap.Error(err))
		return
	}
	defer conn.Close()

	handle := s.hub.Register(r.RemoteAddr)
	defer s.hub.Unregister(handle.ID)

	log := s.log.With(zap.Int("session", handle.ID))
	game := loop.NewGame(s.cfg.Game, log)
	sess := NewSession(conn, game, s.devices, s.cfg.Web, log)
	if err := sess.Run(s.ctx, handle.EventsCh); err != nil {
		log.Info("session ended", zap.Error(err))
		return
	}
	log.Debug("session closed", zap.Int("length", game.Player().Len()), zap.Uint64("ticks", game.Tick()))
}
