package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"go.uber.org/zap"

	"github.com/tomz197/websnake/internal/config"
	"github.com/tomz197/websnake/internal/draw"
	"github.com/tomz197/websnake/internal/loop"
)

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "websnake-ssh: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(config.GetEnv("WEBSNAKE_CONFIG", ""))
	if err == nil {
		err = config.ApplyEnv(cfg)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "websnake-ssh: %v\n", err)
		os.Exit(1)
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "websnake-ssh: create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	workingDir, workErr := os.Getwd()
	if workErr != nil {
		log.Warn("failed to get working directory", zap.Error(workErr))
	}
	log.Info("ssh config",
		zap.String("host", cfg.SSH.Host),
		zap.String("port", cfg.SSH.Port),
		zap.String("host_key", cfg.SSH.HostKey),
		zap.String("working_dir", workingDir),
	)

	ctx, cancelSessions := context.WithCancel(context.Background())
	defer cancelSessions()
	hub := loop.NewHub(log)

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)),
		wish.WithMiddleware(
			gameMiddleware(ctx, cfg, hub, log),
			activeterm.Middleware(),
			logging.Middleware(),
		),
		// Set TCP_NODELAY to reduce latency for game input
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if cfg.SSH.HostKey != "" {
		opts = append(opts, wish.WithHostKeyPath(cfg.SSH.HostKey))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		log.Fatal("failed to create server", zap.Error(err))
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	log.Info("starting ssh server", zap.String("addr", net.JoinHostPort(cfg.SSH.Host, cfg.SSH.Port)))
	go func() {
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			log.Fatal("server error", zap.Error(err))
		}
	}()

	<-done
	log.Info("shutting down server", zap.Int("sessions", hub.Len()))

	// Let players see the shutdown screen, then stop whoever is left.
	hub.Shutdown(time.Duration(loop.ShutdownDisplaySeconds*float64(time.Second)) + time.Second)
	cancelSessions()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.SSH.ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
}

// gameMiddleware gives every PTY session its own game and terminal client.
func gameMiddleware(ctx context.Context, cfg *config.Config, hub *loop.Hub, log *zap.Logger) wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			pty, winCh, ok := sess.Pty()
			if !ok {
				fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
				return
			}

			sessLog := log.With(zap.String("user", sess.User()), zap.String("remote", sess.RemoteAddr().String()))
			sessLog.Info("new game session",
				zap.String("terminal", pty.Term),
				zap.Int("width", pty.Window.Width),
				zap.Int("height", pty.Window.Height),
			)

			sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
			go func() {
				for win := range winCh {
					sizeTracker.update(win.Width, win.Height)
				}
			}()

			game := loop.NewGame(cfg.Game, sessLog)
			c := loop.NewClient(game, bufio.NewReader(sess), sess, loop.ClientOptions{
				TermSizeFunc: sizeTracker.getSize,
				Terminal:     cfg.Terminal,
				Hub:          hub,
				Name:         sess.User(),
				IdleKick:     true,
				Log:          sessLog,
			})
			if err := c.Run(ctx); err != nil {
				sessLog.Warn("game error", zap.Error(err))
			}

			sessLog.Info("session ended", zap.Int("length", game.Player().Len()))
			next(sess)
		}
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
