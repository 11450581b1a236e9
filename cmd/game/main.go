package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/tomz197/websnake/internal/config"
	"github.com/tomz197/websnake/internal/loop"
)

const defaultLogFile = "websnake.log"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "websnake: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	cfg, err := config.Load(config.GetEnv("WEBSNAKE_CONFIG", ""))
	if err != nil {
		return err
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return err
	}
	// The terminal is the game screen, so logs go to a file.
	if cfg.Logging.File == "" {
		cfg.Logging.File = defaultLogFile
	}
	log, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("enable raw mode: %w", err)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	game := loop.NewGame(cfg.Game, log)
	c := loop.NewClient(game, bufio.NewReader(os.Stdin), os.Stdout, loop.ClientOptions{
		Terminal: cfg.Terminal,
		Log:      log,
	})
	if err := c.Run(ctx); err != nil {
		log.Error("game error", zap.Error(err))
		return err
	}
	return nil
}
