package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/molkiya/shooting-range/internal/config"
	"github.com/molkiya/shooting-range/internal/engine"
	"github.com/molkiya/shooting-range/internal/models"
	"github.com/molkiya/shooting-range/internal/service"
	"github.com/molkiya/shooting-range/internal/storage/backend"
	"github.com/molkiya/shooting-range/internal/terminal"
	"github.com/molkiya/shooting-range/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "shooter: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	// scores persist between runs unless a backend is chosen explicitly
	if _, set := os.LookupEnv("STORAGE_BACKEND"); !set {
		cfg.StorageBackend = config.BackendSQLite
	}

	var out io.Writer = io.Discard
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer f.Close()
		out = f
	}
	log := logger.NewWithWriter(out, logger.ParseLevel(cfg.LogLevel))

	store, err := backend.Open(cfg, log)
	if err != nil {
		return err
	}
	defer store.Close()

	games := service.NewGameService(service.Options{
		Store:  store,
		Rules:  cfg.EngineRules(),
		Logger: log,
	})
	defer games.Shutdown()

	var sound terminal.Sound = terminal.Silent{}
	if !cfg.Mute {
		if spk, err := terminal.NewSpeaker(); err != nil {
			log.Warn("Audio unavailable", logger.Err(err))
		} else {
			sound = spk
		}
	}
	defer sound.Close()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to create screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to initialize screen: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	game, err := terminal.New(ctx, terminal.Options{
		Screen: screen,
		Games:  games,
		Player: models.Player{ID: cfg.PlayerID, DisplayName: cfg.PlayerName},
		Level:  engine.LevelEasy,
		Sound:  sound,
		Logger: log,
	})
	if err != nil {
		return err
	}
	defer game.Close()

	return game.Run(ctx)
}
