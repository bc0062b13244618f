package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/molkiya/shooting-range/internal/api"
	"github.com/molkiya/shooting-range/internal/config"
	"github.com/molkiya/shooting-range/internal/service"
	"github.com/molkiya/shooting-range/internal/storage/backend"
	"github.com/molkiya/shooting-range/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New().Error("Failed to load config", logger.Err(err))
		os.Exit(1)
	}

	log := logger.NewWithWriter(os.Stdout, logger.ParseLevel(cfg.LogLevel))

	store, err := backend.Open(cfg, log)
	if err != nil {
		log.Error("Failed to initialize storage", logger.Err(err))
		os.Exit(1)
	}
	defer store.Close()

	games := service.NewGameService(service.Options{
		Store:      store,
		Rules:      cfg.EngineRules(),
		SessionTTL: cfg.SessionTTL(),
		Logger:     log,
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go games.RunReaper(ctx, cfg.ReapInterval())

	handler := api.NewHandler(games, log, cfg.WSOriginPatterns)

	router := chi.NewRouter()
	router.Use(middleware.RealIP)
	router.Use(middleware.Recoverer)
	router.Mount("/", handler.Routes())

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("Server starting", logger.F("addr", cfg.Address()), logger.F("storage", cfg.StorageBackend))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Server failed", logger.Err(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("Shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// close sessions first so open event streams end cleanly
	games.Shutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", logger.Err(err))
	}

	log.Info("Server exited")
}
