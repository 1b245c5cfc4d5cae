package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/user/arena-games/config"
	"github.com/user/arena-games/internal/api"
	"github.com/user/arena-games/internal/game"
	"github.com/user/arena-games/internal/logging"
	"go.uber.org/zap"
)

func main() {
	// Parse command line flags
	configPath := flag.String("config", "./config/config.yaml", "Path to configuration file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		panic(err)
	}

	// Set up logger
	logger, err := logging.New(cfg.Log)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Initialize game manager
	gameManager, err := setupGameManager(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to set up game manager", zap.Error(err))
	}

	// Retune autoplay when the config file changes
	if err := config.Watch(*configPath, logger, func(updated config.Config) {
		logger.Info("Configuration reloaded")
		gameManager.SetAutoplayInterval(updated.Game.AutoplayInterval)
	}); err != nil {
		logger.Warn("Config hot reload disabled", zap.Error(err))
	}

	// Set up HTTP server
	server := setupHTTPServer(cfg, gameManager, logger)

	// Start HTTP server
	go func() {
		logger.Info("Starting HTTP server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server stopped", zap.Error(err))
		}
	}()

	// Start the event system after everything else is initialized
	gameManager.StartEventSystem()
	defer gameManager.StopEventSystem()

	// Wait for shutdown signal
	waitForShutdown(server, logger)
}

func setupGameManager(cfg config.Config, logger *zap.Logger) (*game.GameManager, error) {
	var opts []game.Option
	if cfg.Game.CatalogPath != "" {
		loader := game.NewDataLoader(cfg.Game.DataDir)
		catalog, err := loader.LoadCatalog(cfg.Game.CatalogPath)
		if err != nil {
			return nil, err
		}
		logger.Info("Loaded item catalog", zap.Int("count", catalog.Len()))
		opts = append(opts, game.WithCatalog(catalog))
	}

	gameManager := game.NewGameManager(cfg, opts...)
	gameManager.SetLogger(logger)
	gameManager.SetEventSink(game.NewLogSink(logger.Named("events")))
	return gameManager, nil
}

func setupHTTPServer(cfg config.Config, gameManager *game.GameManager, logger *zap.Logger) *http.Server {
	// Create router
	router := chi.NewRouter()
	router.Use(middleware.Logger)

	handler := api.NewHandler(gameManager, cfg, logger)
	router.Mount("/", handler.Routes())

	// Create HTTP server
	return &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: router,
	}
}

func waitForShutdown(server *http.Server, logger *zap.Logger) {
	// Set up channel for shutdown signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	// Wait for shutdown signal
	sig := <-sigChan
	logger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	// Perform cleanup
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Failed to shut down HTTP server", zap.Error(err))
	}
	logger.Info("Shutting down")
}
