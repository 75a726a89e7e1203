package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"woolfeed/config"
	"woolfeed/internal/ledger"
	"woolfeed/internal/pipeline"
	"woolfeed/internal/server"
	"woolfeed/logger"
	apperrors "woolfeed/pkg/errors"
	"woolfeed/services/cache"
	"woolfeed/services/worker"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(apperrors.NewConfiguration("invalid configuration", err)).Msg("Cannot start")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("source", cfg.SourceURL).
		Str("listen", cfg.ListenAddr).
		Msg("Starting application")

	// Set up context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Initialize services
	services := initializeServices(&cfg)
	defer services.Cleanup()

	pipe := pipeline.New(cfg, services.Ledger, services.Cache)

	// Prerender worker keeps the static feed files fresh
	w := worker.New(cfg, pipe)
	if err := w.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start prerender worker")
	}
	defer w.Stop()

	// HTTP server
	srv := server.New(cfg, pipe)
	engine := srv.Engine()

	httpServer := &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: engine,
	}

	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", cfg.ListenAddr).Msg("Starting HTTP server")
		serverDone <- httpServer.ListenAndServe()
	}()

	// Wait for shutdown signal or server error
	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
		cancel()
	case err := <-serverDone:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("HTTP server exited with error")
		}
	}

	// Graceful shutdown
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown failed")
	}
}

// Services holds all the initialized services
type Services struct {
	Cache  cache.CacheService
	Ledger ledger.Store
	redis  *ledger.RedisStore
}

// Cleanup cleans up all services
func (s *Services) Cleanup() {
	if s.redis != nil {
		s.redis.Close()
	}
}

// initializeServices initializes all required services
func initializeServices(cfg *config.Config) *Services {
	services := &Services{}

	// Listing cache, memcache when configured, in-process otherwise
	if cfg.MemcacheAddr != "" {
		services.Cache = cache.NewMemcacheService(cfg.MemcacheAddr)
		logger.Info("Using Memcache at %s", cfg.MemcacheAddr)
	} else {
		services.Cache = cache.NewMemoryService()
		logger.Info("Using in-process listing cache")
	}

	// Published-links ledger, redis with in-memory fallback
	if cfg.RedisAddr != "" {
		services.redis = ledger.NewRedisStore(cfg.RedisAddr, cfg.RedisDB, cfg.LedgerKey)
		services.Ledger = ledger.NewFallbackStore(services.redis)
		logger.Info("Using Redis ledger at %s (DB: %d, Key: %s)",
			cfg.RedisAddr, cfg.RedisDB, cfg.LedgerKey)
	} else {
		services.Ledger = ledger.NewMemoryStore()
		logger.Info("Using in-memory ledger")
	}

	return services
}
