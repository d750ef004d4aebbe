package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shopping-ledger/internal/auth"
	"shopping-ledger/internal/config"
	"shopping-ledger/internal/database"
	"shopping-ledger/internal/handler"
	"shopping-ledger/internal/model"
	"shopping-ledger/internal/repository"
	"shopping-ledger/internal/router"
	"shopping-ledger/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting shopping-ledger API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	categoryRepo := repository.NewReferenceRepository(pool, model.KindCategory, logger)
	unitRepo := repository.NewReferenceRepository(pool, model.KindUnit, logger)
	manufacturerRepo := repository.NewReferenceRepository(pool, model.KindManufacturer, logger)
	originRepo := repository.NewReferenceRepository(pool, model.KindOrigin, logger)
	storeRepo := repository.NewStoreRepository(pool, logger)
	productRepo := repository.NewProductRepository(pool, logger)
	recordRepo := repository.NewRecordRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	// Initialize services
	categoryService := service.NewReferenceService(categoryRepo, logger)
	unitService := service.NewReferenceService(unitRepo, logger)
	manufacturerService := service.NewReferenceService(manufacturerRepo, logger)
	originService := service.NewReferenceService(originRepo, logger)
	storeService := service.NewStoreService(storeRepo, logger)
	productService := service.NewProductService(productRepo, logger)
	recordService := service.NewRecordService(
		recordRepo,
		storeRepo,
		productRepo,
		categoryRepo,
		unitRepo,
		manufacturerRepo,
		originRepo,
		logger,
	)
	authService := service.NewAuthService(userRepo, logger)

	// Initialize token manager
	tokens := auth.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTTLMin)*time.Minute,
		time.Duration(cfg.JWT.RefreshTTLHours)*time.Hour,
	)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Categories:    handler.NewReferenceHandler(categoryService, logger),
		Units:         handler.NewReferenceHandler(unitService, logger),
		Manufacturers: handler.NewReferenceHandler(manufacturerService, logger),
		Origins:       handler.NewReferenceHandler(originService, logger),
		Stores:        handler.NewStoreHandler(storeService, logger),
		Products:      handler.NewProductHandler(productService, logger),
		Records:       handler.NewRecordHandler(recordService, logger),
		Auth:          handler.NewAuthHandler(authService, tokens, cfg.JWT.SecureCookies, logger),
	}

	// Initialize router
	mux := router.New(handlers, tokens, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
