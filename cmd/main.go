package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/manorfm/coffee-shop/internal/application"
	"github.com/manorfm/coffee-shop/internal/infrastructure/config"
	"github.com/manorfm/coffee-shop/internal/infrastructure/database"
	"github.com/manorfm/coffee-shop/internal/infrastructure/jwks"
	"github.com/manorfm/coffee-shop/internal/infrastructure/jwt"
	"github.com/manorfm/coffee-shop/internal/infrastructure/repository"
	httprouter "github.com/manorfm/coffee-shop/internal/interfaces/http"
	"go.uber.org/zap"
)

// @title Coffee Shop API
// @version 1.0
// @description Coffee shop menu API protected by Auth0 access tokens
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Create database connection
	ctx := context.Background()
	db, err := database.NewPostgres(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	if cfg.DBAutoMigrate {
		if err := db.RunMigrations(); err != nil {
			logger.Fatal("Failed to run migrations", zap.Error(err))
		}
	}

	// Signing keys are fetched lazily when the provider is unreachable at boot
	resolver := jwks.NewResolver(cfg, logger)
	if err := resolver.Warm(ctx); err != nil {
		logger.Warn("Unable to prefetch signing keys", zap.String("jwks_url", cfg.JWKSURL), zap.Error(err))
	}
	verifier := jwt.NewVerifier(resolver, cfg, logger)

	drinkRepo := repository.NewDrinkRepository(db, logger)
	drinkService := application.NewDrinkService(drinkRepo, logger)

	// Create router
	router := httprouter.NewRouter(db, drinkService, verifier, cfg, logger)
	defer router.Close()

	// Start server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Starting server",
			zap.Int("port", cfg.ServerPort),
			zap.String("issuer", cfg.AuthIssuer),
			zap.String("audience", cfg.AuthAudience))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	// Graceful shutdown
	logger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("Server forced to shutdown", zap.Error(err))
		return
	}

	logger.Info("Server exited properly")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
