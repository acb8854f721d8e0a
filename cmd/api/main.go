package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	"github.com/redmonkez12/go-product-api/internal/auth"
	"github.com/redmonkez12/go-product-api/internal/config"
	"github.com/redmonkez12/go-product-api/internal/database"
	httpServer "github.com/redmonkez12/go-product-api/internal/http"
	"github.com/redmonkez12/go-product-api/internal/logging"
	"github.com/redmonkez12/go-product-api/internal/password"
	"github.com/redmonkez12/go-product-api/internal/product"
	"github.com/redmonkez12/go-product-api/internal/user"
)

// @title           Product API
// @version         1.0
// @description     Product catalogue with user registration and bearer-token authentication.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the access token.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"addr", cfg.Server.Address(),
		"db_driver", cfg.Database.Driver,
		"token_format", cfg.Auth.TokenFormat,
	)

	db, err := database.Open(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(ctx, db.DB); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	productCache, closeCache, err := initProductCache(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize Redis: %w", err)
	}
	defer closeCache()

	tokenService, err := auth.NewTokenService(cfg.Auth)
	if err != nil {
		return fmt.Errorf("failed to initialize token service: %w", err)
	}

	hasher := password.NewHasher(password.DefaultParams, cfg.Auth.HashConcurrency)

	authService := auth.NewService(user.NewRepository(db), hasher, tokenService, logger)
	productService := product.NewService(product.NewRepository(db), productCache, logger)

	router := httpServer.NewRouter(cfg, httpServer.Handlers{
		Auth:           auth.NewHandler(authService),
		AuthMiddleware: auth.NewMiddleware(tokenService),
		Products:       product.NewHandler(productService),
		DB:             db,
	}, logger)

	server := httpServer.NewServer(
		cfg.Server.Address(),
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- server.Start()
	}()

	// Wait for interrupt signal or server error
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case sig := <-shutdown:
		logger.Info("received signal", "signal", sig.String())

		// Graceful shutdown with timeout
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initProductCache connects to Redis when an address is configured and
// falls back to a no-op cache otherwise.
func initProductCache(ctx context.Context, cfg config.RedisConfig, logger *logging.Logger) (product.Cache, func(), error) {
	if !cfg.CacheEnabled() {
		logger.Info("product cache disabled")
		return product.NoopCache{}, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	logger.Info("product cache enabled", "addr", cfg.Addr, "ttl", cfg.CacheTTL.String())
	return product.NewRedisCache(client, cfg.CacheTTL), func() { client.Close() }, nil
}
