package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"

	_ "github.com/redmonkez12/plantopia/docs" // Swagger docs (generated)
	"github.com/redmonkez12/plantopia/internal/auth"
	"github.com/redmonkez12/plantopia/internal/config"
	"github.com/redmonkez12/plantopia/internal/geocode"
	httpServer "github.com/redmonkez12/plantopia/internal/http"
	"github.com/redmonkez12/plantopia/internal/identity"
	"github.com/redmonkez12/plantopia/internal/logging"
	"github.com/redmonkez12/plantopia/internal/photo"
	"github.com/redmonkez12/plantopia/internal/plant"
	"github.com/redmonkez12/plantopia/internal/profile"
	"github.com/redmonkez12/plantopia/internal/session"
	"github.com/redmonkez12/plantopia/internal/storage"
)

// @title           Plantopia API
// @version         1.0
// @description     Plant care backend: identity-provider sign-in, profiles, onboarding and plant tracking with watering schedules.

// @contact.name   API Support
// @contact.email  support@example.com

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the session token. Browsers send the session cookie instead.

func main() {
	if err := run(); err != nil {
		log.Fatalf("Application error: %v", err)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize logger
	logger := logging.NewLogger(cfg.Server.IsDevelopment())
	logger.Info("starting application",
		"env", cfg.Server.Env,
		"port", cfg.Server.Port,
		"store", cfg.Store.Backend,
		"session_format", cfg.Auth.TokenFormat,
	)

	ctx := context.Background()

	// Initialize storage backend
	backend, err := storage.Open(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer backend.Close()

	// Initialize identity token verification
	keySetOpts := []identity.KeySetOption{}
	if cfg.Identity.KeyCache == config.KeyCacheRedis {
		redisClient, err := initRedis(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis: %w", err)
		}
		defer redisClient.Close()
		keySetOpts = append(keySetOpts, identity.WithKeyCache(identity.NewRedisKeyCache(redisClient)))
	}
	keys := identity.NewKeySet(cfg.Identity.JWKSURL, logger, keySetOpts...)
	verifier := identity.NewVerifier(cfg.Identity.ProjectID, keys)

	// Initialize session tokens
	tokens, err := auth.NewTokenService(cfg.Auth.TokenFormat, cfg.Auth.SessionSecret)
	if err != nil {
		return fmt.Errorf("failed to initialize session tokens: %w", err)
	}
	sessions := auth.NewSessionManager(tokens, cfg.Auth.SessionDuration)

	// Initialize photo uploads
	photos, err := initPhotos(ctx, cfg.Photos, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize photo store: %w", err)
	}

	// Initialize services
	profileService := profile.NewService(backend.Profiles(), logger)
	plantService := plant.NewService(backend.Plants(), photos, logger)
	authService := auth.NewService(verifier, profileService, sessions, logger)

	if !cfg.Geocode.GeocodeEnabled() {
		logger.Info("reverse geocoding disabled, OPENWEATHER_API_KEY not set")
	}

	// Initialize HTTP handlers
	cookies := session.NewCookies(!cfg.Server.IsDevelopment())
	drainer := httpServer.NewStreamDrainer()

	router := httpServer.NewRouter(cfg, httpServer.Handlers{
		Auth:    auth.NewHandler(authService, cookies),
		Profile: profile.NewHandler(profileService, cookies),
		Plant:   plant.NewHandler(plantService, cfg.Photos.MaxBytes),
		Geocode: geocode.NewHandler(geocode.NewClient(cfg.Geocode.BaseURL, cfg.Geocode.APIKey)),
		Pages:   httpServer.NewPageHandler(profileService, plantService),
		Streams: drainer,
	}, httpServer.Access{
		Guard:      auth.NewGuard(sessions),
		Middleware: auth.NewMiddleware(sessions),
		Cookies:    cookies,
	}, logger)

	// Initialize HTTP server
	serverAddr := ":" + cfg.Server.Port
	server := httpServer.NewServer(
		serverAddr,
		router,
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)
	server.RegisterOnShutdown(drainer.Drain)

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
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// initRedis initializes the Redis connection and returns a Redis client
func initRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Verify connection
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping Redis: %w", err)
	}

	return client, nil
}

// initPhotos returns the S3 store, or a store that rejects uploads when no bucket is configured
func initPhotos(ctx context.Context, cfg config.PhotoConfig, logger *logging.Logger) (photo.Store, error) {
	if !cfg.PhotosEnabled() {
		logger.Info("photo uploads disabled, S3_BUCKET not set")
		return photo.Disabled{}, nil
	}

	store, err := photo.NewS3Store(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return store, nil
}
