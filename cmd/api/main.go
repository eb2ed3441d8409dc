package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/casalist/backend/internal/adapters/cache"
	"github.com/casalist/backend/internal/adapters/database"
	"github.com/casalist/backend/internal/adapters/events"
	"github.com/casalist/backend/internal/adapters/memory"
	"github.com/casalist/backend/internal/api/handlers"
	"github.com/casalist/backend/internal/api/routes"
	"github.com/casalist/backend/internal/application/services"
	"github.com/casalist/backend/internal/domain/providers"
	"github.com/casalist/backend/internal/domain/repositories"
	"github.com/casalist/backend/internal/infrastructure/clients/postgres"
	"github.com/casalist/backend/internal/infrastructure/clients/redis"
	"github.com/casalist/backend/internal/infrastructure/observability"
	"github.com/casalist/backend/internal/security"
	"github.com/casalist/backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Error().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
			log.Info().Msg("OpenTelemetry initialized")
		}
	}

	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize metrics")
	}

	// Repository backend. Memory is the default; postgres is durable.
	var (
		accountRepo repositories.AccountRepository
		listingRepo repositories.ListingRepository
		amenityRepo repositories.AmenityRepository
		reviewRepo  repositories.ReviewRepository
	)

	switch cfg.Storage.Backend {
	case config.StoragePostgres:
		pgClient, err := postgres.NewClient(&cfg.Database)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize PostgreSQL client")
		}
		defer pgClient.Close()
		log.Info().Msg("PostgreSQL client initialized")

		accountRepo = database.NewAccountAdapter(pgClient)
		listingRepo = database.NewListingAdapter(pgClient)
		amenityRepo = database.NewAmenityAdapter(pgClient)
		reviewRepo = database.NewReviewAdapter(pgClient)

	default:
		store := memory.NewStore()
		accountRepo = store.Accounts()
		listingRepo = store.Listings()
		amenityRepo = store.Amenities()
		reviewRepo = store.Reviews()
		log.Info().Msg("in-memory store initialized")
	}

	// Redis is optional. Without it the service runs uncached and silent.
	var (
		cacheProvider providers.CacheProvider
		eventBus      providers.EventBus
	)
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, continuing without cache and events")
	} else {
		defer redisClient.Close()
		cacheProvider = cache.NewRedisAdapter(redisClient)
		eventBus = events.NewRedisEventBus(redisClient)
		defer eventBus.Close()
		log.Info().Msg("Redis client initialized")
	}

	if cacheProvider != nil && cfg.Storage.Backend == config.StoragePostgres {
		listingRepo = database.NewCachedListingAdapter(listingRepo, cacheProvider)
		log.Info().Msg("listing repository wrapped with caching layer")
	}

	// Services
	hasher := security.NewBcryptHasher()
	accountService := services.NewAccountService(accountRepo, hasher)
	amenityService := services.NewAmenityService(amenityRepo)
	listingService := services.NewListingService(listingRepo, accountRepo, amenityRepo)
	reviewService := services.NewReviewService(reviewRepo, accountRepo, listingRepo)
	if eventBus != nil {
		listingService.SetEventBus(eventBus)
	}

	// Handlers and routes
	router := routes.NewRouter(
		handlers.NewAccountHandler(accountService),
		handlers.NewListingHandler(listingService, reviewService),
		handlers.NewAmenityHandler(amenityService),
		handlers.NewReviewHandler(reviewService),
		metrics,
	)

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Str("backend", cfg.Storage.Backend).Msg("server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
