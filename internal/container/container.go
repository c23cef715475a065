package container

import (
	"tourzen-api/internal/config"
	"tourzen-api/internal/metrics"
	"tourzen-api/internal/middleware"
	"tourzen-api/internal/repository"
	"tourzen-api/internal/service"
	"tourzen-api/internal/service/identity"
	"tourzen-api/internal/service/token"
	"tourzen-api/pkg/database"
	"tourzen-api/pkg/logger"
	"tourzen-api/pkg/redis"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Container holds all application dependencies
type Container struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           *database.PostgresDB
	RedisClient  *redis.Client
	Registry     *prometheus.Registry
	Metrics      *metrics.Collector
	Cache        *service.CacheService
	RateLimiter  *middleware.RateLimiter
	Repositories *repository.Repositories
	Services     *service.Services
}

// New creates a new dependency injection container around an open database
func New(cfg *config.Config, logger *logger.Logger, db *database.PostgresDB) (*Container, error) {
	// Initialize Redis client if Redis URL is configured
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		client, err := redis.NewClient(cfg.RedisURL, cfg.Environment, logger.Logger)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Redis client, proceeding without caching")
		} else {
			redisClient = client
			logger.Info("Redis client initialized successfully")
		}
	} else {
		logger.Info("Redis URL not configured, proceeding without caching")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewCollector(registry)

	repos := &repository.Repositories{
		Packages: repository.NewPackageRepository(db),
		Bookings: repository.NewBookingRepository(db),
	}

	cache := service.NewCacheService(redisClient, logger.Logger)
	tokens := token.NewService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTExpiresIn, logger, collector)

	var firebase identity.Provider
	if cfg.FirebaseProjectID != "" {
		firebase = identity.NewFirebaseProvider(cfg.FirebaseProjectID, logger)
	} else {
		logger.Warn("FIREBASE_PROJECT_ID not set, Firebase login is disabled")
	}
	google := identity.NewGoogleProvider(cfg.GoogleClientID, logger)

	services := &service.Services{
		Tokens:   tokens,
		Identity: identity.NewVerifier(firebase, google, tokens, logger),
		Bookings: service.NewBookingService(repos.Packages, repos.Bookings, cache, collector, logger),
		Packages: service.NewPackageService(repos.Packages, cache, logger),
	}

	return &Container{
		Config:       cfg,
		Logger:       logger,
		DB:           db,
		RedisClient:  redisClient,
		Registry:     registry,
		Metrics:      collector,
		Cache:        cache,
		RateLimiter:  middleware.NewRateLimiter(cfg.BookingRatePerMin, logger),
		Repositories: repos,
		Services:     services,
	}, nil
}

// GetLogger returns the logger
func (c *Container) GetLogger() *logger.Logger {
	return c.Logger
}

// GetConfig returns the configuration
func (c *Container) GetConfig() *config.Config {
	return c.Config
}

// HasRedis returns true if Redis client is available
func (c *Container) HasRedis() bool {
	return c.RedisClient != nil
}

// Close stops background work and releases the Redis client. The database is owned by the caller.
func (c *Container) Close() error {
	c.RateLimiter.Stop()
	if c.RedisClient != nil {
		return c.RedisClient.Close()
	}
	return nil
}
