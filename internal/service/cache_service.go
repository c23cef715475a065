package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tourzen-api/internal/domain"
	"tourzen-api/pkg/redis"

	"go.uber.org/zap"
)

// CacheService holds the package snapshot cache and the in-flight booking locks.
// With a nil redis client every method falls through to the loader or succeeds.
type CacheService struct {
	redis  *redis.Client
	logger *zap.Logger
}

// NewCacheService creates a new cache service
func NewCacheService(redisClient *redis.Client, logger *zap.Logger) *CacheService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{
		redis:  redisClient,
		logger: logger,
	}
}

// Enabled reports whether a redis client is configured
func (c *CacheService) Enabled() bool {
	return c != nil && c.redis != nil
}

// GetPackage retrieves a package with the cache-aside pattern. Cache errors
// are logged and fall back to load.
func (c *CacheService) GetPackage(ctx context.Context, id string, load func(ctx context.Context, id string) (*domain.TourPackage, error)) (*domain.TourPackage, error) {
	if !c.Enabled() {
		return load(ctx, id)
	}

	cacheKey := c.redis.KeyBuilder.KeyPackageByID(id)

	cached, err := c.redis.Get(ctx, cacheKey)
	if err == nil && cached != "" {
		var pkg domain.TourPackage
		if unmarshalErr := json.Unmarshal([]byte(cached), &pkg); unmarshalErr == nil {
			c.logger.Debug("Package cache hit", zap.String("package_id", id))
			return &pkg, nil
		} else {
			c.logger.Warn("Package cache corrupted, falling back to database",
				zap.String("package_id", id),
				zap.Error(unmarshalErr))
		}
	} else if err != nil && !errors.Is(err, redis.Nil) {
		c.logger.Warn("Package cache error, falling back to database",
			zap.String("package_id", id),
			zap.Error(err))
	}

	c.logger.Debug("Package cache miss", zap.String("package_id", id))
	pkg, err := load(ctx, id)
	if err != nil {
		return nil, err
	}

	c.cachePackage(ctx, cacheKey, pkg)
	return pkg, nil
}

// InvalidatePackage drops the cached snapshot of a package
func (c *CacheService) InvalidatePackage(ctx context.Context, id string) {
	if !c.Enabled() {
		return
	}
	if err := c.redis.Delete(ctx, c.redis.KeyBuilder.KeyPackageByID(id)); err != nil {
		c.logger.Error("Failed to invalidate package cache",
			zap.String("package_id", id),
			zap.Error(err))
	}
}

// AcquireBookingLock marks a (package, tourist) booking as in flight. It returns
// false when another request holds the lock. Redis failures fail open because
// the database unique constraint still rejects duplicates.
func (c *CacheService) AcquireBookingLock(ctx context.Context, packageID, email string) bool {
	if !c.Enabled() {
		return true
	}

	ok, err := c.redis.SetNX(ctx, c.redis.KeyBuilder.KeyBookingLock(packageID, email), "1", redis.TTLBookingLock)
	if err != nil {
		c.logger.Warn("Booking lock unavailable, continuing without it",
			zap.String("package_id", packageID),
			zap.Error(err))
		return true
	}
	return ok
}

// ReleaseBookingLock removes the in-flight marker
func (c *CacheService) ReleaseBookingLock(ctx context.Context, packageID, email string) {
	if !c.Enabled() {
		return
	}
	if err := c.redis.Delete(ctx, c.redis.KeyBuilder.KeyBookingLock(packageID, email)); err != nil {
		c.logger.Warn("Failed to release booking lock",
			zap.String("package_id", packageID),
			zap.Error(err))
	}
}

// HealthCheck performs a health check on the cache system
func (c *CacheService) HealthCheck(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	start := time.Now()
	err := c.redis.Health(ctx)
	duration := time.Since(start)

	if err != nil {
		c.logger.Error("Cache health check failed",
			zap.Duration("duration", duration),
			zap.Error(err))
		return fmt.Errorf("redis: %w", err)
	}

	c.logger.Debug("Cache health check passed", zap.Duration("duration", duration))
	return nil
}

func (c *CacheService) cachePackage(ctx context.Context, cacheKey string, pkg *domain.TourPackage) {
	data, err := json.Marshal(pkg)
	if err != nil {
		c.logger.Error("Failed to marshal package for caching",
			zap.String("package_id", pkg.ID),
			zap.Error(err))
		return
	}

	if err := c.redis.Set(ctx, cacheKey, string(data), redis.TTLPackage); err != nil {
		c.logger.Error("Failed to cache package",
			zap.String("package_id", pkg.ID),
			zap.Error(err))
	}
}
