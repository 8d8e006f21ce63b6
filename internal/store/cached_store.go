package store

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"catalog-ingestion-service/internal/models"
)

// Cache TTL constants
const (
	ProductCacheTTL = 5 * time.Minute // Single product cache
	CatalogCacheTTL = 2 * time.Minute // Full catalog cache (shorter due to import churn)
)

const (
	catalogCacheKey  = "catalog:all"
	productKeyPrefix = "catalog:product:"
)

// CachedStore wraps a CatalogStore with a Redis read-through cache.
// Cache failures degrade to the inner store, never to an error.
type CachedStore struct {
	inner  CatalogStore
	redis  *redis.Client
	logger *logrus.Entry
}

func NewCachedStore(inner CatalogStore, redisClient *redis.Client, logger *logrus.Logger) *CachedStore {
	return &CachedStore{
		inner:  inner,
		redis:  redisClient,
		logger: logger.WithField("component", "cached_store"),
	}
}

// ReplaceAll writes through to the inner store and invalidates every
// cached entry so readers never see a mixed snapshot.
func (s *CachedStore) ReplaceAll(ctx context.Context, products []models.CanonicalProduct) error {
	if err := s.inner.ReplaceAll(ctx, products); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *CachedStore) GetAll(ctx context.Context) ([]models.CanonicalProduct, error) {
	if val, err := s.redis.Get(ctx, catalogCacheKey).Result(); err == nil {
		var products []models.CanonicalProduct
		if err := json.Unmarshal([]byte(val), &products); err == nil {
			return products, nil
		}
	}

	products, err := s.inner.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(products); err == nil {
		if err := s.redis.Set(ctx, catalogCacheKey, data, CatalogCacheTTL).Err(); err != nil {
			s.logger.WithError(err).Warn("Failed to cache catalog snapshot")
		}
	}
	return products, nil
}

func (s *CachedStore) Get(ctx context.Context, supplierProductID string) (*models.CanonicalProduct, error) {
	cacheKey := productKeyPrefix + supplierProductID

	if val, err := s.redis.Get(ctx, cacheKey).Result(); err == nil {
		var product models.CanonicalProduct
		if err := json.Unmarshal([]byte(val), &product); err == nil {
			return &product, nil
		}
	}

	product, err := s.inner.Get(ctx, supplierProductID)
	if err != nil || product == nil {
		return product, err
	}

	if data, err := json.Marshal(product); err == nil {
		if err := s.redis.Set(ctx, cacheKey, data, ProductCacheTTL).Err(); err != nil {
			s.logger.WithError(err).Warn("Failed to cache product")
		}
	}
	return product, nil
}

// invalidate drops the catalog key and all per-product keys. Uses SCAN
// rather than KEYS to stay safe on shared Redis instances.
func (s *CachedStore) invalidate(ctx context.Context) {
	if err := s.redis.Del(ctx, catalogCacheKey).Err(); err != nil {
		s.logger.WithError(err).Warn("Failed to invalidate catalog cache")
	}

	var cursor uint64
	for {
		keys, next, err := s.redis.Scan(ctx, cursor, fmt.Sprintf("%s*", productKeyPrefix), 100).Result()
		if err != nil {
			s.logger.WithError(err).Warn("Failed to scan product cache keys")
			return
		}
		if len(keys) > 0 {
			if err := s.redis.Del(ctx, keys...).Err(); err != nil {
				s.logger.WithError(err).Warn("Failed to delete product cache keys")
			}
		}
		cursor = next
		if cursor == 0 {
			return
		}
	}
}
