package service

import (
	"context"
	"errors"
	"fmt"

	"storefront/internal/models"
	"storefront/internal/redisclient"
	"storefront/internal/store"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// CatalogService serves read-only product listings. Reads go through the
// Redis cache when one is configured; the cache is best-effort and every
// failure falls back to the database.
type CatalogService struct {
	store  *store.Store
	cache  *redisclient.Client
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service. cache may be nil.
func NewCatalogService(store *store.Store, cache *redisclient.Client) *CatalogService {
	return &CatalogService{
		store:  store,
		cache:  cache,
		logger: util.GetLogger(),
	}
}

// ListProducts returns all products in storage order.
func (s *CatalogService) ListProducts(ctx context.Context) ([]models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.ListProducts")
	defer span.End()

	if s.cache != nil {
		products, err := s.cache.GetProductList(ctx)
		if err == nil {
			util.CatalogCacheHits.Inc()
			return products, nil
		}
		if !redisclient.IsMiss(err) {
			s.logger.Warn("Catalog cache read failed", zap.Error(err))
		}
		util.CatalogCacheMisses.Inc()
	}

	products, err := s.store.GetProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetProductList(ctx, products); err != nil {
			s.logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}

	return products, nil
}

// GetProduct returns one product or ErrProductNotFound.
func (s *CatalogService) GetProduct(ctx context.Context, id int64) (*models.Product, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.GetProduct")
	defer span.End()

	if s.cache != nil {
		product, err := s.cache.GetProduct(ctx, id)
		if err == nil {
			util.CatalogCacheHits.Inc()
			return product, nil
		}
		if !redisclient.IsMiss(err) {
			s.logger.Warn("Catalog cache read failed", zap.Error(err))
		}
		util.CatalogCacheMisses.Inc()
	}

	product, err := s.store.GetProductByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}

	if s.cache != nil {
		if err := s.cache.SetProduct(ctx, product); err != nil {
			s.logger.Warn("Catalog cache write failed", zap.Error(err))
		}
	}

	return product, nil
}
