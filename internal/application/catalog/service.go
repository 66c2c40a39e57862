package catalog

import (
	"context"
	"errors"

	"github.com/setorcuan/backend/internal/domain/catalog"
	"github.com/setorcuan/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PriceCache holds the full price table between reads
type PriceCache interface {
	Get(ctx context.Context) ([]catalog.Recyclable, bool, error)
	Set(ctx context.Context, items []catalog.Recyclable) error
	Invalidate(ctx context.Context) error
}

// Service serves the price table and drop-off locations
type Service struct {
	recyclables catalog.RecyclableRepository
	locations   catalog.LocationRepository
	cache       PriceCache
	logger      *zap.Logger
}

// NewService creates a catalog service. cache may be nil.
func NewService(
	recyclables catalog.RecyclableRepository,
	locations catalog.LocationRepository,
	cache PriceCache,
	logger *zap.Logger,
) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		recyclables: recyclables,
		locations:   locations,
		cache:       cache,
		logger:      logger,
	}
}

// ListRecyclables returns the price table, from cache when possible.
// Cache errors degrade to a database read.
func (s *Service) ListRecyclables(ctx context.Context) ([]RecyclableResponse, error) {
	items, err := s.priceTable(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]RecyclableResponse, len(items))
	for i := range items {
		out[i] = ToRecyclableResponse(&items[i])
	}
	return out, nil
}

// PriceOf returns the current points per kg for a category.
// An unknown category is a validation error.
func (s *Service) PriceOf(ctx context.Context, category string) (int64, error) {
	key := catalog.NormalizeCategory(category)
	if key == "" {
		return 0, shared.NewValidationError("category is required")
	}
	items, err := s.priceTable(ctx)
	if err != nil {
		return 0, err
	}
	for _, it := range items {
		if it.Name == key {
			return it.PricePerKg, nil
		}
	}
	return 0, shared.NewValidationError("unknown category %q", category)
}

// LocationExists reports whether a drop-off location ID is known
func (s *Service) LocationExists(ctx context.Context, id string) (bool, error) {
	_, err := s.locations.FindByID(ctx, id)
	if shared.IsCode(err, shared.CodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListLocations returns every drop-off location
func (s *Service) ListLocations(ctx context.Context) ([]LocationResponse, error) {
	locs, err := s.locations.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LocationResponse, len(locs))
	for i := range locs {
		out[i] = ToLocationResponse(&locs[i])
	}
	return out, nil
}

// UpsertPrice creates or reprices a category and drops the cached table.
// Deposits already submitted keep the price they were created with.
func (s *Service) UpsertPrice(ctx context.Context, req UpsertPriceRequest) (*RecyclableResponse, error) {
	rec, err := s.recyclables.FindByName(ctx, req.Name)
	switch {
	case shared.IsCode(err, shared.CodeNotFound):
		rec, err = catalog.NewRecyclable(req.Name, req.PricePerKg)
		if err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := rec.UpdatePrice(req.PricePerKg); err != nil {
			return nil, err
		}
	}

	if err := s.recyclables.Upsert(ctx, rec); err != nil {
		return nil, err
	}
	s.invalidate(ctx)

	s.logger.Info("recyclable price updated",
		zap.String("category", rec.Name),
		zap.Int64("price_per_kg", rec.PricePerKg),
	)
	resp := ToRecyclableResponse(rec)
	return &resp, nil
}

func (s *Service) priceTable(ctx context.Context) ([]catalog.Recyclable, error) {
	if s.cache != nil {
		items, ok, err := s.cache.Get(ctx)
		if err != nil {
			s.logger.Warn("price cache read failed", zap.Error(err))
		} else if ok {
			return items, nil
		}
	}

	items, err := s.recyclables.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil && len(items) > 0 {
		if err := s.cache.Set(ctx, items); err != nil {
			s.logger.Warn("price cache write failed", zap.Error(err))
		}
	}
	return items, nil
}

func (s *Service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Warn("price cache invalidation failed", zap.Error(err))
	}
}
