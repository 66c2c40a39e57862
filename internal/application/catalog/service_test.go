package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/setorcuan/backend/internal/domain/catalog"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRecyclableRepository struct {
	mock.Mock
}

func (m *MockRecyclableRepository) FindByName(ctx context.Context, name string) (*catalog.Recyclable, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Recyclable), args.Error(1)
}

func (m *MockRecyclableRepository) FindAll(ctx context.Context) ([]catalog.Recyclable, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Recyclable), args.Error(1)
}

func (m *MockRecyclableRepository) Upsert(ctx context.Context, r *catalog.Recyclable) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecyclableRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockLocationRepository struct {
	mock.Mock
}

func (m *MockLocationRepository) FindByID(ctx context.Context, id string) (*catalog.Location, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Location), args.Error(1)
}

func (m *MockLocationRepository) FindAll(ctx context.Context) ([]catalog.Location, error) {
	args := m.Called(ctx)
	return args.Get(0).([]catalog.Location), args.Error(1)
}

func (m *MockLocationRepository) Save(ctx context.Context, l *catalog.Location) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLocationRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockPriceCache struct {
	mock.Mock
}

func (m *MockPriceCache) Get(ctx context.Context) ([]catalog.Recyclable, bool, error) {
	args := m.Called(ctx)
	items, _ := args.Get(0).([]catalog.Recyclable)
	return items, args.Bool(1), args.Error(2)
}

func (m *MockPriceCache) Set(ctx context.Context, items []catalog.Recyclable) error {
	return m.Called(ctx, items).Error(0)
}

func (m *MockPriceCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func priceTable() []catalog.Recyclable {
	now := time.Now()
	return []catalog.Recyclable{
		{Name: "kaca", PricePerKg: 7000, UpdatedAt: now},
		{Name: "kardus", PricePerKg: 4000, UpdatedAt: now},
		{Name: "plastik", PricePerKg: 5000, UpdatedAt: now},
	}
}

func TestService_ListRecyclables(t *testing.T) {
	ctx := context.Background()

	t.Run("cache hit skips the database", func(t *testing.T) {
		repo := new(MockRecyclableRepository)
		cache := new(MockPriceCache)
		cache.On("Get", ctx).Return(priceTable(), true, nil)

		svc := NewService(repo, nil, cache, nil)
		got, err := svc.ListRecyclables(ctx)

		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "Kaca", got[0].DisplayName)
		repo.AssertNotCalled(t, "FindAll", mock.Anything)
	})

	t.Run("cache miss loads and fills the cache", func(t *testing.T) {
		repo := new(MockRecyclableRepository)
		cache := new(MockPriceCache)
		table := priceTable()
		cache.On("Get", ctx).Return(nil, false, nil)
		repo.On("FindAll", ctx).Return(table, nil)
		cache.On("Set", ctx, table).Return(nil)

		svc := NewService(repo, nil, cache, nil)
		got, err := svc.ListRecyclables(ctx)

		require.NoError(t, err)
		assert.Len(t, got, 3)
		cache.AssertExpectations(t)
	})

	t.Run("cache failure falls back to the database", func(t *testing.T) {
		repo := new(MockRecyclableRepository)
		cache := new(MockPriceCache)
		cache.On("Get", ctx).Return(nil, false, errors.New("redis down"))
		cache.On("Set", ctx, mock.Anything).Return(errors.New("redis down"))
		repo.On("FindAll", ctx).Return(priceTable(), nil)

		got, err := NewService(repo, nil, cache, nil).ListRecyclables(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("works without a cache", func(t *testing.T) {
		repo := new(MockRecyclableRepository)
		repo.On("FindAll", ctx).Return(priceTable(), nil)

		got, err := NewService(repo, nil, nil, nil).ListRecyclables(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestService_PriceOf(t *testing.T) {
	ctx := context.Background()
	repo := new(MockRecyclableRepository)
	repo.On("FindAll", ctx).Return(priceTable(), nil)
	svc := NewService(repo, nil, nil, nil)

	price, err := svc.PriceOf(ctx, "  Plastik ")
	require.NoError(t, err)
	assert.Equal(t, int64(5000), price)

	_, err = svc.PriceOf(ctx, "logam")
	assert.True(t, shared.IsCode(err, shared.CodeValidation))

	_, err = svc.PriceOf(ctx, "")
	assert.True(t, shared.IsCode(err, shared.CodeValidation))
}

func TestService_LocationExists(t *testing.T) {
	ctx := context.Background()
	locs := new(MockLocationRepository)
	locs.On("FindByID", ctx, "lokasi1").Return(&catalog.Location{ID: "lokasi1"}, nil)
	locs.On("FindByID", ctx, "lokasi9").Return(nil, shared.NewNotFoundError("location", "lokasi9"))
	locs.On("FindByID", ctx, "broken").Return(nil, errors.New("db down"))
	svc := NewService(nil, locs, nil, nil)

	ok, err := svc.LocationExists(ctx, "lokasi1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.LocationExists(ctx, "lokasi9")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = svc.LocationExists(ctx, "broken")
	assert.Error(t, err)
}

func TestService_ListLocations(t *testing.T) {
	ctx := context.Background()
	locs := new(MockLocationRepository)
	locs.On("FindAll", ctx).Return([]catalog.Location{
		{ID: "lokasi1", Name: "Bank Sampah Pulau Damar", OpenTime: "08:00", CloseTime: "17:00"},
	}, nil)

	got, err := NewService(nil, locs, nil, nil).ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "lokasi1", got[0].ID)
	assert.Equal(t, "08:00", got[0].OpenTime)
}

func TestService_UpsertPrice(t *testing.T) {
	ctx := context.Background()

	t.Run("reprices an existing category", func(t *testing.T) {
		repo := new(MockRecyclableRepository)
		cache := new(MockPriceCache)
		existing := &catalog.Recyclable{Name: "plastik", PricePerKg: 5000}
		repo.On("FindByName", ctx, "Plastik").Return(existing, nil)
		repo.On("Upsert", ctx, existing).Return(nil)
		cache.On("Invalidate", ctx).Return(nil)

		got, err := NewService(repo, nil, cache, nil).UpsertPrice(ctx, UpsertPriceRequest{Name: "Plastik", PricePerKg: 5500})

		require.NoError(t, err)
		assert.Equal(t, int64(5500), got.PricePerKg)
		cache.AssertCalled(t, "Invalidate", ctx)
	})

	t.Run("creates a new category", func(t *testing.T) {
		repo := new(MockRecyclableRepository)
		repo.On("FindByName", ctx, "Logam").Return(nil, shared.NewNotFoundError("recyclable", "logam"))
		repo.On("Upsert", ctx, mock.MatchedBy(func(r *catalog.Recyclable) bool {
			return r.Name == "logam" && r.PricePerKg == 9000
		})).Return(nil)

		got, err := NewService(repo, nil, nil, nil).UpsertPrice(ctx, UpsertPriceRequest{Name: "Logam", PricePerKg: 9000})
		require.NoError(t, err)
		assert.Equal(t, "Logam", got.DisplayName)
		repo.AssertExpectations(t)
	})

	t.Run("rejects a non-positive price", func(t *testing.T) {
		repo := new(MockRecyclableRepository)
		repo.On("FindByName", ctx, "kaca").Return(&catalog.Recyclable{Name: "kaca", PricePerKg: 7000}, nil)

		_, err := NewService(repo, nil, nil, nil).UpsertPrice(ctx, UpsertPriceRequest{Name: "kaca", PricePerKg: 0})
		assert.True(t, shared.IsCode(err, shared.CodeValidation))
		repo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything)
	})
}
