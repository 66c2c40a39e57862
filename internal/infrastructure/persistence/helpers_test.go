package persistence

import (
	"fmt"
	"strings"
	"testing"

	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/catalog"
	"github.com/setorcuan/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// newTestDB opens a private in-memory SQLite database with the full schema.
// A single connection keeps every statement on the same memory database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	database, err := Open(sqlite.Open(dsn), nil)
	require.NoError(t, err)

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.DB.AutoMigrate(models.AllModels()...))
	t.Cleanup(func() { _ = database.Close() })
	return database.DB
}

func createTestUser(t *testing.T, db *gorm.DB, username string, coins int64) *account.User {
	t.Helper()
	u, err := account.NewUser(username, username+"@example.com", "hash", account.RoleCustomer)
	require.NoError(t, err)
	u.Ledger.TotalCoins = coins
	require.NoError(t, NewGormUserRepository(db).Create(t.Context(), u))
	return u
}

func seedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	repo := NewGormRecyclableRepository(db)
	for name, price := range map[string]int64{"plastik": 5000, "kardus": 4000, "kaca": 7000} {
		r, err := catalog.NewRecyclable(name, price)
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(t.Context(), r))
	}
	loc, err := catalog.NewLocation("lokasi1", "Bank Sampah Pulau Damar", -5.36, 105.24, "Jl. Pulau Damar")
	require.NoError(t, err)
	require.NoError(t, NewGormLocationRepository(db).Save(t.Context(), loc))
}

func kg(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
