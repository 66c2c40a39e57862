// Package testutil provides shared fixtures for the SetorCuan test suites:
// in-memory databases, seeded users and catalog data, event recorders and
// HTTP helpers.
package testutil

import (
	"database/sql"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/catalog"
	"github.com/setorcuan/backend/internal/infrastructure/persistence"
	"github.com/setorcuan/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// NewSQLiteDB opens a private in-memory SQLite database with the full
// schema. A single connection keeps every statement on the same database.
func NewSQLiteDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_", "#", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	database, err := persistence.Open(sqlite.Open(dsn), nil)
	require.NoError(t, err)

	sqlDB, err := database.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.DB.AutoMigrate(models.AllModels()...))
	t.Cleanup(func() { _ = database.Close() })
	return database.DB
}

// MockDB wraps a GORM database with sqlmock for testing.
type MockDB struct {
	DB    *gorm.DB
	Mock  sqlmock.Sqlmock
	SqlDB *sql.DB
}

// NewMockDB creates a postgres-dialect GORM handle over sqlmock.
// It is closed when the test ends.
func NewMockDB(t *testing.T) *MockDB {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err, "Failed to create sqlmock")

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn:       sqlDB,
		DriverName: "postgres",
	}), &gorm.Config{SkipDefaultTransaction: true, TranslateError: true})
	require.NoError(t, err, "Failed to open GORM connection")

	t.Cleanup(func() { _ = sqlDB.Close() })
	return &MockDB{DB: gormDB, Mock: mock, SqlDB: sqlDB}
}

// ExpectationsWereMet verifies that all expectations were met.
func (m *MockDB) ExpectationsWereMet(t *testing.T) {
	t.Helper()
	require.NoError(t, m.Mock.ExpectationsWereMet(), "Unmet database expectations")
}

// UserOption customizes a fixture user
type UserOption func(*account.User)

// WithCoins sets the starting balance
func WithCoins(coins int64) UserOption {
	return func(u *account.User) { u.Ledger.TotalCoins = coins }
}

// WithRole sets the role
func WithRole(role account.Role) UserOption {
	return func(u *account.User) { u.Role = role }
}

// WithPayout fills in a complete payout profile
func WithPayout(method account.PayoutMethod, acct, whatsapp string) UserOption {
	return func(u *account.User) {
		u.Profile = account.Profile{
			FullName:      u.Username,
			WhatsApp:      whatsapp,
			PayoutMethod:  method,
			PayoutAccount: acct,
			Completed:     whatsapp != "" && method != account.PayoutNone && acct != "",
		}
	}
}

// WithPasswordHash sets the stored hash
func WithPasswordHash(hash string) UserOption {
	return func(u *account.User) { u.PasswordHash = hash }
}

// CreateUser inserts a customer named username with email username@example.com
func CreateUser(t *testing.T, db *gorm.DB, username string, opts ...UserOption) *account.User {
	t.Helper()
	u, err := account.NewUser(username, username+"@example.com", "hash", account.RoleCustomer)
	require.NoError(t, err)
	for _, opt := range opts {
		opt(u)
	}
	require.NoError(t, persistence.NewGormUserRepository(db).Create(t.Context(), u))
	return u
}

// SeedCatalog inserts the standard price table (plastik 5000, kardus 4000,
// kaca 7000) and location lokasi1
func SeedCatalog(t *testing.T, db *gorm.DB) {
	t.Helper()
	repo := persistence.NewGormRecyclableRepository(db)
	for name, price := range map[string]int64{"plastik": 5000, "kardus": 4000, "kaca": 7000} {
		r, err := catalog.NewRecyclable(name, price)
		require.NoError(t, err)
		require.NoError(t, repo.Upsert(t.Context(), r))
	}
	loc, err := catalog.NewLocation("lokasi1", "Bank Sampah Pulau Damar", -5.3737, 105.2485, "Jl. Pulau Damar, Bandar Lampung")
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormLocationRepository(db).Save(t.Context(), loc))
}

// ReloadUser reads a user back from the database
func ReloadUser(t *testing.T, db *gorm.DB, id uuid.UUID) *account.User {
	t.Helper()
	u, err := persistence.NewGormUserRepository(db).FindByID(t.Context(), id)
	require.NoError(t, err)
	return u
}

// Dec parses a decimal literal and panics on malformed input
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// NewTestUUID generates a deterministic UUID from seed.
func NewTestUUID(seed string) uuid.UUID {
	namespace := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")
	return uuid.NewSHA1(namespace, []byte(seed))
}

// AssertEventually retries condition until it passes or the timeout expires.
func AssertEventually(t *testing.T, condition func() bool, timeout, interval time.Duration, msgAndArgs ...any) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return
		}
		time.Sleep(interval)
	}
	require.Fail(t, "Condition not met within timeout", msgAndArgs...)
}
