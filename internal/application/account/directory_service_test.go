package account_test

import (
	"testing"

	"github.com/google/uuid"
	appaccount "github.com/setorcuan/backend/internal/application/account"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/setorcuan/backend/internal/infrastructure/persistence"
	"github.com/setorcuan/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectoryService_ListUsers(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := appaccount.NewDirectoryService(persistence.NewGormUserRepository(db))
	testutil.CreateUser(t, db, "admin", testutil.WithRole(account.RoleAdmin))
	testutil.CreateUser(t, db, "budi", testutil.WithCoins(25000))
	testutil.CreateUser(t, db, "siti", testutil.WithCoins(4000))

	t.Run("customers carry their ledger", func(t *testing.T) {
		page, err := svc.ListUsers(t.Context(), appaccount.UserListFilter{Role: "customer", OrderBy: "total_coins"})
		require.NoError(t, err)
		assert.Equal(t, int64(2), page.Total)
		require.Len(t, page.Items, 2)
		assert.Equal(t, "budi", page.Items[0].Username)
		assert.Equal(t, int64(25000), page.Items[0].TotalCoins)
		assert.Equal(t, account.RoleCustomer, page.Items[1].Role)
	})

	t.Run("search and paging", func(t *testing.T) {
		page, err := svc.ListUsers(t.Context(), appaccount.UserListFilter{Search: "sit", PageSize: 1})
		require.NoError(t, err)
		assert.Equal(t, int64(1), page.Total)
		assert.Equal(t, 1, page.PageSize)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "siti", page.Items[0].Username)
	})

	t.Run("unknown role is rejected", func(t *testing.T) {
		_, err := svc.ListUsers(t.Context(), appaccount.UserListFilter{Role: "superuser"})
		assert.True(t, shared.IsCode(err, shared.CodeValidation), "got %v", err)
	})
}

func TestDirectoryService_GetUser(t *testing.T) {
	db := testutil.NewSQLiteDB(t)
	svc := appaccount.NewDirectoryService(persistence.NewGormUserRepository(db))
	budi := testutil.CreateUser(t, db, "budi", testutil.WithCoins(700))

	res, err := svc.GetUser(t.Context(), budi.ID)
	require.NoError(t, err)
	assert.Equal(t, budi.ID, res.ID)
	assert.Equal(t, int64(700), res.TotalCoins)

	_, err = svc.GetUser(t.Context(), uuid.New())
	assert.True(t, shared.IsCode(err, shared.CodeNotFound))
}
