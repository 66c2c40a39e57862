package account_test

import (
	"math"
	"testing"

	"github.com/google/uuid"
	appaccount "github.com/setorcuan/backend/internal/application/account"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/setorcuan/backend/internal/infrastructure/persistence"
	"github.com/setorcuan/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newAdjustmentService(t *testing.T) (*appaccount.AdjustmentService, *gorm.DB, *account.User) {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	svc := appaccount.NewAdjustmentService(
		persistence.NewGormAccountTransactionScope(db),
		persistence.NewGormAuditRepository(db),
		nil,
	)
	admin := testutil.CreateUser(t, db, "admin", testutil.WithRole(account.RoleAdmin))
	return svc, db, admin
}

func TestAdjustmentService_AdjustPoints(t *testing.T) {
	t.Run("add writes the balance and one audit entry", func(t *testing.T) {
		svc, db, admin := newAdjustmentService(t)
		user := testutil.CreateUser(t, db, "budi", testutil.WithCoins(1000))
		publisher := testutil.NewRecordingPublisher()
		svc.SetEventPublisher(publisher)

		res, err := svc.AdjustPoints(t.Context(), appaccount.AdjustPointsInput{
			ActorID: admin.ID, UserID: user.ID, Amount: 500, Operation: "add", Reason: "bonus event",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1000), res.BalanceBefore)
		assert.Equal(t, int64(1500), res.BalanceAfter)
		assert.Equal(t, int64(1500), testutil.ReloadUser(t, db, user.ID).Ledger.TotalCoins)
		assert.Equal(t, []string{account.EventTypeBalanceChanged}, publisher.Types())

		page, err := svc.ListAudit(t.Context(), appaccount.AuditListFilter{TargetID: &user.ID})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		entry := page.Items[0]
		assert.Equal(t, res.AuditID, entry.ID)
		assert.Equal(t, admin.ID, entry.ActorID)
		assert.Equal(t, "points.add", entry.Action)
		assert.Equal(t, int64(500), entry.Amount)
		assert.Equal(t, "bonus event", entry.Reason)
	})

	t.Run("subtract below zero fails and writes nothing", func(t *testing.T) {
		svc, db, admin := newAdjustmentService(t)
		user := testutil.CreateUser(t, db, "budi", testutil.WithCoins(300))

		_, err := svc.AdjustPoints(t.Context(), appaccount.AdjustPointsInput{
			ActorID: admin.ID, UserID: user.ID, Amount: 500, Operation: "subtract",
		})
		assert.True(t, shared.IsCode(err, shared.CodeInsufficientBalance), "got %v", err)
		assert.Equal(t, int64(300), testutil.ReloadUser(t, db, user.ID).Ledger.TotalCoins)

		page, err := svc.ListAudit(t.Context(), appaccount.AuditListFilter{})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("subtract exact balance reaches zero", func(t *testing.T) {
		svc, db, admin := newAdjustmentService(t)
		user := testutil.CreateUser(t, db, "budi", testutil.WithCoins(300))

		res, err := svc.AdjustPoints(t.Context(), appaccount.AdjustPointsInput{
			ActorID: admin.ID, UserID: user.ID, Amount: 300, Operation: "SUBTRACT",
		})
		require.NoError(t, err)
		assert.Equal(t, int64(0), res.BalanceAfter)
	})

	t.Run("add that would overflow the balance is a validation error", func(t *testing.T) {
		svc, db, admin := newAdjustmentService(t)
		user := testutil.CreateUser(t, db, "budi", testutil.WithCoins(math.MaxInt64-5))

		_, err := svc.AdjustPoints(t.Context(), appaccount.AdjustPointsInput{
			ActorID: admin.ID, UserID: user.ID, Amount: 10, Operation: "add",
		})
		assert.True(t, shared.IsCode(err, shared.CodeValidation), "got %v", err)
		assert.Equal(t, int64(math.MaxInt64-5), testutil.ReloadUser(t, db, user.ID).Ledger.TotalCoins)

		page, err := svc.ListAudit(t.Context(), appaccount.AuditListFilter{})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("validation and lookup errors", func(t *testing.T) {
		svc, db, admin := newAdjustmentService(t)
		user := testutil.CreateUser(t, db, "budi")

		tests := []struct {
			name string
			in   appaccount.AdjustPointsInput
			code string
		}{
			{"zero amount", appaccount.AdjustPointsInput{ActorID: admin.ID, UserID: user.ID, Amount: 0, Operation: "add"}, shared.CodeValidation},
			{"negative amount", appaccount.AdjustPointsInput{ActorID: admin.ID, UserID: user.ID, Amount: -10, Operation: "add"}, shared.CodeValidation},
			{"amount above the adjustment cap", appaccount.AdjustPointsInput{ActorID: admin.ID, UserID: user.ID, Amount: account.MaxAdjustmentAmount + 1, Operation: "add"}, shared.CodeValidation},
			{"unknown operation", appaccount.AdjustPointsInput{ActorID: admin.ID, UserID: user.ID, Amount: 10, Operation: "multiply"}, shared.CodeValidation},
			{"unknown user", appaccount.AdjustPointsInput{ActorID: admin.ID, UserID: uuid.New(), Amount: 10, Operation: "add"}, shared.CodeNotFound},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.AdjustPoints(t.Context(), tt.in)
				assert.True(t, shared.IsCode(err, tt.code), "got %v", err)
			})
		}
	})
}
