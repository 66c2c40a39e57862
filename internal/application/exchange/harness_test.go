package exchange_test

import (
	"testing"

	"github.com/google/uuid"
	appcatalog "github.com/setorcuan/backend/internal/application/catalog"
	appexchange "github.com/setorcuan/backend/internal/application/exchange"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/infrastructure/persistence"
	"github.com/setorcuan/backend/internal/infrastructure/persistence/models"
	"github.com/setorcuan/backend/internal/infrastructure/storage"
	"github.com/setorcuan/backend/tests/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type harness struct {
	db        *gorm.DB
	publisher *testutil.RecordingPublisher
	catalog   *appcatalog.Service
	intake    *appexchange.IntakeService
	lifecycle *appexchange.LifecycleService
	history   *appexchange.HistoryService
	proofs    *storage.LocalStore
	admin     *account.User
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	testutil.SeedCatalog(t, db)

	catalogSvc := appcatalog.NewService(
		persistence.NewGormRecyclableRepository(db),
		persistence.NewGormLocationRepository(db),
		nil, nil,
	)
	scope := persistence.NewGormExchangeTransactionScope(db)
	proofs, err := storage.NewLocalStore(t.TempDir(), "", 1<<20)
	require.NoError(t, err)

	h := &harness{
		db:        db,
		publisher: testutil.NewRecordingPublisher(),
		catalog:   catalogSvc,
		intake:    appexchange.NewIntakeService(scope, catalogSvc, appexchange.DefaultLimits(), nil),
		lifecycle: appexchange.NewLifecycleService(scope, proofs, nil),
		history: appexchange.NewHistoryService(
			persistence.NewGormTransactionReader(db),
			persistence.NewGormUserRepository(db),
		),
		proofs: proofs,
		admin:  testutil.CreateUser(t, db, "admin", testutil.WithRole(account.RoleAdmin)),
	}
	h.intake.SetEventPublisher(h.publisher)
	h.lifecycle.SetEventPublisher(h.publisher)
	return h
}

// customer creates a user with a complete payout profile
func (h *harness) customer(t *testing.T, name string, coins int64) *account.User {
	t.Helper()
	return testutil.CreateUser(t, h.db, name,
		testutil.WithCoins(coins),
		testutil.WithPayout(account.PayoutDana, "081234567890", "081234567890"),
	)
}

func (h *harness) setCoins(t *testing.T, id uuid.UUID, coins int64) {
	t.Helper()
	require.NoError(t, h.db.Model(&models.UserModel{}).Where("id = ?", id).Update("total_coins", coins).Error)
}

func (h *harness) submitDeposit(t *testing.T, userID uuid.UUID, category, weight string) *appexchange.DepositResponse {
	t.Helper()
	resp, err := h.intake.SubmitDeposit(t.Context(), appexchange.SubmitDepositInput{
		UserID:     userID,
		Category:   category,
		WeightKg:   testutil.Dec(weight),
		LocationID: "lokasi1",
	})
	require.NoError(t, err)
	return resp
}

func (h *harness) submitWithdrawal(t *testing.T, userID uuid.UUID, points int64) *appexchange.WithdrawalResponse {
	t.Helper()
	resp, err := h.intake.SubmitWithdrawal(t.Context(), appexchange.SubmitWithdrawalInput{
		UserID:      userID,
		PointAmount: points,
	})
	require.NoError(t, err)
	return resp
}

func (h *harness) setStatus(t *testing.T, id uuid.UUID, status, proof string) (*appexchange.TransitionResult, error) {
	t.Helper()
	return h.lifecycle.UpdateStatus(t.Context(), appexchange.UpdateStatusInput{
		TransactionID: id,
		Status:        status,
		ProofURL:      proof,
		AdminID:       h.admin.ID,
	})
}
