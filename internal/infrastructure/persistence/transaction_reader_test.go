package persistence

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/exchange"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionReader(t *testing.T) {
	db := newTestDB(t)
	ctx := t.Context()
	deposits := NewGormDepositRepository(db)
	withdrawals := NewGormWithdrawalRepository(db)
	reader := NewGormTransactionReader(db)
	admin := uuid.New()

	budi := createTestUser(t, db, "budi", 100000)
	siti := createTestUser(t, db, "siti", 100000)

	// budi: validated deposit, pending deposit, processing withdrawal
	d1, err := exchange.NewDeposit(budi.ID, "plastik", kg("2"), 5000, "lokasi1")
	require.NoError(t, err)
	require.NoError(t, deposits.Create(ctx, d1))
	require.NoError(t, d1.MarkValidated(admin))
	require.NoError(t, deposits.SaveWithLock(ctx, d1))

	time.Sleep(5 * time.Millisecond)
	d2, err := exchange.NewDeposit(budi.ID, "kaca", kg("1"), 7000, "lokasi1")
	require.NoError(t, err)
	require.NoError(t, deposits.Create(ctx, d2))

	time.Sleep(5 * time.Millisecond)
	w1, err := exchange.NewWithdrawal(budi.ID, 15000, decimal.NewFromInt(1), exchange.Payout{Method: "ovo", Account: "0811"})
	require.NoError(t, err)
	require.NoError(t, withdrawals.Create(ctx, w1))
	require.NoError(t, w1.MarkProcessing(admin))
	require.NoError(t, withdrawals.SaveWithLock(ctx, w1))

	// siti: cancelled withdrawal
	time.Sleep(5 * time.Millisecond)
	w2, err := exchange.NewWithdrawal(siti.ID, 12000, decimal.NewFromInt(1), exchange.Payout{Method: "dana", Account: "0822"})
	require.NoError(t, err)
	require.NoError(t, withdrawals.Create(ctx, w2))
	require.NoError(t, w2.MarkCancelled(admin, "duplicate"))
	require.NoError(t, withdrawals.SaveWithLock(ctx, w2))

	t.Run("user history is merged newest first", func(t *testing.T) {
		records, total, err := reader.List(ctx, exchange.TransactionQuery{
			Filter: shared.DefaultFilter(),
			UserID: &budi.ID,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		require.Len(t, records, 3)
		assert.Equal(t, w1.ID, records[0].ID)
		assert.Equal(t, exchange.KindWithdrawal, records[0].Kind)
		assert.Equal(t, exchange.StatusProcessing, records[0].Status())
		assert.Equal(t, d2.ID, records[1].ID)
		assert.Equal(t, d1.ID, records[2].ID)
		assert.Equal(t, "budi", records[2].Username)
		assert.Equal(t, "plastik", records[2].Category)
		assert.True(t, records[2].WeightKg.Valid)
		assert.NotNil(t, records[2].ResolvedAt)
		assert.False(t, records[0].CurrencyAmount.Decimal.IsZero())
	})

	t.Run("status filter uses normalized statuses", func(t *testing.T) {
		success := exchange.StatusSuccess
		records, total, err := reader.List(ctx, exchange.TransactionQuery{
			Filter: shared.DefaultFilter(),
			UserID: &budi.ID,
			Status: &success,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, records, 1)
		assert.Equal(t, d1.ID, records[0].ID)
	})

	t.Run("processing matches no deposit", func(t *testing.T) {
		processing := exchange.StatusProcessing
		kind := exchange.KindDeposit
		records, total, err := reader.List(ctx, exchange.TransactionQuery{
			Filter: shared.DefaultFilter(),
			Status: &processing,
			Kind:   &kind,
		})
		require.NoError(t, err)
		assert.Zero(t, total)
		assert.Empty(t, records)
	})

	t.Run("admin listing spans users and searches by username", func(t *testing.T) {
		_, total, err := reader.List(ctx, exchange.TransactionQuery{Filter: shared.DefaultFilter()})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)

		f := shared.DefaultFilter()
		f.Search = "SIT"
		records, total, err := reader.List(ctx, exchange.TransactionQuery{Filter: f})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, records, 1)
		assert.Equal(t, exchange.StatusCancelled, records[0].Status())
	})

	t.Run("pages with a stable order", func(t *testing.T) {
		f := shared.DefaultFilter()
		f.PageSize = 3
		f.Page = 2
		records, total, err := reader.List(ctx, exchange.TransactionQuery{Filter: f})
		require.NoError(t, err)
		assert.Equal(t, int64(4), total)
		require.Len(t, records, 1)
		assert.Equal(t, d1.ID, records[0].ID)
	})

	t.Run("counts by normalized status", func(t *testing.T) {
		counts, err := reader.CountByStatus(ctx, budi.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), counts[exchange.StatusSuccess])
		assert.Equal(t, int64(1), counts[exchange.StatusPending])
		assert.Equal(t, int64(1), counts[exchange.StatusProcessing])
		assert.Equal(t, int64(0), counts[exchange.StatusCancelled])
	})
}

func TestFlexTime_Scan(t *testing.T) {
	var ft flexTime
	require.NoError(t, ft.Scan("2025-03-01 10:20:30.123456789+07:00"))
	assert.True(t, ft.Valid)
	assert.Equal(t, 2025, ft.Time.Year())

	require.NoError(t, ft.Scan([]byte("2025-03-01T10:20:30Z")))
	assert.Equal(t, 10, ft.Time.UTC().Hour())

	require.NoError(t, ft.Scan(nil))
	assert.False(t, ft.Valid)

	assert.Error(t, ft.Scan("yesterday"))
	assert.Error(t, ft.Scan(42))
}
