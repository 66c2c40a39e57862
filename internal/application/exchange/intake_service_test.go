package exchange_test

import (
	"testing"

	"github.com/google/uuid"
	appexchange "github.com/setorcuan/backend/internal/application/exchange"
	"github.com/setorcuan/backend/internal/domain/exchange"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/setorcuan/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntakeService_SubmitDeposit(t *testing.T) {
	t.Run("prices the deposit at the current rate", func(t *testing.T) {
		h := newHarness(t)
		user := h.customer(t, "budi", 0)

		resp := h.submitDeposit(t, user.ID, "Plastik", "2.5")

		assert.Equal(t, "plastik", resp.Category)
		assert.Equal(t, int64(5000), resp.PricePerKg)
		assert.Equal(t, int64(12500), resp.Points)
		assert.Equal(t, exchange.StatusPending, resp.Status)
		assert.Equal(t, "Pending", resp.StatusLabel)
		assert.Equal(t, []string{exchange.EventTypeDepositSubmitted}, h.publisher.Types())

		// submission never touches the ledger
		assert.Equal(t, int64(0), testutil.ReloadUser(t, h.db, user.ID).Ledger.TotalCoins)
	})

	t.Run("rejects non-positive weight", func(t *testing.T) {
		h := newHarness(t)
		user := h.customer(t, "budi", 0)

		for _, w := range []string{"0", "-1"} {
			_, err := h.intake.SubmitDeposit(t.Context(), appexchange.SubmitDepositInput{
				UserID: user.ID, Category: "plastik", WeightKg: testutil.Dec(w), LocationID: "lokasi1",
			})
			assert.True(t, shared.IsCode(err, shared.CodeValidation), "weight %s: %v", w, err)
		}
	})

	t.Run("rejects unknown category", func(t *testing.T) {
		h := newHarness(t)
		user := h.customer(t, "budi", 0)

		_, err := h.intake.SubmitDeposit(t.Context(), appexchange.SubmitDepositInput{
			UserID: user.ID, Category: "logam", WeightKg: testutil.Dec("1"), LocationID: "lokasi1",
		})
		assert.True(t, shared.IsCode(err, shared.CodeValidation), "got %v", err)
	})

	t.Run("rejects unknown location", func(t *testing.T) {
		h := newHarness(t)
		user := h.customer(t, "budi", 0)

		_, err := h.intake.SubmitDeposit(t.Context(), appexchange.SubmitDepositInput{
			UserID: user.ID, Category: "kaca", WeightKg: testutil.Dec("1"), LocationID: "lokasi9",
		})
		assert.True(t, shared.IsCode(err, shared.CodeValidation), "got %v", err)
	})

	t.Run("unknown user is not found", func(t *testing.T) {
		h := newHarness(t)

		_, err := h.intake.SubmitDeposit(t.Context(), appexchange.SubmitDepositInput{
			UserID: uuid.New(), Category: "kaca", WeightKg: testutil.Dec("1"), LocationID: "lokasi1",
		})
		assert.True(t, shared.IsCode(err, shared.CodeNotFound), "got %v", err)
		assert.Empty(t, h.publisher.Events())
	})

	t.Run("only one pending deposit per user", func(t *testing.T) {
		h := newHarness(t)
		user := h.customer(t, "budi", 0)
		first := h.submitDeposit(t, user.ID, "kardus", "1")

		_, err := h.intake.SubmitDeposit(t.Context(), appexchange.SubmitDepositInput{
			UserID: user.ID, Category: "kaca", WeightKg: testutil.Dec("1"), LocationID: "lokasi1",
		})
		assert.True(t, shared.IsCode(err, shared.CodeValidation), "got %v", err)

		_, err = h.setStatus(t, first.ID, "validated", "")
		require.NoError(t, err)
		h.submitDeposit(t, user.ID, "kaca", "1")
	})
}

func TestIntakeService_SubmitWithdrawal(t *testing.T) {
	t.Run("records a pending withdrawal without debiting", func(t *testing.T) {
		h := newHarness(t)
		user := h.customer(t, "budi", 50000)

		resp := h.submitWithdrawal(t, user.ID, 20000)

		assert.Equal(t, int64(20000), resp.PointAmount)
		assert.True(t, testutil.Dec("20000").Equal(resp.CurrencyAmount))
		assert.Equal(t, "dana", resp.PayoutMethod)
		assert.Equal(t, "081234567890", resp.PayoutAccount)
		assert.Equal(t, exchange.StatusPending, resp.Status)
		assert.Equal(t, []string{exchange.EventTypeWithdrawalSubmitted}, h.publisher.Types())
		assert.Equal(t, int64(50000), testutil.ReloadUser(t, h.db, user.ID).Ledger.TotalCoins)
	})

	t.Run("enforces configured bounds", func(t *testing.T) {
		h := newHarness(t)
		user := h.customer(t, "budi", 5000000)

		for _, amount := range []int64{0, -5, 9999, 1000001} {
			_, err := h.intake.SubmitWithdrawal(t.Context(), appexchange.SubmitWithdrawalInput{UserID: user.ID, PointAmount: amount})
			assert.True(t, shared.IsCode(err, shared.CodeValidation), "amount %d: %v", amount, err)
		}
		h.submitWithdrawal(t, user.ID, 10000)
	})

	t.Run("insufficient balance", func(t *testing.T) {
		h := newHarness(t)
		user := h.customer(t, "budi", 15000)

		_, err := h.intake.SubmitWithdrawal(t.Context(), appexchange.SubmitWithdrawalInput{UserID: user.ID, PointAmount: 20000})
		assert.True(t, shared.IsCode(err, shared.CodeInsufficientBalance), "got %v", err)
	})

	t.Run("requires a payout profile", func(t *testing.T) {
		h := newHarness(t)
		user := testutil.CreateUser(t, h.db, "siti", testutil.WithCoins(50000))

		_, err := h.intake.SubmitWithdrawal(t.Context(), appexchange.SubmitWithdrawalInput{UserID: user.ID, PointAmount: 20000})
		assert.True(t, shared.IsCode(err, shared.CodeValidation), "got %v", err)
	})

	t.Run("only one outstanding withdrawal per user", func(t *testing.T) {
		h := newHarness(t)
		user := h.customer(t, "budi", 100000)
		first := h.submitWithdrawal(t, user.ID, 20000)

		_, err := h.setStatus(t, first.ID, "processing", "")
		require.NoError(t, err)

		_, err = h.intake.SubmitWithdrawal(t.Context(), appexchange.SubmitWithdrawalInput{UserID: user.ID, PointAmount: 10000})
		assert.True(t, shared.IsCode(err, shared.CodeValidation), "got %v", err)
	})
}
