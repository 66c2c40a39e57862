package exchange_test

import (
	"testing"

	appexchange "github.com/setorcuan/backend/internal/application/exchange"
	"github.com/setorcuan/backend/internal/domain/exchange"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/setorcuan/backend/tests/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// seedHistory gives budi a validated deposit, a pending deposit and a
// pending withdrawal, in that order
func seedHistory(t *testing.T, h *harness) *historyFixture {
	t.Helper()
	budi := h.customer(t, "budi", 50000)
	validated := h.submitDeposit(t, budi.ID, "plastik", "1")
	_, err := h.setStatus(t, validated.ID, "validated", "")
	require.NoError(t, err)
	pending := h.submitDeposit(t, budi.ID, "kaca", "0.5")
	wd := h.submitWithdrawal(t, budi.ID, 10000)

	other := h.customer(t, "siti", 0)
	h.submitDeposit(t, other.ID, "kardus", "3")
	return &historyFixture{budi: budi.ID.String(), validated: validated, pending: pending, withdrawal: wd}
}

type historyFixture struct {
	budi       string
	validated  *appexchange.DepositResponse
	pending    *appexchange.DepositResponse
	withdrawal *appexchange.WithdrawalResponse
}

func TestHistoryService_ListUserHistory(t *testing.T) {
	h := newHarness(t)
	fx := seedHistory(t, h)
	budi := testutil.ReloadUser(t, h.db, fx.withdrawal.UserID)

	t.Run("merges both kinds newest first", func(t *testing.T) {
		page, err := h.history.ListUserHistory(t.Context(), budi.ID, appexchange.HistoryFilter{})
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.Equal(t, int64(3), page.Total)

		assert.Equal(t, fx.withdrawal.ID, page.Items[0].ID)
		assert.Equal(t, exchange.KindWithdrawal, page.Items[0].Kind)
		require.NotNil(t, page.Items[0].CurrencyAmount)
		assert.Equal(t, fx.pending.ID, page.Items[1].ID)
		assert.Equal(t, fx.validated.ID, page.Items[2].ID)
		assert.Equal(t, exchange.StatusSuccess, page.Items[2].Status)
		assert.Equal(t, "Berhasil", page.Items[2].StatusLabel)
		assert.Equal(t, fx.budi, page.Items[2].UserID)
	})

	t.Run("filters by normalized status", func(t *testing.T) {
		page, err := h.history.ListUserHistory(t.Context(), budi.ID, appexchange.HistoryFilter{Status: "berhasil"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, fx.validated.ID, page.Items[0].ID)

		page, err = h.history.ListUserHistory(t.Context(), budi.ID, appexchange.HistoryFilter{Status: "pending"})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)

		page, err = h.history.ListUserHistory(t.Context(), budi.ID, appexchange.HistoryFilter{Status: "diproses"})
		require.NoError(t, err)
		assert.Empty(t, page.Items)
	})

	t.Run("filters by kind", func(t *testing.T) {
		page, err := h.history.ListUserHistory(t.Context(), budi.ID, appexchange.HistoryFilter{Kind: "deposit"})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)

		_, err = h.history.ListUserHistory(t.Context(), budi.ID, appexchange.HistoryFilter{Kind: "refund"})
		assert.True(t, shared.IsCode(err, shared.CodeValidation), "got %v", err)
	})

	t.Run("paginates", func(t *testing.T) {
		page, err := h.history.ListUserHistory(t.Context(), budi.ID, appexchange.HistoryFilter{Page: 2, PageSize: 2})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, fx.validated.ID, page.Items[0].ID)
		assert.Equal(t, 2, page.TotalPages)
	})
}

func TestHistoryService_ListAllTransactions(t *testing.T) {
	h := newHarness(t)
	fx := seedHistory(t, h)

	t.Run("masks owners by default", func(t *testing.T) {
		page, err := h.history.ListAllTransactions(t.Context(), appexchange.AdminFilter{})
		require.NoError(t, err)
		require.Len(t, page.Items, 4)
		for _, item := range page.Items {
			assert.Contains(t, item.UserID, "***")
			assert.NotEqual(t, fx.budi, item.UserID)
		}
		assert.Equal(t, "s***i", page.Items[0].Username)
	})

	t.Run("unmasked listing for detail views", func(t *testing.T) {
		page, err := h.history.ListAllTransactions(t.Context(), appexchange.AdminFilter{Unmasked: true, Search: "bud"})
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		for _, item := range page.Items {
			assert.Equal(t, "budi", item.Username)
			assert.Equal(t, fx.budi, item.UserID)
		}
	})

	t.Run("status and kind combine", func(t *testing.T) {
		page, err := h.history.ListAllTransactions(t.Context(), appexchange.AdminFilter{Status: "pending", Kind: "deposit"})
		require.NoError(t, err)
		assert.Len(t, page.Items, 2)
	})
}

func TestHistoryService_Summary(t *testing.T) {
	h := newHarness(t)
	fx := seedHistory(t, h)

	summary, err := h.history.Summary(t.Context(), fx.withdrawal.UserID)
	require.NoError(t, err)

	assert.Equal(t, int64(55000), summary.TotalCoins)
	assert.True(t, testutil.Dec("1").Equal(summary.TotalKg))
	assert.Equal(t, int64(5000), summary.CoinExchanged)
	assert.Equal(t, map[exchange.Status]int64{
		exchange.StatusPending:    2,
		exchange.StatusProcessing: 0,
		exchange.StatusSuccess:    1,
		exchange.StatusCancelled:  0,
	}, summary.Counts)
}
