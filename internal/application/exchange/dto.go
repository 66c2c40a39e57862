package exchange

import (
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/exchange"
	"github.com/shopspring/decimal"
)

// SubmitDepositInput is a customer's deposit request
type SubmitDepositInput struct {
	UserID     uuid.UUID
	Category   string
	WeightKg   decimal.Decimal
	LocationID string
}

// SubmitWithdrawalInput is a customer's request to cash out points
type SubmitWithdrawalInput struct {
	UserID      uuid.UUID
	PointAmount int64
}

// UpdateStatusInput is an admin status change. Status is any raw or
// normalized status name; it is normalized before use.
type UpdateStatusInput struct {
	TransactionID uuid.UUID
	Status        string
	ProofURL      string
	Note          string
	AdminID       uuid.UUID
}

// UploadProofInput carries a proof-of-transfer file
type UploadProofInput struct {
	WithdrawalID uuid.UUID
	AdminID      uuid.UUID
	ContentType  string
	Body         io.Reader
}

// HistoryFilter narrows a customer's history
type HistoryFilter struct {
	Status   string
	Kind     string
	Page     int
	PageSize int
}

// AdminFilter narrows the admin transaction listing
type AdminFilter struct {
	Status   string
	Kind     string
	Search   string
	UserID   *uuid.UUID
	Unmasked bool
	Page     int
	PageSize int
}

// DepositResponse is a deposit as returned to clients
type DepositResponse struct {
	ID          uuid.UUID       `json:"id"`
	Kind        exchange.Kind   `json:"kind"`
	UserID      uuid.UUID       `json:"user_id"`
	Category    string          `json:"category"`
	WeightKg    decimal.Decimal `json:"weight_kg"`
	PricePerKg  int64           `json:"price_per_kg"`
	Points      int64           `json:"points"`
	LocationID  string          `json:"location_id"`
	RawStatus   string          `json:"raw_status"`
	Status      exchange.Status `json:"status"`
	StatusLabel string          `json:"status_label"`
	Note        string          `json:"note,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	ResolvedAt  *time.Time      `json:"resolved_at,omitempty"`
}

// WithdrawalResponse is a withdrawal as returned to clients
type WithdrawalResponse struct {
	ID             uuid.UUID       `json:"id"`
	Kind           exchange.Kind   `json:"kind"`
	UserID         uuid.UUID       `json:"user_id"`
	PointAmount    int64           `json:"point_amount"`
	CurrencyAmount decimal.Decimal `json:"currency_amount"`
	PayoutMethod   string          `json:"payout_method"`
	PayoutAccount  string          `json:"payout_account"`
	RawStatus      string          `json:"raw_status"`
	Status         exchange.Status `json:"status"`
	StatusLabel    string          `json:"status_label"`
	ProofURL       string          `json:"proof_url,omitempty"`
	Note           string          `json:"note,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	ResolvedAt     *time.Time      `json:"resolved_at,omitempty"`
}

// TransactionResponse is one row of a merged listing
type TransactionResponse struct {
	ID             uuid.UUID        `json:"id"`
	Kind           exchange.Kind    `json:"kind"`
	UserID         string           `json:"user_id"`
	Username       string           `json:"username,omitempty"`
	RawStatus      string           `json:"raw_status"`
	Status         exchange.Status  `json:"status"`
	StatusLabel    string           `json:"status_label"`
	Points         int64            `json:"points"`
	Category       string           `json:"category,omitempty"`
	WeightKg       *decimal.Decimal `json:"weight_kg,omitempty"`
	CurrencyAmount *decimal.Decimal `json:"currency_amount,omitempty"`
	LocationID     string           `json:"location_id,omitempty"`
	ProofURL       string           `json:"proof_url,omitempty"`
	CreatedAt      time.Time        `json:"created_at"`
	ResolvedAt     *time.Time       `json:"resolved_at,omitempty"`
}

// TransitionResult reports the outcome of a status change
type TransitionResult struct {
	TransactionID uuid.UUID       `json:"transaction_id"`
	Kind          exchange.Kind   `json:"kind"`
	FromStatus    string          `json:"from_status"`
	ToStatus      string          `json:"to_status"`
	Status        exchange.Status `json:"status"`
	BalanceAfter  *int64          `json:"balance_after,omitempty"`
}

// SummaryResponse is the customer dashboard
type SummaryResponse struct {
	TotalCoins    int64                     `json:"total_coins"`
	TotalKg       decimal.Decimal           `json:"total_kg"`
	CoinExchanged int64                     `json:"coin_exchanged"`
	Counts        map[exchange.Status]int64 `json:"counts"`
}

// ToDepositResponse converts a domain Deposit
func ToDepositResponse(d *exchange.Deposit) DepositResponse {
	st := d.NormalizedStatus()
	return DepositResponse{
		ID:          d.ID,
		Kind:        exchange.KindDeposit,
		UserID:      d.UserID,
		Category:    d.Category,
		WeightKg:    d.WeightKg,
		PricePerKg:  d.PricePerKg,
		Points:      d.Points,
		LocationID:  d.LocationID,
		RawStatus:   string(d.Status),
		Status:      st,
		StatusLabel: st.Label(),
		Note:        d.Note,
		CreatedAt:   d.CreatedAt,
		ResolvedAt:  d.ResolvedAt,
	}
}

// ToWithdrawalResponse converts a domain Withdrawal
func ToWithdrawalResponse(w *exchange.Withdrawal) WithdrawalResponse {
	st := w.NormalizedStatus()
	resp := WithdrawalResponse{
		ID:             w.ID,
		Kind:           exchange.KindWithdrawal,
		UserID:         w.UserID,
		PointAmount:    w.PointAmount,
		CurrencyAmount: w.CurrencyAmount,
		PayoutMethod:   w.Payout.Method,
		PayoutAccount:  w.Payout.Account,
		RawStatus:      string(w.Status),
		Status:         st,
		StatusLabel:    st.Label(),
		Note:           w.Note,
		CreatedAt:      w.CreatedAt,
		ResolvedAt:     w.ResolvedAt,
	}
	if w.ProofURL != nil {
		resp.ProofURL = *w.ProofURL
	}
	return resp
}

// ToTransactionResponse converts a read-model record. When mask is set the
// user ID and username are masked.
func ToTransactionResponse(r exchange.TransactionRecord, mask bool) TransactionResponse {
	st := r.Status()
	resp := TransactionResponse{
		ID:          r.ID,
		Kind:        r.Kind,
		UserID:      r.UserID.String(),
		Username:    r.Username,
		RawStatus:   r.RawStatus,
		Status:      st,
		StatusLabel: st.Label(),
		Points:      r.Points,
		Category:    r.Category,
		LocationID:  r.LocationID,
		ProofURL:    r.ProofURL,
		CreatedAt:   r.CreatedAt,
		ResolvedAt:  r.ResolvedAt,
	}
	if r.WeightKg.Valid {
		w := r.WeightKg.Decimal
		resp.WeightKg = &w
	}
	if r.CurrencyAmount.Valid {
		c := r.CurrencyAmount.Decimal
		resp.CurrencyAmount = &c
	}
	if mask {
		resp.UserID = MaskIdentifier(resp.UserID)
		resp.Username = MaskIdentifier(resp.Username)
	}
	return resp
}

func summaryFromLedger(l account.Ledger, counts map[exchange.Status]int64) SummaryResponse {
	full := make(map[exchange.Status]int64, len(exchange.AllStatuses()))
	for _, s := range exchange.AllStatuses() {
		full[s] = counts[s]
	}
	return SummaryResponse{
		TotalCoins:    l.TotalCoins,
		TotalKg:       l.TotalKg,
		CoinExchanged: l.CoinExchanged,
		Counts:        full,
	}
}
