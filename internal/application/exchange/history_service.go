package exchange

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/exchange"
	"github.com/setorcuan/backend/internal/domain/shared"
)

// HistoryService serves the read views over deposits and withdrawals
type HistoryService struct {
	reader exchange.TransactionReader
	users  account.UserRepository
}

// NewHistoryService creates a new HistoryService
func NewHistoryService(reader exchange.TransactionReader, users account.UserRepository) *HistoryService {
	return &HistoryService{reader: reader, users: users}
}

// ListUserHistory returns the user's deposits and withdrawals, newest first
func (s *HistoryService) ListUserHistory(ctx context.Context, userID uuid.UUID, f HistoryFilter) (*shared.Paginated[TransactionResponse], error) {
	q, err := buildQuery(f.Status, f.Kind, "", f.Page, f.PageSize)
	if err != nil {
		return nil, err
	}
	q.UserID = &userID
	return s.list(ctx, q, false)
}

// ListAllTransactions returns every transaction with its owner's username.
// Owner identifiers are masked unless f.Unmasked is set.
func (s *HistoryService) ListAllTransactions(ctx context.Context, f AdminFilter) (*shared.Paginated[TransactionResponse], error) {
	q, err := buildQuery(f.Status, f.Kind, f.Search, f.Page, f.PageSize)
	if err != nil {
		return nil, err
	}
	q.UserID = f.UserID
	return s.list(ctx, q, !f.Unmasked)
}

// Summary returns the user's ledger with transaction counts per status
func (s *HistoryService) Summary(ctx context.Context, userID uuid.UUID) (*SummaryResponse, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.reader.CountByStatus(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := summaryFromLedger(user.Ledger, counts)
	return &resp, nil
}

func (s *HistoryService) list(ctx context.Context, q exchange.TransactionQuery, mask bool) (*shared.Paginated[TransactionResponse], error) {
	records, total, err := s.reader.List(ctx, q)
	if err != nil {
		return nil, err
	}
	items := make([]TransactionResponse, len(records))
	for i, r := range records {
		items[i] = ToTransactionResponse(r, mask)
	}
	page := shared.NewPaginated(items, total, q.Page, q.PageSize)
	return &page, nil
}

func buildQuery(status, kind, search string, page, pageSize int) (exchange.TransactionQuery, error) {
	f := shared.DefaultFilter()
	f.Page = page
	f.PageSize = pageSize
	f.Search = strings.TrimSpace(search)
	q := exchange.TransactionQuery{Filter: f.Normalize()}

	if st, ok := exchange.ParseStatusFilter(status); ok {
		q.Status = &st
	}
	if strings.TrimSpace(kind) != "" {
		k, ok := exchange.ParseKind(kind)
		if !ok {
			return q, shared.NewValidationError("kind must be deposit or withdrawal")
		}
		q.Kind = &k
	}
	return q, nil
}
