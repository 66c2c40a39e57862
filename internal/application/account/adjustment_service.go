package account

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AdjustmentService applies manual point corrections with an audit trail
type AdjustmentService struct {
	scope          TransactionScope
	audit          account.AuditRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewAdjustmentService creates a new AdjustmentService. audit serves
// listings outside a transaction.
func NewAdjustmentService(scope TransactionScope, audit account.AuditRepository, logger *zap.Logger) *AdjustmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdjustmentService{scope: scope, audit: audit, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *AdjustmentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// AdjustPoints adds to or subtracts from a user's balance. The balance change
// and its audit entry are written in one transaction.
func (s *AdjustmentService) AdjustPoints(ctx context.Context, in AdjustPointsInput) (*AdjustmentResult, error) {
	if in.Amount <= 0 {
		return nil, shared.NewValidationError("amount must be greater than zero")
	}
	if in.Amount > account.MaxAdjustmentAmount {
		return nil, shared.NewValidationError("amount cannot exceed %d", account.MaxAdjustmentAmount)
	}
	op, err := account.ParseAdjustmentOperation(in.Operation)
	if err != nil {
		return nil, err
	}
	if in.ActorID == uuid.Nil {
		return nil, shared.NewValidationError("actor is required")
	}

	var (
		user  *account.User
		entry *account.AuditEntry
	)
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		u, err := repos.Users().FindByIDForUpdate(ctx, in.UserID)
		if err != nil {
			return err
		}
		before := u.Ledger.TotalCoins

		var next account.Ledger
		switch op {
		case account.OperationAdd:
			next, err = u.Ledger.Add(in.Amount)
		case account.OperationSubtract:
			next, err = u.Ledger.Debit(in.Amount)
		}
		if err != nil {
			return err
		}
		reason := strings.TrimSpace(in.Reason)
		if reason == "" {
			reason = "admin adjustment"
		}
		u.ApplyLedger(next, reason)

		entry, err = account.NewAdjustmentAuditEntry(in.ActorID, u.ID, op, in.Amount, before, next.TotalCoins, in.Reason)
		if err != nil {
			return err
		}
		if err := repos.Users().SaveWithLock(ctx, u); err != nil {
			return err
		}
		if err := repos.Audit().Append(ctx, entry); err != nil {
			return err
		}
		user = u
		return nil
	})
	if err != nil {
		if shared.IsCode(err, shared.CodeConcurrencyConflict) {
			return nil, shared.NewDomainError(shared.CodeConcurrencyConflict, "balance changed concurrently, retry the adjustment")
		}
		s.logger.Warn("Point adjustment rejected",
			zap.String("user_id", in.UserID.String()),
			zap.String("operation", in.Operation),
			zap.Int64("amount", in.Amount),
			zap.Error(err))
		return nil, err
	}

	events := user.PullDomainEvents()
	if s.eventPublisher != nil && len(events) > 0 {
		if err := s.eventPublisher.Publish(ctx, events...); err != nil {
			s.logger.Warn("Failed to publish balance events", zap.Error(err))
		}
	}

	s.logger.Info("Points adjusted",
		zap.String("actor_id", in.ActorID.String()),
		zap.String("user_id", user.ID.String()),
		zap.String("operation", string(op)),
		zap.Int64("amount", in.Amount),
		zap.Int64("balance_before", entry.BalanceBefore),
		zap.Int64("balance_after", entry.BalanceAfter))

	return &AdjustmentResult{
		UserID:        user.ID,
		Operation:     string(op),
		Amount:        in.Amount,
		BalanceBefore: entry.BalanceBefore,
		BalanceAfter:  entry.BalanceAfter,
		AuditID:       entry.ID,
	}, nil
}

// ListAudit returns audit entries, newest first
func (s *AdjustmentService) ListAudit(ctx context.Context, f AuditListFilter) (*shared.Paginated[AuditEntryResponse], error) {
	filter := shared.DefaultFilter()
	filter.Page = f.Page
	filter.PageSize = f.PageSize
	filter = filter.Normalize()

	entries, total, err := s.audit.FindAll(ctx, account.AuditFilter{
		Filter:   filter,
		ActorID:  f.ActorID,
		TargetID: f.TargetID,
	})
	if err != nil {
		return nil, err
	}
	items := make([]AuditEntryResponse, len(entries))
	for i, e := range entries {
		items[i] = ToAuditEntryResponse(e)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}
