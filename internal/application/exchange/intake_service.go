package exchange

import (
	"context"

	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/exchange"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CatalogLookup resolves prices and locations at submission time
type CatalogLookup interface {
	PriceOf(ctx context.Context, category string) (int64, error)
	LocationExists(ctx context.Context, id string) (bool, error)
}

// Limits are the configured withdrawal bounds and conversion rate
type Limits struct {
	MinWithdrawal       int64
	MaxWithdrawal       int64
	PointToCurrencyRate decimal.Decimal
}

// DefaultLimits returns the standard business limits
func DefaultLimits() Limits {
	return Limits{
		MinWithdrawal:       10000,
		MaxWithdrawal:       1000000,
		PointToCurrencyRate: decimal.NewFromInt(1),
	}
}

// IntakeService accepts new deposit and withdrawal requests
type IntakeService struct {
	scope          TransactionScope
	catalog        CatalogLookup
	limits         Limits
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewIntakeService creates a new IntakeService
func NewIntakeService(scope TransactionScope, catalog CatalogLookup, limits Limits, logger *zap.Logger) *IntakeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeService{
		scope:   scope,
		catalog: catalog,
		limits:  limits,
		logger:  logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *IntakeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SubmitDeposit records a pending deposit priced at the current rate for its category
func (s *IntakeService) SubmitDeposit(ctx context.Context, in SubmitDepositInput) (*DepositResponse, error) {
	if !in.WeightKg.IsPositive() {
		return nil, shared.NewValidationError("weight must be greater than zero")
	}
	price, err := s.catalog.PriceOf(ctx, in.Category)
	if err != nil {
		return nil, err
	}
	known, err := s.catalog.LocationExists(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}
	if !known {
		return nil, shared.NewValidationError("unknown location %q", in.LocationID)
	}

	var deposit *exchange.Deposit
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.Users().FindByID(ctx, in.UserID); err != nil {
			return err
		}
		outstanding, err := repos.Deposits().HasOutstanding(ctx, in.UserID)
		if err != nil {
			return err
		}
		if outstanding {
			return shared.NewValidationError("you already have a pending deposit")
		}

		deposit, err = exchange.NewDeposit(in.UserID, in.Category, in.WeightKg, price, in.LocationID)
		if err != nil {
			return err
		}
		return repos.Deposits().Create(ctx, deposit)
	})
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, deposit)
	s.logger.Info("deposit submitted",
		zap.String("deposit_id", deposit.ID.String()),
		zap.String("user_id", in.UserID.String()),
		zap.String("category", deposit.Category),
		zap.String("weight_kg", deposit.WeightKg.String()),
		zap.Int64("points", deposit.Points),
	)
	resp := ToDepositResponse(deposit)
	return &resp, nil
}

// SubmitWithdrawal records a pending withdrawal. The balance is checked but
// not debited until the withdrawal completes.
func (s *IntakeService) SubmitWithdrawal(ctx context.Context, in SubmitWithdrawalInput) (*WithdrawalResponse, error) {
	if in.PointAmount <= 0 {
		return nil, shared.NewValidationError("point amount must be greater than zero")
	}
	if in.PointAmount < s.limits.MinWithdrawal {
		return nil, shared.NewValidationError("minimum withdrawal is %d points", s.limits.MinWithdrawal)
	}
	if s.limits.MaxWithdrawal > 0 && in.PointAmount > s.limits.MaxWithdrawal {
		return nil, shared.NewValidationError("maximum withdrawal is %d points", s.limits.MaxWithdrawal)
	}

	var withdrawal *exchange.Withdrawal
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		user, err := repos.Users().FindByID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if user.Profile.PayoutMethod == account.PayoutNone || user.Profile.PayoutAccount == "" {
			return shared.NewValidationError("set a payout method and account in your profile first")
		}
		if !user.Ledger.CanCover(in.PointAmount) {
			return shared.NewInsufficientBalanceError(user.Ledger.TotalCoins, in.PointAmount)
		}
		outstanding, err := repos.Withdrawals().HasOutstanding(ctx, in.UserID)
		if err != nil {
			return err
		}
		if outstanding {
			return shared.NewValidationError("you already have a withdrawal in progress")
		}

		withdrawal, err = exchange.NewWithdrawal(in.UserID, in.PointAmount, s.limits.PointToCurrencyRate, exchange.Payout{
			Method:  string(user.Profile.PayoutMethod),
			Account: user.Profile.PayoutAccount,
		})
		if err != nil {
			return err
		}
		return repos.Withdrawals().Create(ctx, withdrawal)
	})
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, withdrawal)
	s.logger.Info("withdrawal submitted",
		zap.String("withdrawal_id", withdrawal.ID.String()),
		zap.String("user_id", in.UserID.String()),
		zap.Int64("points", withdrawal.PointAmount),
		zap.String("currency_amount", withdrawal.CurrencyAmount.String()),
	)
	resp := ToWithdrawalResponse(withdrawal)
	return &resp, nil
}
