package exchange

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/account"
	"github.com/setorcuan/backend/internal/domain/exchange"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/setorcuan/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// ProofStore persists uploaded proof files
type ProofStore interface {
	Store(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}

// LifecycleService moves deposits and withdrawals through their state
// machines and applies the resulting ledger changes.
type LifecycleService struct {
	scope          TransactionScope
	proofs         ProofStore
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewLifecycleService creates a new LifecycleService. proofs may be nil when
// uploads are not offered.
func NewLifecycleService(scope TransactionScope, proofs ProofStore, logger *zap.Logger) *LifecycleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LifecycleService{scope: scope, proofs: proofs, logger: logger}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *LifecycleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// UpdateStatus applies an admin status change to a deposit or withdrawal.
// The record row is locked before the owner's row, and both are written in
// one transaction with a version check. A lost race surfaces as
// InvalidTransition with the ledger untouched.
func (s *LifecycleService) UpdateStatus(ctx context.Context, in UpdateStatusInput) (*TransitionResult, error) {
	if strings.TrimSpace(in.Status) == "" {
		return nil, shared.NewValidationError("status is required")
	}
	if in.AdminID == uuid.Nil {
		return nil, shared.NewValidationError("admin is required")
	}
	target := exchange.NormalizeStatus(in.Status)

	var (
		result  *TransitionResult
		sources []eventSource
	)
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		sources = sources[:0]

		deposit, err := repos.Deposits().FindByIDForUpdate(ctx, in.TransactionID)
		switch {
		case err == nil:
			var user *account.User
			result, user, err = s.transitionDeposit(ctx, repos, deposit, target, in)
			if err != nil {
				return err
			}
			sources = append(sources, deposit)
			if user != nil {
				sources = append(sources, user)
			}
			return nil
		case !shared.IsCode(err, shared.CodeNotFound):
			return err
		}

		withdrawal, err := repos.Withdrawals().FindByIDForUpdate(ctx, in.TransactionID)
		if shared.IsCode(err, shared.CodeNotFound) {
			return shared.NewNotFoundError("transaction", in.TransactionID.String())
		}
		if err != nil {
			return err
		}
		var user *account.User
		result, user, err = s.transitionWithdrawal(ctx, repos, withdrawal, target, in)
		if err != nil {
			return err
		}
		sources = append(sources, withdrawal)
		if user != nil {
			sources = append(sources, user)
		}
		return nil
	})
	if err != nil {
		err = asTransitionError(err)
		s.logger.Warn("status update rejected",
			zap.String("transaction_id", in.TransactionID.String()),
			zap.String("requested", in.Status),
			zap.Error(err),
		)
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, sources...)
	fields := []zap.Field{
		zap.String("transaction_id", result.TransactionID.String()),
		zap.String("kind", string(result.Kind)),
		zap.String("from", result.FromStatus),
		zap.String("to", result.ToStatus),
		zap.String("admin_id", in.AdminID.String()),
	}
	if result.BalanceAfter != nil {
		fields = append(fields, zap.Int64("balance_after", *result.BalanceAfter))
	}
	s.logger.Info("transaction status updated", fields...)
	return result, nil
}

// Cancel cancels a non-terminal deposit or withdrawal
func (s *LifecycleService) Cancel(ctx context.Context, transactionID, adminID uuid.UUID, note string) (*TransitionResult, error) {
	return s.UpdateStatus(ctx, UpdateStatusInput{
		TransactionID: transactionID,
		Status:        string(exchange.StatusCancelled),
		Note:          note,
		AdminID:       adminID,
	})
}

// UploadProof stores a proof file for an outstanding withdrawal and attaches
// its URL. The URL is returned for a later completion.
func (s *LifecycleService) UploadProof(ctx context.Context, in UploadProofInput) (string, error) {
	if s.proofs == nil {
		return "", errors.New("proof storage is not configured")
	}
	if !storage.IsAllowedProofType(in.ContentType) {
		return "", shared.NewValidationError("proof must be a JPEG, PNG, WebP or PDF file")
	}
	if in.Body == nil {
		return "", shared.NewValidationError("proof file is required")
	}

	var current *exchange.Withdrawal
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		w, err := repos.Withdrawals().FindByID(ctx, in.WithdrawalID)
		if err != nil {
			return err
		}
		current = w
		return nil
	})
	if err != nil {
		return "", err
	}
	if !current.Status.IsOutstanding() {
		return "", shared.NewInvalidTransitionError(string(current.Status), "proof attached")
	}

	key, err := storage.ProofKey(in.WithdrawalID, in.ContentType)
	if err != nil {
		return "", shared.NewValidationError("%s", err.Error())
	}
	url, err := s.proofs.Store(ctx, key, in.ContentType, in.Body)
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		return "", shared.NewValidationError("proof file is too large")
	case err != nil:
		return "", err
	}

	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		w, err := repos.Withdrawals().FindByIDForUpdate(ctx, in.WithdrawalID)
		if err != nil {
			return err
		}
		if err := w.AttachProof(url); err != nil {
			return err
		}
		return repos.Withdrawals().SaveWithLock(ctx, w)
	})
	if err != nil {
		return "", asTransitionError(err)
	}

	s.logger.Info("withdrawal proof uploaded",
		zap.String("withdrawal_id", in.WithdrawalID.String()),
		zap.String("admin_id", in.AdminID.String()),
		zap.String("key", key),
	)
	return url, nil
}

func (s *LifecycleService) transitionDeposit(
	ctx context.Context,
	repos TransactionalRepositories,
	d *exchange.Deposit,
	target exchange.Status,
	in UpdateStatusInput,
) (*TransitionResult, *account.User, error) {
	from := string(d.Status)
	var user *account.User

	switch target {
	case exchange.StatusSuccess:
		if err := d.MarkValidated(in.AdminID); err != nil {
			return nil, nil, err
		}
		u, err := repos.Users().FindByIDForUpdate(ctx, d.UserID)
		if err != nil {
			return nil, nil, err
		}
		next, err := u.Ledger.Credit(d.Points, d.WeightKg)
		if err != nil {
			return nil, nil, err
		}
		u.ApplyLedger(next, "deposit validated")
		user = u
	case exchange.StatusCancelled:
		if err := d.MarkCancelled(in.AdminID, in.Note); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, shared.NewInvalidTransitionError(from, string(target))
	}

	if err := repos.Deposits().SaveWithLock(ctx, d); err != nil {
		return nil, nil, err
	}
	result := &TransitionResult{
		TransactionID: d.ID,
		Kind:          exchange.KindDeposit,
		FromStatus:    from,
		ToStatus:      string(d.Status),
		Status:        d.NormalizedStatus(),
	}
	if user != nil {
		if err := repos.Users().SaveWithLock(ctx, user); err != nil {
			return nil, nil, err
		}
		balance := user.Ledger.TotalCoins
		result.BalanceAfter = &balance
	}
	return result, user, nil
}

func (s *LifecycleService) transitionWithdrawal(
	ctx context.Context,
	repos TransactionalRepositories,
	w *exchange.Withdrawal,
	target exchange.Status,
	in UpdateStatusInput,
) (*TransitionResult, *account.User, error) {
	from := string(w.Status)
	var user *account.User

	switch target {
	case exchange.StatusProcessing:
		if err := w.MarkProcessing(in.AdminID); err != nil {
			return nil, nil, err
		}
	case exchange.StatusSuccess:
		if err := w.MarkCompleted(in.AdminID, in.ProofURL); err != nil {
			return nil, nil, err
		}
		u, err := repos.Users().FindByIDForUpdate(ctx, w.UserID)
		if err != nil {
			return nil, nil, err
		}
		next, err := u.Ledger.Debit(w.PointAmount)
		if err != nil {
			return nil, nil, err
		}
		u.ApplyLedger(next, "withdrawal completed")
		user = u
	case exchange.StatusCancelled:
		if err := w.MarkCancelled(in.AdminID, in.Note); err != nil {
			return nil, nil, err
		}
	default:
		return nil, nil, shared.NewInvalidTransitionError(from, string(target))
	}

	if err := repos.Withdrawals().SaveWithLock(ctx, w); err != nil {
		return nil, nil, err
	}
	result := &TransitionResult{
		TransactionID: w.ID,
		Kind:          exchange.KindWithdrawal,
		FromStatus:    from,
		ToStatus:      string(w.Status),
		Status:        w.NormalizedStatus(),
	}
	if user != nil {
		if err := repos.Users().SaveWithLock(ctx, user); err != nil {
			return nil, nil, err
		}
		balance := user.Ledger.TotalCoins
		result.BalanceAfter = &balance
	}
	return result, user, nil
}

// asTransitionError reports a lost optimistic-lock race as an invalid transition
func asTransitionError(err error) error {
	if shared.IsCode(err, shared.CodeConcurrencyConflict) {
		return shared.NewDomainError(shared.CodeInvalidTransition,
			"transaction was resolved by another request")
	}
	return err
}
