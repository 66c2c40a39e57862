package account

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/domain/shared"
)

// AdjustmentOperation is the direction of a manual point adjustment
type AdjustmentOperation string

const (
	OperationAdd      AdjustmentOperation = "add"
	OperationSubtract AdjustmentOperation = "subtract"
)

// MaxAdjustmentAmount bounds a single manual adjustment
const MaxAdjustmentAmount int64 = 1_000_000_000

// IsValid checks if the operation is a known value
func (o AdjustmentOperation) IsValid() bool {
	return o == OperationAdd || o == OperationSubtract
}

// ParseAdjustmentOperation parses an operation name
func ParseAdjustmentOperation(s string) (AdjustmentOperation, error) {
	op := AdjustmentOperation(strings.ToLower(strings.TrimSpace(s)))
	if !op.IsValid() {
		return "", shared.NewValidationError("operation must be add or subtract, got %q", s)
	}
	return op, nil
}

// Action returns the audit action name for the operation
func (o AdjustmentOperation) Action() string {
	return "points." + string(o)
}

// AuditEntry is an append-only record of an admin-initiated ledger change
type AuditEntry struct {
	ID            uuid.UUID
	ActorID       uuid.UUID
	Action        string
	TargetID      uuid.UUID
	Amount        int64
	BalanceBefore int64
	BalanceAfter  int64
	Reason        string
	CreatedAt     time.Time
}

// NewAdjustmentAuditEntry records a manual point adjustment
func NewAdjustmentAuditEntry(
	actorID, targetID uuid.UUID,
	op AdjustmentOperation,
	amount, before, after int64,
	reason string,
) (*AuditEntry, error) {
	if actorID == uuid.Nil {
		return nil, shared.NewValidationError("actor ID cannot be empty")
	}
	if targetID == uuid.Nil {
		return nil, shared.NewValidationError("target ID cannot be empty")
	}
	if !op.IsValid() {
		return nil, shared.NewValidationError("unknown operation %q", op)
	}
	if amount <= 0 {
		return nil, shared.NewValidationError("amount must be positive")
	}

	return &AuditEntry{
		ID:            uuid.New(),
		ActorID:       actorID,
		Action:        op.Action(),
		TargetID:      targetID,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Reason:        strings.TrimSpace(reason),
		CreatedAt:     time.Now(),
	}, nil
}
