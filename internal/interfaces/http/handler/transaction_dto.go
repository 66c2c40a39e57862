package handler

import "github.com/shopspring/decimal"

// SubmitDepositRequest is the body of POST /transactions/deposits
type SubmitDepositRequest struct {
	Category   string          `json:"category" binding:"required,max=50"`
	WeightKg   decimal.Decimal `json:"weight_kg"`
	LocationID string          `json:"location_id" binding:"required,max=50"`
}

// SubmitWithdrawalRequest is the body of POST /transactions/withdrawals
type SubmitWithdrawalRequest struct {
	PointAmount int64 `json:"point_amount" binding:"required,gt=0"`
}

// HistoryQuery filters GET /transactions
type HistoryQuery struct {
	Status   string `form:"status"`
	Kind     string `form:"kind" binding:"omitempty,oneof=deposit withdrawal"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AdminTransactionQuery filters GET /admin/transactions
type AdminTransactionQuery struct {
	HistoryQuery
	Search   string `form:"search" binding:"omitempty,max=100"`
	UserID   string `form:"user_id" binding:"omitempty,uuid"`
	Unmasked bool   `form:"unmasked"`
}

// UpdateStatusRequest is the body of PUT /admin/transactions/:id/status
type UpdateStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	ProofURL string `json:"proof_url" binding:"omitempty,max=500"`
	Note     string `json:"note" binding:"omitempty,max=500"`
}

// CancelRequest optionally explains a cancellation
type CancelRequest struct {
	Note string `json:"note" binding:"omitempty,max=500"`
}

// AdjustPointsRequest is the body of POST /admin/points/adjust
type AdjustPointsRequest struct {
	UserID    string `json:"user_id" binding:"required,uuid"`
	Amount    int64  `json:"amount" binding:"required,gt=0,lte=1000000000"`
	Operation string `json:"operation" binding:"required,oneof=add subtract"`
	Reason    string `json:"reason" binding:"omitempty,max=255"`
}

// AuditQuery filters GET /admin/audit
type AuditQuery struct {
	ActorID  string `form:"actor_id" binding:"omitempty,uuid"`
	TargetID string `form:"target_id" binding:"omitempty,uuid"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UserDirectoryQuery filters GET /admin/users
type UserDirectoryQuery struct {
	Search   string `form:"search" binding:"omitempty,max=100"`
	Role     string `form:"role" binding:"omitempty,oneof=customer admin"`
	SortBy   string `form:"sort_by" binding:"omitempty,oneof=created_at username total_coins total_kg coin_exchanged"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}
