package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/setorcuan/backend/internal/application/exchange"
	"github.com/setorcuan/backend/internal/interfaces/http/dto"
)

// TransactionHandler serves a customer's deposits, withdrawals and history
type TransactionHandler struct {
	BaseHandler
	intake  *exchange.IntakeService
	history *exchange.HistoryService
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(intake *exchange.IntakeService, history *exchange.HistoryService) *TransactionHandler {
	return &TransactionHandler{intake: intake, history: history}
}

// SubmitDeposit handles POST /transactions/deposits
func (h *TransactionHandler) SubmitDeposit(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req SubmitDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	deposit, err := h.intake.SubmitDeposit(c.Request.Context(), exchange.SubmitDepositInput{
		UserID:     userID,
		Category:   req.Category,
		WeightKg:   req.WeightKg,
		LocationID: req.LocationID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, deposit)
}

// SubmitWithdrawal handles POST /transactions/withdrawals. Points are
// debited only when an admin completes the withdrawal.
func (h *TransactionHandler) SubmitWithdrawal(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req SubmitWithdrawalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	withdrawal, err := h.intake.SubmitWithdrawal(c.Request.Context(), exchange.SubmitWithdrawalInput{
		UserID:      userID,
		PointAmount: req.PointAmount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, withdrawal)
}

// History handles GET /transactions
func (h *TransactionHandler) History(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var q HistoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.history.ListUserHistory(c.Request.Context(), userID, exchange.HistoryFilter{
		Status:   q.Status,
		Kind:     q.Kind,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}
