package handler

import (
	"bufio"
	"errors"
	"mime"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/setorcuan/backend/internal/application/account"
	"github.com/setorcuan/backend/internal/application/exchange"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/setorcuan/backend/internal/interfaces/http/dto"
)

// ProofFormField is the multipart field holding a proof of transfer
const ProofFormField = "file"

// AdminHandler serves transaction moderation and balance adjustment
type AdminHandler struct {
	BaseHandler
	lifecycle   *exchange.LifecycleService
	history     *exchange.HistoryService
	adjustments *account.AdjustmentService
	directory   *account.DirectoryService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	lifecycle *exchange.LifecycleService,
	history *exchange.HistoryService,
	adjustments *account.AdjustmentService,
	directory *account.DirectoryService,
) *AdminHandler {
	return &AdminHandler{lifecycle: lifecycle, history: history, adjustments: adjustments, directory: directory}
}

// ListTransactions handles GET /admin/transactions
func (h *AdminHandler) ListTransactions(c *gin.Context) {
	var q AdminTransactionQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	filter := exchange.AdminFilter{
		Status:   q.Status,
		Kind:     q.Kind,
		Search:   q.Search,
		Unmasked: q.Unmasked,
		Page:     q.Page,
		PageSize: q.PageSize,
	}
	if q.UserID != "" {
		id := uuid.MustParse(q.UserID)
		filter.UserID = &id
	}

	page, err := h.history.ListAllTransactions(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// UpdateStatus handles PUT /admin/transactions/:id/status
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	adminID, txID, ok := h.adminAndTarget(c)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.lifecycle.UpdateStatus(c.Request.Context(), exchange.UpdateStatusInput{
		TransactionID: txID,
		Status:        req.Status,
		ProofURL:      req.ProofURL,
		Note:          req.Note,
		AdminID:       adminID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Cancel handles DELETE /admin/transactions/:id. The record is kept with
// status cancelled.
func (h *AdminHandler) Cancel(c *gin.Context) {
	adminID, txID, ok := h.adminAndTarget(c)
	if !ok {
		return
	}

	var req CancelRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindError(c, err)
			return
		}
	}

	result, err := h.lifecycle.Cancel(c.Request.Context(), txID, adminID, req.Note)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// UploadProof handles POST /admin/withdrawals/:id/proof
func (h *AdminHandler) UploadProof(c *gin.Context) {
	adminID, withdrawalID, ok := h.adminAndTarget(c)
	if !ok {
		return
	}

	header, err := c.FormFile(ProofFormField)
	if err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			h.Error(c, http.StatusRequestEntityTooLarge, dto.ErrCodeRequestTooLarge, "Proof file exceeds maximum allowed size")
			return
		}
		h.HandleError(c, shared.NewValidationError("multipart field %q is required", ProofFormField))
		return
	}

	file, err := header.Open()
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer file.Close()

	body := bufio.NewReader(file)
	contentType := proofContentType(header.Header.Get("Content-Type"), body)

	url, err := h.lifecycle.UploadProof(c.Request.Context(), exchange.UploadProofInput{
		WithdrawalID: withdrawalID,
		AdminID:      adminID,
		ContentType:  contentType,
		Body:         body,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, gin.H{"url": url})
}

// AdjustPoints handles POST /admin/points/adjust
func (h *AdminHandler) AdjustPoints(c *gin.Context) {
	adminID, err := currentUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.adjustments.AdjustPoints(c.Request.Context(), account.AdjustPointsInput{
		ActorID:   adminID,
		UserID:    uuid.MustParse(req.UserID),
		Amount:    req.Amount,
		Operation: req.Operation,
		Reason:    req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListAudit handles GET /admin/audit
func (h *AdminHandler) ListAudit(c *gin.Context) {
	var q AuditQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	filter := account.AuditListFilter{Page: q.Page, PageSize: q.PageSize}
	if q.ActorID != "" {
		id := uuid.MustParse(q.ActorID)
		filter.ActorID = &id
	}
	if q.TargetID != "" {
		id := uuid.MustParse(q.TargetID)
		filter.TargetID = &id
	}

	page, err := h.adjustments.ListAudit(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// ListUsers handles GET /admin/users
func (h *AdminHandler) ListUsers(c *gin.Context) {
	var q UserDirectoryQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.BindError(c, err)
		return
	}

	page, err := h.directory.ListUsers(c.Request.Context(), account.UserListFilter{
		Search:   q.Search,
		Role:     q.Role,
		OrderBy:  q.SortBy,
		OrderDir: q.SortDir,
		Page:     q.Page,
		PageSize: q.PageSize,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.NewPaginatedResponse(page))
}

// GetUser handles GET /admin/users/:id
func (h *AdminHandler) GetUser(c *gin.Context) {
	_, userID, ok := h.adminAndTarget(c)
	if !ok {
		return
	}
	user, err := h.directory.GetUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// adminAndTarget resolves the acting admin and the :id path parameter,
// answering the request itself when either is unusable.
func (h *AdminHandler) adminAndTarget(c *gin.Context) (adminID, targetID uuid.UUID, ok bool) {
	adminID, err := currentUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return uuid.Nil, uuid.Nil, false
	}

	var uri dto.IDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		h.BindError(c, err)
		return uuid.Nil, uuid.Nil, false
	}
	return adminID, uuid.MustParse(uri.ID), true
}

// proofContentType trusts the part's declared media type and falls back to
// sniffing the first bytes when it is missing or generic.
func proofContentType(declared string, body *bufio.Reader) string {
	if mediaType, _, err := mime.ParseMediaType(declared); err == nil && mediaType != "application/octet-stream" {
		return mediaType
	}
	head, _ := body.Peek(512)
	mediaType, _, _ := mime.ParseMediaType(http.DetectContentType(head))
	return mediaType
}
