package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/setorcuan/backend/internal/application/account"
	"github.com/setorcuan/backend/internal/application/exchange"
)

// UserHandler serves the authenticated user's own account
type UserHandler struct {
	BaseHandler
	authService    *account.AuthService
	historyService *exchange.HistoryService
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService *account.AuthService, historyService *exchange.HistoryService) *UserHandler {
	return &UserHandler{authService: authService, historyService: historyService}
}

// GetProfile handles GET /user/profile
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	profile, err := h.authService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// UpdateProfile handles PUT /user/profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	profile, err := h.authService.UpdateProfile(c.Request.Context(), account.UpdateProfileInput{
		UserID:        userID,
		FullName:      req.FullName,
		WhatsApp:      req.WhatsApp,
		PayoutMethod:  req.PayoutMethod,
		PayoutAccount: req.PayoutAccount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, profile)
}

// ChangePassword handles PUT /user/password. Every token issued before
// the change stops working.
func (h *UserHandler) ChangePassword(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	err = h.authService.ChangePassword(c.Request.Context(), account.ChangePasswordInput{
		UserID:      userID,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Password changed"})
}

// Summary handles GET /user/summary
func (h *UserHandler) Summary(c *gin.Context) {
	userID, err := currentUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	summary, err := h.historyService.Summary(c.Request.Context(), userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
