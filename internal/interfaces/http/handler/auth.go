package handler

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/setorcuan/backend/internal/application/account"
	"github.com/setorcuan/backend/internal/interfaces/http/middleware"
)

// AuthHandler serves registration, login and token lifecycle endpoints
type AuthHandler struct {
	BaseHandler
	authService *account.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *account.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles POST /auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Register(c.Request.Context(), account.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		WhatsApp: req.WhatsApp,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Login handles POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), account.LoginInput{
		Login:    req.Login,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh handles POST /auth/refresh. The presented refresh token is
// consumed and a new pair is returned.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Logout handles POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.BindError(c, err)
		return
	}

	userID, err := currentUserID(c)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	input := account.LogoutInput{UserID: userID}
	if claims := middleware.GetJWTClaims(c); claims != nil {
		input.TokenJTI = claims.ID
		input.TokenExpiresIn = claims.GetRemainingTTL()
	}

	if err := h.authService.Logout(c.Request.Context(), input, req.RefreshToken); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Logged out"})
}
