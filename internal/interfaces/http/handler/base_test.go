package handler

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/setorcuan/backend/internal/domain/shared"
	"github.com/setorcuan/backend/internal/infrastructure/logger"
	"github.com/setorcuan/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func respond(t *testing.T, fn func(c *gin.Context)) (*httptest.ResponseRecorder, dto.Response) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set(logger.GinRequestIDKey, "req-7")
	fn(c)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return w, resp
}

func TestBaseHandler_HandleError(t *testing.T) {
	h := &BaseHandler{}

	tests := []struct {
		name    string
		err     error
		status  int
		code    string
		message string
	}{
		{"validation", shared.NewValidationError("weight must be positive"), http.StatusBadRequest, shared.CodeValidation, "weight must be positive"},
		{"insufficient balance", shared.NewInsufficientBalanceError(100, 500), http.StatusUnprocessableEntity, shared.CodeInsufficientBalance, ""},
		{"invalid transition", shared.NewInvalidTransitionError("validated", "cancelled"), http.StatusConflict, shared.CodeInvalidTransition, ""},
		{"missing proof", shared.ErrMissingProof, http.StatusUnprocessableEntity, shared.CodeMissingProof, ""},
		{"wrapped not found", fmt.Errorf("load: %w", shared.NewNotFoundError("deposit", "x")), http.StatusNotFound, shared.CodeNotFound, ""},
		{"unknown error is hidden", errors.New("pq: connection reset"), http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := respond(t, func(c *gin.Context) { h.HandleError(c, tt.err) })

			assert.Equal(t, tt.status, w.Code)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.code, resp.Error.Code)
			assert.Equal(t, "req-7", resp.Error.RequestID)
			if tt.message != "" {
				assert.Equal(t, tt.message, resp.Error.Message)
			}
		})
	}
}

func TestBaseHandler_BindError(t *testing.T) {
	h := &BaseHandler{}

	w, resp := respond(t, func(c *gin.Context) { h.BindError(c, errors.New("invalid character '}'")) })
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrCodeBadRequest, resp.Error.Code)

	w, resp = respond(t, func(c *gin.Context) { h.BindError(c, &http.MaxBytesError{Limit: 10}) })
	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	assert.Equal(t, dto.ErrCodeRequestTooLarge, resp.Error.Code)
}

func TestCurrentUserID(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	_, err := currentUserID(c)
	assert.True(t, shared.IsCode(err, shared.CodeUnauthorized))
}

func TestProofContentType(t *testing.T) {
	png := "\x89PNG\r\n\x1a\n" + strings.Repeat("\x00", 16)

	tests := []struct {
		declared string
		body     string
		expected string
	}{
		{"image/jpeg", "whatever", "image/jpeg"},
		{"application/pdf; name=bukti.pdf", "%PDF-1.4", "application/pdf"},
		{"application/octet-stream", png, "image/png"},
		{"", png, "image/png"},
		{"", "plain words", "text/plain"},
	}

	for _, tt := range tests {
		t.Run(tt.expected+"/"+tt.declared, func(t *testing.T) {
			body := bufio.NewReader(strings.NewReader(tt.body))
			assert.Equal(t, tt.expected, proofContentType(tt.declared, body))

			rest, err := body.Peek(len(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.body, string(rest), "sniffing must not consume the body")
		})
	}
}
