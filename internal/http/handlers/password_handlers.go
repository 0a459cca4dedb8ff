package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/accountsvc/domain"
)

// PasswordHandlers handles password update and reset HTTP requests
type PasswordHandlers struct {
	authSvc  domain.AuthService
	resetSvc domain.PasswordResetService
}

// NewPasswordHandlers creates new password handlers
func NewPasswordHandlers(authSvc domain.AuthService, resetSvc domain.PasswordResetService) *PasswordHandlers {
	return &PasswordHandlers{
		authSvc:  authSvc,
		resetSvc: resetSvc,
	}
}

// PasswordUpdateRequest represents a password change request body
type PasswordUpdateRequest struct {
	Password             string `json:"password" binding:"required,min=8"`
	PasswordConfirmation string `json:"password_confirmation" binding:"required,eqfield=Password"`
}

// ResetRequestBody represents a reset-email request body
type ResetRequestBody struct {
	Email string `json:"email" binding:"required,email"`
}

// Update changes the authenticated user's password
func (h *PasswordHandlers) Update(c *gin.Context) {
	var req PasswordUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingError(err)})
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}

	if err := h.authSvc.UpdatePassword(c.Request.Context(), userID.(uint), req.Password); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Password updated successfully",
		},
	})
}

// RequestReset issues a reset token and mails the reset link. Exactly one
// response is emitted, after the send (and its transparent TLS-fallback
// retry) has resolved.
func (h *PasswordHandlers) RequestReset(c *gin.Context) {
	var req ResetRequestBody
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingError(err)})
		return
	}

	if err := h.resetSvc.RequestReset(c.Request.Context(), req.Email); err != nil {
		switch {
		case err == domain.ErrUserNotFound:
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": fmt.Sprintf("No account registered for %s", req.Email),
			})
		case errors.Is(err, domain.ErrMailDelivery):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error sending email"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to request password reset"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Password reset email sent",
		},
	})
}

// ValidateToken pre-checks a reset token so a client can render the reset
// form. No mutation happens here.
func (h *PasswordHandlers) ValidateToken(c *gin.Context) {
	_, err := h.resetSvc.ValidateToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		if err == domain.ErrResetTokenInvalid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to validate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Token is valid",
		},
	})
}

// CompleteReset sets the new password for the token's user. The token is
// re-validated here; it may have expired since the GET check.
func (h *PasswordHandlers) CompleteReset(c *gin.Context) {
	var req PasswordUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingError(err)})
		return
	}

	result, err := h.resetSvc.CompleteReset(c.Request.Context(), c.Param("token"), req.Password)
	if err != nil {
		if err == domain.ErrResetTokenInvalid {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":       "Password reset successfully",
			"access_token":  result.AccessToken,
			"refresh_token": result.RefreshToken,
			"token_type":    "Bearer",
			"expires_in":    result.ExpiresIn,
		},
	})
}
