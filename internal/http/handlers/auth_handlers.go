package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/you/accountsvc/domain"
)

// AuthHandlers handles account HTTP requests
type AuthHandlers struct {
	authSvc  domain.AuthService
	userRepo domain.UserRepository
}

// NewAuthHandlers creates new auth handlers
func NewAuthHandlers(authSvc domain.AuthService, userRepo domain.UserRepository) *AuthHandlers {
	return &AuthHandlers{
		authSvc:  authSvc,
		userRepo: userRepo,
	}
}

// SignupCreditRequest represents one requested credit
type SignupCreditRequest struct {
	CreditType     string `json:"credit_type" binding:"required"`
	GenerateReport bool   `json:"generate_report"`
}

// SignupRequest represents the signup request body
type SignupRequest struct {
	Name       string                `json:"name" binding:"required"`
	Phone      string                `json:"phone" binding:"required,e164"`
	CardNumber string                `json:"card_number" binding:"required,credit_card"`
	Email      string                `json:"email" binding:"required,email"`
	Password   string                `json:"password" binding:"required,min=8"`
	Credits    []SignupCreditRequest `json:"credits" binding:"omitempty,dive"`
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Signup handles account creation
func (h *AuthHandlers) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingError(err)})
		return
	}

	signup := &domain.SignupRequest{
		Name:       req.Name,
		Phone:      req.Phone,
		CardNumber: req.CardNumber,
		Email:      req.Email,
		Password:   req.Password,
	}
	for _, rc := range req.Credits {
		signup.Credits = append(signup.Credits, domain.SignupCredit{
			Type:           rc.CreditType,
			GenerateReport: rc.GenerateReport,
		})
	}

	result, err := h.authSvc.Signup(c.Request.Context(), signup)
	if err != nil {
		if err == domain.ErrAlreadyRegistered {
			c.JSON(http.StatusBadRequest, gin.H{"error": "This email is already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":       "Account created successfully",
			"user_id":       result.User.ID,
			"access_token":  result.AccessToken,
			"refresh_token": result.RefreshToken,
			"token_type":    "Bearer",
			"expires_in":    result.ExpiresIn,
		},
	})
}

// Login handles authentication
func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": bindingError(err)})
		return
	}

	result, err := h.authSvc.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if err == domain.ErrInvalidCredentials {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid email or password",
				"info":  "Check your credentials or reset your password",
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":       "Signed in successfully",
			"access_token":  result.AccessToken,
			"refresh_token": result.RefreshToken,
			"token_type":    "Bearer",
			"expires_in":    result.ExpiresIn,
			"user": gin.H{
				"id":    result.User.ID,
				"email": result.User.Email,
			},
		},
	})
}

// Logout ends the caller's session. The request's user reference is cleared
// whether or not the session destroy succeeds.
func (h *AuthHandlers) Logout(c *gin.Context) {
	sessionID, exists := c.Get("session_id")
	if !exists {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Session ID not found"})
		return
	}

	err := h.authSvc.Logout(c.Request.Context(), sessionID.(string))

	c.Set("user_id", nil)
	c.Set("session_id", nil)

	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Signed out with errors"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Signed out successfully",
		},
	})
}

// Delete removes the caller's account and terminates the session
func (h *AuthHandlers) Delete(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User ID not found in context"})
		return
	}
	sessionID, _ := c.Get("session_id")
	sid, _ := sessionID.(string)

	if err := h.authSvc.DeleteAccount(c.Request.Context(), userID.(uint), sid); err != nil {
		if err == domain.ErrUserNotFound {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete account"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message": "Account deleted",
		},
	})
}

// Probe reports the request's session state. Mounted on the GET form of the
// auth routes so clients can check whether they are signed in.
func (h *AuthHandlers) Probe(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"message":       "Not signed in",
				"authenticated": false,
			},
		})
		return
	}

	user, err := h.userRepo.FindByID(c.Request.Context(), userID.(uint))
	if err != nil {
		c.JSON(http.StatusOK, gin.H{
			"data": gin.H{
				"message":       "Not signed in",
				"authenticated": false,
			},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"data": gin.H{
			"message":       "Signed in as " + user.Email,
			"authenticated": true,
		},
	})
}
