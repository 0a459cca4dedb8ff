package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/you/accountsvc/domain"
)

// AuthMiddleware creates authentication middleware
func AuthMiddleware(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		claims, ok := resolveClaims(c, tokenSvc, sessionRepo)
		if !ok {
			c.Abort()
			return
		}
		if claims == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header required"})
			c.Abort()
			return
		}

		setIdentity(c, claims)
		c.Next()
	})
}

// OptionalAuthMiddleware resolves identity when a valid bearer token is
// present and silently continues otherwise.
func OptionalAuthMiddleware(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) gin.HandlerFunc {
	return gin.HandlerFunc(func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		tokenParts := strings.SplitN(authHeader, " ", 2)
		if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
			c.Next()
			return
		}

		claims, err := tokenSvc.ValidateAccessToken(tokenParts[1])
		if err != nil {
			c.Next()
			return
		}

		if claims.SessionID != "" {
			session, err := sessionRepo.FindByID(c.Request.Context(), claims.SessionID)
			if err != nil || session == nil || session.UserID != claims.UserID {
				c.Next()
				return
			}
		}

		setIdentity(c, claims)
		c.Next()
	})
}

// resolveClaims validates the bearer token and its backing session. It writes
// the failure response itself; a (nil, true) return means no header was sent.
func resolveClaims(c *gin.Context, tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) (*domain.TokenClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, true
	}

	tokenParts := strings.SplitN(authHeader, " ", 2)
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
		return nil, false
	}

	claims, err := tokenSvc.ValidateAccessToken(tokenParts[1])
	if err != nil {
		switch err {
		case domain.ErrTokenExpired:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token expired"})
		case domain.ErrTokenInvalid, domain.ErrTokenMalformed:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		default:
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token validation failed"})
		}
		return nil, false
	}

	// The session must still exist in Redis; a bare token is not enough
	if claims.SessionID != "" {
		session, err := sessionRepo.FindByID(c.Request.Context(), claims.SessionID)
		if err != nil || session == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session invalid or expired"})
			return nil, false
		}

		if session.UserID != claims.UserID {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Session user mismatch"})
			return nil, false
		}
	}

	return claims, true
}

func setIdentity(c *gin.Context, claims *domain.TokenClaims) {
	c.Set("user_id", claims.UserID)
	c.Set("user_role", claims.Role)
	if claims.SessionID != "" {
		c.Set("session_id", claims.SessionID)
	}
}
