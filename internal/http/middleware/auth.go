package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/you/accountsvc/domain"
)

// AuthMW wraps the token service and session repository for middleware
type AuthMW struct {
	tokenSvc    domain.TokenService
	sessionRepo domain.SessionRepository
}

// NewAuthMW creates new auth middleware wrapper
func NewAuthMW(tokenSvc domain.TokenService, sessionRepo domain.SessionRepository) *AuthMW {
	return &AuthMW{
		tokenSvc:    tokenSvc,
		sessionRepo: sessionRepo,
	}
}

// WithJWT returns the JWT middleware function
func (mw *AuthMW) WithJWT() gin.HandlerFunc {
	return AuthMiddleware(mw.tokenSvc, mw.sessionRepo)
}

// WithOptionalJWT returns middleware that resolves session state when a
// bearer token is present but never rejects the request. Used by the
// session-state probe endpoints.
func (mw *AuthMW) WithOptionalJWT() gin.HandlerFunc {
	return OptionalAuthMiddleware(mw.tokenSvc, mw.sessionRepo)
}
