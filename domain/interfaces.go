package domain

import (
	"context"
	"time"
)

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id uint) (*User, error)
	// FindByResetToken returns the user whose stored reset token equals token
	// and whose expiry is strictly after now.
	FindByResetToken(ctx context.Context, token string, now time.Time) (*User, error)
	Update(ctx context.Context, user *User) error
	Delete(ctx context.Context, id uint) error
}

// SessionRepository defines session data access operations
type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, sessionID string) (*Session, error)
	Delete(ctx context.Context, sessionID string) error
	DeleteExpired(ctx context.Context) error
}

// AuthService defines account business logic
type AuthService interface {
	Signup(ctx context.Context, req *SignupRequest) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Logout(ctx context.Context, sessionID string) error
	UpdatePassword(ctx context.Context, userID uint, password string) error
	DeleteAccount(ctx context.Context, userID uint, sessionID string) error
}

// PasswordResetService drives the reset-token lifecycle
type PasswordResetService interface {
	// RequestReset issues a token for the account with the given email and
	// mails the reset link. The returned error distinguishes unknown email
	// (ErrUserNotFound) and mail transport failure (ErrMailDelivery).
	RequestReset(ctx context.Context, email string) error
	// ValidateToken reports whether token is outstanding and unexpired.
	ValidateToken(ctx context.Context, token string) (*User, error)
	// CompleteReset sets a new password for the token's user, consumes the
	// token and establishes a fresh session.
	CompleteReset(ctx context.Context, token, password string) (*AuthResult, error)
}

// PasswordService defines password operations
type PasswordService interface {
	Hash(password string) (string, error)
	Verify(hashedPassword, password string) bool
}

// TokenService defines token operations
type TokenService interface {
	GenerateAccessToken(userID uint, role string, sessionID string) (string, error)
	GenerateRefreshToken(userID uint, role string, sessionID string) (string, error)
	ValidateAccessToken(token string) (*TokenClaims, error)
	ValidateRefreshToken(token string) (*TokenClaims, error)
}

// Mailer defines outbound transactional email operations
type Mailer interface {
	SendPasswordReset(to, resetURL string) error
	SendPasswordChanged(to string) error
}

// NotificationService defines SMS notification operations
type NotificationService interface {
	SendSMS(to, message string) error
}

// ReportGenerator produces a vehicle check report for a credit purchase.
// The real integration is an external data provider; the in-tree
// implementation is a stub.
type ReportGenerator interface {
	Generate(ctx context.Context, creditType string) (*Report, error)
}

// CasbinEnforcer interface defines the methods we need from Casbin enforcer
type CasbinEnforcer interface {
	AddPolicy(params ...interface{}) (bool, error)
	RemovePolicy(params ...interface{}) (bool, error)
	Enforce(rvals ...interface{}) (bool, error)
	GetPolicy() ([][]string, error)
	SavePolicy() error
}
