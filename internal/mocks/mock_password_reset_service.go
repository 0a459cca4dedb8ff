package mocks

import (
	"context"

	"github.com/you/accountsvc/domain"
)

// MockPasswordResetService implements domain.PasswordResetService interface for testing
type MockPasswordResetService struct {
	RequestResetFunc  func(ctx context.Context, email string) error
	ValidateTokenFunc func(ctx context.Context, token string) (*domain.User, error)
	CompleteResetFunc func(ctx context.Context, token, password string) (*domain.AuthResult, error)
}

// NewMockPasswordResetService creates a new MockPasswordResetService with default behaviors
func NewMockPasswordResetService() *MockPasswordResetService {
	return &MockPasswordResetService{}
}

// RequestReset issues a reset token and mails the link
func (m *MockPasswordResetService) RequestReset(ctx context.Context, email string) error {
	if m.RequestResetFunc != nil {
		return m.RequestResetFunc(ctx, email)
	}
	// Default behavior: unknown email
	return domain.ErrUserNotFound
}

// ValidateToken checks an outstanding token
func (m *MockPasswordResetService) ValidateToken(ctx context.Context, token string) (*domain.User, error) {
	if m.ValidateTokenFunc != nil {
		return m.ValidateTokenFunc(ctx, token)
	}
	// Default behavior: invalid
	return nil, domain.ErrResetTokenInvalid
}

// CompleteReset consumes a token and sets the new password
func (m *MockPasswordResetService) CompleteReset(ctx context.Context, token, password string) (*domain.AuthResult, error) {
	if m.CompleteResetFunc != nil {
		return m.CompleteResetFunc(ctx, token, password)
	}
	// Default behavior: invalid
	return nil, domain.ErrResetTokenInvalid
}

// Compile-time interface compliance verification
var _ domain.PasswordResetService = (*MockPasswordResetService)(nil)
