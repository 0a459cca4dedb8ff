package mocks

import (
	"context"

	"github.com/you/accountsvc/domain"
)

// MockAuthService implements domain.AuthService interface for testing
type MockAuthService struct {
	SignupFunc         func(ctx context.Context, req *domain.SignupRequest) (*domain.AuthResult, error)
	LoginFunc          func(ctx context.Context, email, password string) (*domain.AuthResult, error)
	LogoutFunc         func(ctx context.Context, sessionID string) error
	UpdatePasswordFunc func(ctx context.Context, userID uint, password string) error
	DeleteAccountFunc  func(ctx context.Context, userID uint, sessionID string) error
}

// NewMockAuthService creates a new MockAuthService with default behaviors
func NewMockAuthService() *MockAuthService {
	return &MockAuthService{}
}

// Signup creates an account
func (m *MockAuthService) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.AuthResult, error) {
	if m.SignupFunc != nil {
		return m.SignupFunc(ctx, req)
	}
	// Default behavior: minimal result
	return &domain.AuthResult{
		User:         &domain.User{ID: 1, Email: req.Email},
		AccessToken:  "access_token",
		RefreshToken: "refresh_token",
		SessionID:    "sess_1",
		ExpiresIn:    900,
	}, nil
}

// Login authenticates a user
func (m *MockAuthService) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, email, password)
	}
	// Default behavior: invalid credentials
	return nil, domain.ErrInvalidCredentials
}

// Logout ends a session
func (m *MockAuthService) Logout(ctx context.Context, sessionID string) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, sessionID)
	}
	// Default behavior: success
	return nil
}

// UpdatePassword changes a user's password
func (m *MockAuthService) UpdatePassword(ctx context.Context, userID uint, password string) error {
	if m.UpdatePasswordFunc != nil {
		return m.UpdatePasswordFunc(ctx, userID, password)
	}
	// Default behavior: success
	return nil
}

// DeleteAccount removes a user and their session
func (m *MockAuthService) DeleteAccount(ctx context.Context, userID uint, sessionID string) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, userID, sessionID)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.AuthService = (*MockAuthService)(nil)
