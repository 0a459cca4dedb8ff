package mocks

import "github.com/you/accountsvc/domain"

// MockMailer implements domain.Mailer interface for testing
type MockMailer struct {
	SendPasswordResetFunc   func(to, resetURL string) error
	SendPasswordChangedFunc func(to string) error
}

// NewMockMailer creates a new MockMailer with default behaviors
func NewMockMailer() *MockMailer {
	return &MockMailer{}
}

// SendPasswordReset sends a reset-link email
func (m *MockMailer) SendPasswordReset(to, resetURL string) error {
	if m.SendPasswordResetFunc != nil {
		return m.SendPasswordResetFunc(to, resetURL)
	}
	// Default behavior: success
	return nil
}

// SendPasswordChanged sends a change-notification email
func (m *MockMailer) SendPasswordChanged(to string) error {
	if m.SendPasswordChangedFunc != nil {
		return m.SendPasswordChangedFunc(to)
	}
	// Default behavior: success
	return nil
}

// Compile-time interface compliance verification
var _ domain.Mailer = (*MockMailer)(nil)
