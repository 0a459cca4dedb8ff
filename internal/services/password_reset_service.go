package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"time"

	"github.com/you/accountsvc/domain"
)

// PasswordResetServiceImpl implements domain.PasswordResetService.
//
// Token lifecycle per user: absent -> issued(token, expiry) -> consumed
// (cleared on completion) or expired (lazily unusable through the strict
// expiry check in the lookup). Issuing a new token overwrites any
// outstanding one; concurrent requests race last-write-wins and only the
// latest token is honoured because completion re-validates.
type PasswordResetServiceImpl struct {
	userRepo    domain.UserRepository
	sessionRepo domain.SessionRepository
	passwordSvc domain.PasswordService
	tokenSvc    domain.TokenService
	mailer      domain.Mailer
	baseURL     string
	tokenTTL    time.Duration
}

// NewPasswordResetService creates a new password reset service
func NewPasswordResetService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	mailer domain.Mailer,
	baseURL string,
	tokenTTL time.Duration,
) domain.PasswordResetService {
	return &PasswordResetServiceImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		mailer:      mailer,
		baseURL:     baseURL,
		tokenTTL:    tokenTTL,
	}
}

// generateResetToken creates an opaque 32-hex-character token
func generateResetToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate reset token: %w", err)
	}
	return hex.EncodeToString(bytes), nil
}

// RequestReset implements domain.PasswordResetService. The token is persisted
// before the email is attempted; the send itself goes through the mailer's
// fallback policy and is awaited so the caller can emit exactly one response.
func (s *PasswordResetServiceImpl) RequestReset(ctx context.Context, email string) error {
	token, err := generateResetToken()
	if err != nil {
		return err
	}

	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return err
	}

	expiry := time.Now().Add(s.tokenTTL)
	user.ResetToken = &token
	user.ResetTokenExpiry = &expiry
	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	log.Printf("%s: user_id=%d email=%s expiry=%s",
		domain.ResetRequestedEvent, user.ID, user.Email, expiry.UTC().Format(time.RFC3339))

	resetURL := fmt.Sprintf("%s/auth/password/reset/%s", s.baseURL, token)
	if err := s.mailer.SendPasswordReset(user.Email, resetURL); err != nil {
		log.Printf("%s: user_id=%d error=%v", domain.ResetEmailFailed, user.ID, err)
		return fmt.Errorf("%w: %v", domain.ErrMailDelivery, err)
	}

	return nil
}

// ValidateToken implements domain.PasswordResetService. Read-only; a token at
// its exact expiry instant is rejected.
func (s *PasswordResetServiceImpl) ValidateToken(ctx context.Context, token string) (*domain.User, error) {
	user, err := s.userRepo.FindByResetToken(ctx, token, time.Now())
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrResetTokenInvalid
		}
		return nil, err
	}
	return user, nil
}

// CompleteReset implements domain.PasswordResetService. The token is
// re-validated here; the earlier GET check is never trusted. Token and expiry
// are cleared together so they are never half-present.
func (s *PasswordResetServiceImpl) CompleteReset(ctx context.Context, token, password string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByResetToken(ctx, token, time.Now())
	if err != nil {
		if err == domain.ErrUserNotFound {
			return nil, domain.ErrResetTokenInvalid
		}
		return nil, err
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = hashedPassword
	user.ResetToken = nil
	user.ResetTokenExpiry = nil
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	result, err := issueSession(ctx, s.sessionRepo, s.tokenSvc, user)
	if err != nil {
		return nil, err
	}

	log.Printf("%s: user_id=%d email=%s", domain.ResetCompletedEvent, user.ID, user.Email)

	// Confirmation email must not block the response; failures are logged only
	email := user.Email
	userID := user.ID
	go func() {
		if err := s.mailer.SendPasswordChanged(email); err != nil {
			log.Printf("%s: user_id=%d error=%v", domain.ChangedEmailFailed, userID, err)
		}
	}()

	return result, nil
}
