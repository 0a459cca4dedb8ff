package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/you/accountsvc/domain"
)

const (
	defaultRole = "user"
	sessionTTL  = 7 * 24 * time.Hour
	creditLife  = 2 // years
)

// AuthServiceImpl implements domain.AuthService
type AuthServiceImpl struct {
	userRepo        domain.UserRepository
	sessionRepo     domain.SessionRepository
	passwordSvc     domain.PasswordService
	tokenSvc        domain.TokenService
	reportGen       domain.ReportGenerator
	notificationSvc domain.NotificationService
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo domain.UserRepository,
	sessionRepo domain.SessionRepository,
	passwordSvc domain.PasswordService,
	tokenSvc domain.TokenService,
	reportGen domain.ReportGenerator,
	notificationSvc domain.NotificationService,
) domain.AuthService {
	return &AuthServiceImpl{
		userRepo:        userRepo,
		sessionRepo:     sessionRepo,
		passwordSvc:     passwordSvc,
		tokenSvc:        tokenSvc,
		reportGen:       reportGen,
		notificationSvc: notificationSvc,
	}
}

// Signup implements domain.AuthService. Reports are generated before their
// owning credits so each credit can hold the report reference.
func (s *AuthServiceImpl) Signup(ctx context.Context, req *domain.SignupRequest) (*domain.AuthResult, error) {
	email := NormalizeEmail(req.Email)

	existingUser, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil && err != domain.ErrUserNotFound {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existingUser != nil {
		return nil, domain.ErrAlreadyRegistered
	}

	hashedPassword, err := s.passwordSvc.Hash(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	credits := make([]domain.Credit, 0, len(req.Credits))
	for _, rc := range req.Credits {
		credit := domain.Credit{
			Type:      rc.Type,
			ExpiresAt: now.AddDate(creditLife, 0, 0),
		}
		if rc.GenerateReport {
			report, err := s.reportGen.Generate(ctx, rc.Type)
			if err != nil {
				return nil, fmt.Errorf("failed to generate report: %w", err)
			}
			credit.HasReport = true
			credit.Report = report
		}
		credits = append(credits, credit)
	}

	user := &domain.User{
		Name:         req.Name,
		Email:        email,
		Phone:        req.Phone,
		CardNumber:   req.CardNumber,
		PasswordHash: hashedPassword,
		Role:         defaultRole,
		Credits:      credits,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	result, err := issueSession(ctx, s.sessionRepo, s.tokenSvc, user)
	if err != nil {
		return nil, err
	}

	// Best effort, never fails the signup
	if err := s.notificationSvc.SendSMS(user.Phone, "Welcome! Your account is ready."); err != nil {
		log.Printf("%s: user_id=%d error=%v", domain.WelcomeSMSFailed, user.ID, err)
	}

	log.Printf("%s: user_id=%d email=%s credits=%d timestamp=%s",
		domain.UserRegisteredEvent, user.ID, user.Email, len(credits), now.UTC().Format(time.RFC3339))

	return result, nil
}

// Login implements domain.AuthService
func (s *AuthServiceImpl) Login(ctx context.Context, email, password string) (*domain.AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	if !s.passwordSvc.Verify(user.PasswordHash, password) {
		log.Printf("%s: email=%s timestamp=%s",
			domain.UserLoginFailedEvent, user.Email, time.Now().UTC().Format(time.RFC3339))
		return nil, domain.ErrInvalidCredentials
	}

	result, err := issueSession(ctx, s.sessionRepo, s.tokenSvc, user)
	if err != nil {
		return nil, err
	}

	log.Printf("%s: user_id=%d email=%s", domain.UserLoginEvent, user.ID, user.Email)
	return result, nil
}

// Logout implements domain.AuthService
func (s *AuthServiceImpl) Logout(ctx context.Context, sessionID string) error {
	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		return err
	}
	log.Printf("%s: session_id=%s", domain.UserLogoutEvent, sessionID)
	return nil
}

// UpdatePassword implements domain.AuthService. The lookup is keyed on the
// session's user ID, never on an email-shaped identity.
func (s *AuthServiceImpl) UpdatePassword(ctx context.Context, userID uint, password string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	hashedPassword, err := s.passwordSvc.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = hashedPassword

	if err := s.userRepo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	log.Printf("%s: user_id=%d", domain.PasswordUpdatedEvent, user.ID)
	return nil
}

// DeleteAccount implements domain.AuthService. The session is terminated even
// when its cleanup fails; the account itself is already gone.
func (s *AuthServiceImpl) DeleteAccount(ctx context.Context, userID uint, sessionID string) error {
	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return err
	}

	if err := s.sessionRepo.Delete(ctx, sessionID); err != nil {
		log.Printf("SESSION_CLEANUP_FAILED: user_id=%d session_id=%s error=%v", userID, sessionID, err)
	}

	log.Printf("%s: user_id=%d", domain.UserDeletedEvent, userID)
	return nil
}

// issueSession creates a session record and the JWT pair for it. Shared by
// signup, login and reset completion.
func issueSession(ctx context.Context, sessionRepo domain.SessionRepository, tokenSvc domain.TokenService, user *domain.User) (*domain.AuthResult, error) {
	session := &domain.Session{
		ID:        fmt.Sprintf("sess_%d_%d", user.ID, time.Now().UnixNano()),
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(sessionTTL),
		CreatedAt: time.Now(),
	}

	if err := sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	accessToken, err := tokenSvc.GenerateAccessToken(user.ID, user.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := tokenSvc.GenerateRefreshToken(user.ID, user.Role, session.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &domain.AuthResult{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		SessionID:    session.ID,
		ExpiresIn:    15 * 60, // 15 minutes in seconds
	}, nil
}
