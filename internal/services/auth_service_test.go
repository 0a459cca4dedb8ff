package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/you/accountsvc/domain"
	"github.com/you/accountsvc/internal/mocks"
)

func newAuthService(
	userRepo *mocks.MockUserRepository,
	sessionRepo *mocks.MockSessionRepository,
	reportGen *mocks.MockReportGenerator,
	notificationSvc *mocks.MockNotificationService,
) domain.AuthService {
	return NewAuthService(
		userRepo,
		sessionRepo,
		mocks.NewMockPasswordService(),
		mocks.NewMockTokenService(),
		reportGen,
		notificationSvc,
	)
}

func TestAuthServiceImpl_Signup(t *testing.T) {
	tests := []struct {
		name          string
		req           *domain.SignupRequest
		setupMocks    func(*mocks.MockUserRepository, *mocks.MockSessionRepository, *mocks.MockReportGenerator)
		expectedError error
		validate      func(t *testing.T, result *domain.AuthResult)
	}{
		{
			name: "successful signup with report credit",
			req: &domain.SignupRequest{
				Name:       "A",
				Phone:      "+14155552671",
				CardNumber: "4111111111111111",
				Email:      "A.B+x@Gmail.com",
				Password:   "secret123",
				Credits:    []domain.SignupCredit{{Type: "auto", GenerateReport: true}},
			},
			setupMocks: func(userRepo *mocks.MockUserRepository, sessionRepo *mocks.MockSessionRepository, reportGen *mocks.MockReportGenerator) {
				userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
					user.ID = 1
					return nil
				}
			},
			expectedError: nil,
			validate: func(t *testing.T, result *domain.AuthResult) {
				if result == nil {
					t.Fatal("result is nil")
				}
				user := result.User
				if user.Email != "a.b+x@gmail.com" {
					t.Errorf("expected normalized dot-preserving email, got %s", user.Email)
				}
				if user.PasswordHash != "hashed_secret123" {
					t.Errorf("unexpected password hash %s", user.PasswordHash)
				}
				if user.Role != "user" {
					t.Errorf("expected role user, got %s", user.Role)
				}
				if len(user.Credits) != 1 {
					t.Fatalf("expected 1 credit, got %d", len(user.Credits))
				}
				credit := user.Credits[0]
				if !credit.HasReport {
					t.Error("expected credit to carry a report linkage")
				}
				if credit.Report == nil {
					t.Fatal("expected report to be created with the credit")
				}
				if credit.Report.Type != "auto" {
					t.Errorf("expected report type auto, got %s", credit.Report.Type)
				}
				wantExpiry := time.Now().AddDate(2, 0, 0)
				if diff := credit.ExpiresAt.Sub(wantExpiry); diff < -time.Minute || diff > time.Minute {
					t.Errorf("credit expiry %v not within a minute of now+2y", credit.ExpiresAt)
				}
				if result.SessionID == "" {
					t.Error("expected a session to be established")
				}
				if result.AccessToken == "" || result.RefreshToken == "" {
					t.Error("expected tokens to be issued")
				}
			},
		},
		{
			name: "credit without report has no linkage",
			req: &domain.SignupRequest{
				Name:       "B",
				Phone:      "+14155552671",
				CardNumber: "4111111111111111",
				Email:      "b@example.com",
				Password:   "secret123",
				Credits:    []domain.SignupCredit{{Type: "basic", GenerateReport: false}},
			},
			setupMocks: func(userRepo *mocks.MockUserRepository, sessionRepo *mocks.MockSessionRepository, reportGen *mocks.MockReportGenerator) {
				reportGen.GenerateFunc = func(ctx context.Context, creditType string) (*domain.Report, error) {
					t.Error("report generator must not be called for generate_report=false")
					return nil, errors.New("unexpected call")
				}
			},
			expectedError: nil,
			validate: func(t *testing.T, result *domain.AuthResult) {
				credit := result.User.Credits[0]
				if credit.HasReport || credit.Report != nil || credit.ReportID != nil {
					t.Error("expected credit without report linkage")
				}
			},
		},
		{
			name: "duplicate email performs no write",
			req: &domain.SignupRequest{
				Name:       "A",
				Phone:      "+14155552671",
				CardNumber: "4111111111111111",
				Email:      "Existing@Example.com",
				Password:   "secret123",
			},
			setupMocks: func(userRepo *mocks.MockUserRepository, sessionRepo *mocks.MockSessionRepository, reportGen *mocks.MockReportGenerator) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					if email != "existing@example.com" {
						t.Errorf("lookup used unnormalized email %s", email)
					}
					return &domain.User{ID: 7, Email: email}, nil
				}
				userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
					t.Error("create must not be called for a duplicate email")
					return nil
				}
				sessionRepo.CreateFunc = func(ctx context.Context, session *domain.Session) error {
					t.Error("no session may be established for a duplicate email")
					return nil
				}
			},
			expectedError: domain.ErrAlreadyRegistered,
		},
		{
			name: "user creation failure propagates",
			req: &domain.SignupRequest{
				Name:       "A",
				Phone:      "+14155552671",
				CardNumber: "4111111111111111",
				Email:      "a@example.com",
				Password:   "secret123",
			},
			setupMocks: func(userRepo *mocks.MockUserRepository, sessionRepo *mocks.MockSessionRepository, reportGen *mocks.MockReportGenerator) {
				userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
					return errors.New("database error")
				}
			},
			expectedError: errors.New("failed to create user: database error"),
		},
		{
			name: "report generation failure aborts signup",
			req: &domain.SignupRequest{
				Name:       "A",
				Phone:      "+14155552671",
				CardNumber: "4111111111111111",
				Email:      "a@example.com",
				Password:   "secret123",
				Credits:    []domain.SignupCredit{{Type: "auto", GenerateReport: true}},
			},
			setupMocks: func(userRepo *mocks.MockUserRepository, sessionRepo *mocks.MockSessionRepository, reportGen *mocks.MockReportGenerator) {
				reportGen.GenerateFunc = func(ctx context.Context, creditType string) (*domain.Report, error) {
					return nil, errors.New("provider down")
				}
				userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
					t.Error("create must not be called when report generation fails")
					return nil
				}
			},
			expectedError: errors.New("failed to generate report: provider down"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := mocks.NewMockUserRepository()
			sessionRepo := mocks.NewMockSessionRepository()
			reportGen := mocks.NewMockReportGenerator()
			notificationSvc := mocks.NewMockNotificationService()
			if tt.setupMocks != nil {
				tt.setupMocks(userRepo, sessionRepo, reportGen)
			}

			svc := newAuthService(userRepo, sessionRepo, reportGen, notificationSvc)
			result, err := svc.Signup(context.Background(), tt.req)

			if tt.expectedError != nil {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tt.expectedError)
				}
				if !errors.Is(err, tt.expectedError) && err.Error() != tt.expectedError.Error() {
					t.Fatalf("expected error %v, got %v", tt.expectedError, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.validate != nil {
				tt.validate(t, result)
			}
		})
	}
}

func TestAuthServiceImpl_Signup_ExistenceCheckFailureAborts(t *testing.T) {
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
		return nil, errors.New("connection reset")
	}
	userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
		t.Error("create must not be called when the existence check fails")
		return nil
	}

	svc := newAuthService(userRepo, mocks.NewMockSessionRepository(), mocks.NewMockReportGenerator(), mocks.NewMockNotificationService())
	_, err := svc.Signup(context.Background(), &domain.SignupRequest{
		Name:       "A",
		Phone:      "+14155552671",
		CardNumber: "4111111111111111",
		Email:      "a@example.com",
		Password:   "secret123",
	})
	if err == nil {
		t.Fatal("expected the store failure to abort the signup")
	}
	if errors.Is(err, domain.ErrAlreadyRegistered) {
		t.Fatalf("store failure must not be reported as a duplicate: %v", err)
	}
	if !strings.Contains(err.Error(), "connection reset") {
		t.Fatalf("expected the store failure to be wrapped, got %v", err)
	}
}

func TestAuthServiceImpl_Signup_WelcomeSMSFailureIsNotFatal(t *testing.T) {
	userRepo := mocks.NewMockUserRepository()
	userRepo.CreateFunc = func(ctx context.Context, user *domain.User) error {
		user.ID = 3
		return nil
	}
	notificationSvc := mocks.NewMockNotificationService()
	notificationSvc.SendSMSFunc = func(to, message string) error {
		return errors.New("twilio unreachable")
	}

	svc := newAuthService(userRepo, mocks.NewMockSessionRepository(), mocks.NewMockReportGenerator(), notificationSvc)
	result, err := svc.Signup(context.Background(), &domain.SignupRequest{
		Name:       "A",
		Phone:      "+14155552671",
		CardNumber: "4111111111111111",
		Email:      "a@example.com",
		Password:   "secret123",
	})
	if err != nil {
		t.Fatalf("SMS failure must not fail the signup: %v", err)
	}
	if result == nil || result.SessionID == "" {
		t.Fatal("expected signup to complete with a session")
	}
}

func TestAuthServiceImpl_Login(t *testing.T) {
	validUser := func() *domain.User {
		return &domain.User{
			ID:           1,
			Email:        "user@example.com",
			PasswordHash: "hashed_secret123",
			Role:         "user",
		}
	}

	tests := []struct {
		name          string
		email         string
		password      string
		setupMocks    func(*mocks.MockUserRepository, *mocks.MockSessionRepository)
		expectedError error
	}{
		{
			name:     "successful login",
			email:    "User@Example.com",
			password: "secret123",
			setupMocks: func(userRepo *mocks.MockUserRepository, sessionRepo *mocks.MockSessionRepository) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					if email != "user@example.com" {
						t.Errorf("lookup used unnormalized email %s", email)
					}
					return validUser(), nil
				}
			},
		},
		{
			name:          "unknown email establishes no session",
			email:         "ghost@example.com",
			password:      "secret123",
			expectedError: domain.ErrInvalidCredentials,
			setupMocks: func(userRepo *mocks.MockUserRepository, sessionRepo *mocks.MockSessionRepository) {
				sessionRepo.CreateFunc = func(ctx context.Context, session *domain.Session) error {
					t.Error("no session may be created for unknown email")
					return nil
				}
			},
		},
		{
			name:          "wrong password",
			email:         "user@example.com",
			password:      "nope",
			expectedError: domain.ErrInvalidCredentials,
			setupMocks: func(userRepo *mocks.MockUserRepository, sessionRepo *mocks.MockSessionRepository) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					return validUser(), nil
				}
			},
		},
		{
			name:          "session store failure propagates",
			email:         "user@example.com",
			password:      "secret123",
			expectedError: errors.New("failed to create session: redis down"),
			setupMocks: func(userRepo *mocks.MockUserRepository, sessionRepo *mocks.MockSessionRepository) {
				userRepo.FindByEmailFunc = func(ctx context.Context, email string) (*domain.User, error) {
					return validUser(), nil
				}
				sessionRepo.CreateFunc = func(ctx context.Context, session *domain.Session) error {
					return errors.New("redis down")
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userRepo := mocks.NewMockUserRepository()
			sessionRepo := mocks.NewMockSessionRepository()
			if tt.setupMocks != nil {
				tt.setupMocks(userRepo, sessionRepo)
			}

			svc := newAuthService(userRepo, sessionRepo, mocks.NewMockReportGenerator(), mocks.NewMockNotificationService())
			result, err := svc.Login(context.Background(), tt.email, tt.password)

			if tt.expectedError != nil {
				if err == nil {
					t.Fatalf("expected error %v, got nil", tt.expectedError)
				}
				if !errors.Is(err, tt.expectedError) && err.Error() != tt.expectedError.Error() {
					t.Fatalf("expected error %v, got %v", tt.expectedError, err)
				}
				if result != nil {
					t.Error("expected nil result on failure")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result.SessionID == "" || !strings.HasPrefix(result.SessionID, "sess_1_") {
				t.Errorf("unexpected session id %q", result.SessionID)
			}
		})
	}
}

func TestAuthServiceImpl_UpdatePassword(t *testing.T) {
	var saved *domain.User
	userRepo := mocks.NewMockUserRepository()
	userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
		return &domain.User{ID: id, Email: "user@example.com", PasswordHash: "hashed_old"}, nil
	}
	userRepo.UpdateFunc = func(ctx context.Context, user *domain.User) error {
		saved = user
		return nil
	}

	svc := newAuthService(userRepo, mocks.NewMockSessionRepository(), mocks.NewMockReportGenerator(), mocks.NewMockNotificationService())
	if err := svc.UpdatePassword(context.Background(), 5, "newsecret"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved == nil {
		t.Fatal("expected update to be persisted")
	}
	if saved.PasswordHash != "hashed_newsecret" {
		t.Errorf("expected stored hash, got %s", saved.PasswordHash)
	}
}

func TestAuthServiceImpl_DeleteAccount(t *testing.T) {
	t.Run("session cleanup failure is not fatal", func(t *testing.T) {
		sessionRepo := mocks.NewMockSessionRepository()
		sessionRepo.DeleteFunc = func(ctx context.Context, sessionID string) error {
			return errors.New("redis down")
		}

		svc := newAuthService(mocks.NewMockUserRepository(), sessionRepo, mocks.NewMockReportGenerator(), mocks.NewMockNotificationService())
		if err := svc.DeleteAccount(context.Background(), 1, "sess_1_1"); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("user delete failure propagates", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository()
		userRepo.DeleteFunc = func(ctx context.Context, id uint) error {
			return domain.ErrUserNotFound
		}

		svc := newAuthService(userRepo, mocks.NewMockSessionRepository(), mocks.NewMockReportGenerator(), mocks.NewMockNotificationService())
		if err := svc.DeleteAccount(context.Background(), 1, "sess_1_1"); !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})
}
