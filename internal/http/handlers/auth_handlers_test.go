package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/you/accountsvc/domain"
	"github.com/you/accountsvc/internal/mocks"
)

func performJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode body: %v", err)
		}
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return body
}

func TestAuthHandlers_Signup(t *testing.T) {
	gin.SetMode(gin.TestMode)

	validBody := func() map[string]interface{} {
		return map[string]interface{}{
			"name":        "A",
			"phone":       "+14155552671",
			"card_number": "4111111111111111",
			"email":       "A.B+x@Gmail.com",
			"password":    "secret123",
			"credits": []map[string]interface{}{
				{"credit_type": "auto", "generate_report": true},
			},
		}
	}

	tests := []struct {
		name           string
		body           map[string]interface{}
		setupMocks     func(*mocks.MockAuthService)
		expectedStatus int
		expectedError  string
	}{
		{
			name: "successful signup",
			body: validBody(),
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.SignupFunc = func(ctx context.Context, req *domain.SignupRequest) (*domain.AuthResult, error) {
					if req.Email != "A.B+x@Gmail.com" {
						t.Errorf("unexpected email %s", req.Email)
					}
					if len(req.Credits) != 1 || !req.Credits[0].GenerateReport {
						t.Error("expected one credit with generate_report")
					}
					return &domain.AuthResult{
						User:         &domain.User{ID: 1, Email: "a.b+x@gmail.com"},
						AccessToken:  "access_token",
						RefreshToken: "refresh_token",
						SessionID:    "sess_1_1",
						ExpiresIn:    900,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name: "invalid phone reports first violation",
			body: func() map[string]interface{} {
				b := validBody()
				b["phone"] = "not-a-phone"
				return b
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "phone must be a valid mobile number",
		},
		{
			name: "invalid card number",
			body: func() map[string]interface{} {
				b := validBody()
				b["card_number"] = "4111111111111112"
				return b
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "card number failed the validity check",
		},
		{
			name: "invalid email",
			body: func() map[string]interface{} {
				b := validBody()
				b["email"] = "not-an-email"
				return b
			}(),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "email must be a valid email address",
		},
		{
			name: "duplicate email",
			body: validBody(),
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.SignupFunc = func(ctx context.Context, req *domain.SignupRequest) (*domain.AuthResult, error) {
					return nil, domain.ErrAlreadyRegistered
				}
			},
			expectedStatus: http.StatusBadRequest,
			expectedError:  "This email is already registered",
		},
		{
			name: "infrastructure failure",
			body: validBody(),
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.SignupFunc = func(ctx context.Context, req *domain.SignupRequest) (*domain.AuthResult, error) {
					return nil, errors.New("database down")
				}
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			if tt.setupMocks != nil {
				tt.setupMocks(authSvc)
			}

			r := gin.New()
			h := NewAuthHandlers(authSvc, mocks.NewMockUserRepository())
			r.POST("/auth/signup", h.Signup)

			w := performJSON(t, r, http.MethodPost, "/auth/signup", tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedError != "" {
				body := decodeBody(t, w)
				if body["error"] != tt.expectedError {
					t.Errorf("expected error %q, got %q", tt.expectedError, body["error"])
				}
			}
		})
	}
}

func TestAuthHandlers_Login(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           map[string]interface{}
		setupMocks     func(*mocks.MockAuthService)
		expectedStatus int
	}{
		{
			name: "successful login",
			body: map[string]interface{}{"email": "user@example.com", "password": "secret123"},
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.LoginFunc = func(ctx context.Context, email, password string) (*domain.AuthResult, error) {
					return &domain.AuthResult{
						User:         &domain.User{ID: 1, Email: email},
						AccessToken:  "access_token",
						RefreshToken: "refresh_token",
						SessionID:    "sess_1_1",
						ExpiresIn:    900,
					}, nil
				}
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unknown email",
			body:           map[string]interface{}{"email": "ghost@example.com", "password": "secret123"},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "missing password",
			body:           map[string]interface{}{"email": "user@example.com"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "malformed email",
			body:           map[string]interface{}{"email": "nope", "password": "secret123"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			if tt.setupMocks != nil {
				tt.setupMocks(authSvc)
			}

			r := gin.New()
			h := NewAuthHandlers(authSvc, mocks.NewMockUserRepository())
			r.POST("/auth/login", h.Login)

			w := performJSON(t, r, http.MethodPost, "/auth/login", tt.body)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}

			if tt.expectedStatus == http.StatusUnauthorized {
				body := decodeBody(t, w)
				if body["info"] == nil {
					t.Error("expected informational payload on 401")
				}
			}
		})
	}
}

func TestAuthHandlers_Logout(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		setupMocks     func(*mocks.MockAuthService)
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "successful logout",
			expectedStatus: http.StatusOK,
		},
		{
			name: "session destroy failure",
			setupMocks: func(authSvc *mocks.MockAuthService) {
				authSvc.LogoutFunc = func(ctx context.Context, sessionID string) error {
					return errors.New("redis down")
				}
			},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Signed out with errors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			authSvc := mocks.NewMockAuthService()
			if tt.setupMocks != nil {
				tt.setupMocks(authSvc)
			}

			r := gin.New()
			h := NewAuthHandlers(authSvc, mocks.NewMockUserRepository())
			r.GET("/auth/logout", func(c *gin.Context) {
				c.Set("user_id", uint(1))
				c.Set("session_id", "sess_1_1")
			}, h.Logout)

			w := performJSON(t, r, http.MethodGet, "/auth/logout", nil)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d (%s)", tt.expectedStatus, w.Code, w.Body.String())
			}
			if tt.expectedError != "" {
				body := decodeBody(t, w)
				if body["error"] != tt.expectedError {
					t.Errorf("expected error %q, got %q", tt.expectedError, body["error"])
				}
			}
		})
	}
}

func TestAuthHandlers_Delete(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var deletedUser uint
	var deletedSession string
	authSvc := mocks.NewMockAuthService()
	authSvc.DeleteAccountFunc = func(ctx context.Context, userID uint, sessionID string) error {
		deletedUser = userID
		deletedSession = sessionID
		return nil
	}

	r := gin.New()
	h := NewAuthHandlers(authSvc, mocks.NewMockUserRepository())
	r.DELETE("/auth/delete", func(c *gin.Context) {
		c.Set("user_id", uint(9))
		c.Set("session_id", "sess_9_1")
	}, h.Delete)

	w := performJSON(t, r, http.MethodDelete, "/auth/delete", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if deletedUser != 9 || deletedSession != "sess_9_1" {
		t.Errorf("delete called with user=%d session=%s", deletedUser, deletedSession)
	}
}

func TestAuthHandlers_Probe(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("not signed in", func(t *testing.T) {
		r := gin.New()
		h := NewAuthHandlers(mocks.NewMockAuthService(), mocks.NewMockUserRepository())
		r.GET("/auth/login", h.Probe)

		w := performJSON(t, r, http.MethodGet, "/auth/login", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Not signed in") {
			t.Errorf("unexpected body %s", w.Body.String())
		}
	})

	t.Run("signed in", func(t *testing.T) {
		userRepo := mocks.NewMockUserRepository()
		userRepo.FindByIDFunc = func(ctx context.Context, id uint) (*domain.User, error) {
			return &domain.User{ID: id, Email: "user@example.com"}, nil
		}

		r := gin.New()
		h := NewAuthHandlers(mocks.NewMockAuthService(), userRepo)
		r.GET("/auth/login", func(c *gin.Context) { c.Set("user_id", uint(1)) }, h.Probe)

		w := performJSON(t, r, http.MethodGet, "/auth/login", nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d", w.Code)
		}
		if !strings.Contains(w.Body.String(), "Signed in as user@example.com") {
			t.Errorf("unexpected body %s", w.Body.String())
		}
	})
}
