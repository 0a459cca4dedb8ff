package domain

import "time"

// User represents an account holder in the system
type User struct {
	ID               uint
	Name             string
	Email            string
	Phone            string
	CardNumber       string
	PasswordHash     string `gorm:"column:password"`
	Role             string
	ResetToken       *string
	ResetTokenExpiry *time.Time
	Credits          []Credit
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Credit represents a check entitlement owned by a user. A credit bought with
// generate_report set carries a reference to the report produced for it.
type Credit struct {
	ID        uint
	UserID    uint
	Type      string
	ExpiresAt time.Time
	HasReport bool
	ReportID  *uint
	Report    *Report
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Report represents a vehicle check report backing a credit
type Report struct {
	ID           uint
	Type         string
	Registration string
	Complete     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// SignupCredit describes one credit requested at signup
type SignupCredit struct {
	Type           string
	GenerateReport bool
}

// SignupRequest represents the validated signup input
type SignupRequest struct {
	Name       string
	Phone      string
	CardNumber string
	Email      string
	Password   string
	Credits    []SignupCredit
}

// AuthResult represents authentication outcome
type AuthResult struct {
	User         *User
	AccessToken  string
	RefreshToken string
	SessionID    string
	ExpiresIn    int64
}

// Session represents a user session
type Session struct {
	ID        string
	UserID    uint
	ExpiresAt time.Time
	CreatedAt time.Time
}

// TokenClaims represents JWT token claims
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	Role      string `json:"role"`
	SessionID string `json:"session_id,omitempty"`
	IssuedAt  int64  `json:"iat"`
	ExpiresAt int64  `json:"exp"`
}
