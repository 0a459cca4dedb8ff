package domain

// AuditEventType tags security-relevant log lines
type AuditEventType string

const (
	// Account lifecycle events
	UserRegisteredEvent  AuditEventType = "USER_REGISTERED"
	UserLoginEvent       AuditEventType = "USER_LOGIN"
	UserLoginFailedEvent AuditEventType = "USER_LOGIN_FAILED"
	UserLogoutEvent      AuditEventType = "USER_LOGOUT"
	UserDeletedEvent     AuditEventType = "USER_DELETED"
	PasswordUpdatedEvent AuditEventType = "PASSWORD_UPDATED"

	// Reset-token lifecycle events
	ResetRequestedEvent  AuditEventType = "PASSWORD_RESET_REQUESTED"
	ResetCompletedEvent  AuditEventType = "PASSWORD_RESET_COMPLETED"
	ResetEmailFailed     AuditEventType = "RESET_EMAIL_FAILED"
	ChangedEmailFailed   AuditEventType = "PASSWORD_CHANGED_EMAIL_FAILED"
	WelcomeSMSFailed     AuditEventType = "WELCOME_SMS_FAILED"
	MailTLSFallbackEvent AuditEventType = "SMTP_TLS_FALLBACK"
)
