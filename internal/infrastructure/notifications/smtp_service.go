package notifications

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/you/accountsvc/domain"
	"gopkg.in/gomail.v2"
)

// SMTPServiceImpl implements domain.Mailer over a gomail SMTP dialer.
// All sends go through sendWithFallback so the certificate-relaxed retry
// policy lives in exactly one place.
type SMTPServiceImpl struct {
	host     string
	port     int
	username string
	password string
	from     string
}

// NewSMTPService creates a new SMTP mailer
func NewSMTPService(host string, port int, username, password, from string) domain.Mailer {
	return &SMTPServiceImpl{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// SendPasswordReset implements domain.Mailer
func (s *SMTPServiceImpl) SendPasswordReset(to, resetURL string) error {
	body := fmt.Sprintf(
		"Someone requested a password reset for your account.\r\n\r\n"+
			"Follow this link to choose a new password:\r\n%s\r\n\r\n"+
			"The link expires in one hour. If this wasn't you, ignore this email.\r\n",
		resetURL,
	)
	return s.send(to, "Reset your password", body)
}

// SendPasswordChanged implements domain.Mailer
func (s *SMTPServiceImpl) SendPasswordChanged(to string) error {
	body := fmt.Sprintf(
		"The password for %s was just changed.\r\n\r\n"+
			"If this wasn't you, request a password reset immediately.\r\n",
		to,
	)
	return s.send(to, "Your password was changed", body)
}

func (s *SMTPServiceImpl) send(to, subject, body string) error {
	// If the transport is not configured, log instead of sending
	if s.host == "" {
		fmt.Printf("[MOCK MAIL] To: %s, Subject: %s, Body: %s\n", to, subject, body)
		return nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return s.sendWithFallback(m)
}

// sendWithFallback sends the message, retrying exactly once with certificate
// verification relaxed when the transport rejects a self-signed chain. Any
// other failure is returned as-is.
func (s *SMTPServiceImpl) sendWithFallback(m *gomail.Message) error {
	d := gomail.NewDialer(s.host, s.port, s.username, s.password)
	err := d.DialAndSend(m)
	if err == nil {
		return nil
	}

	if !isSelfSignedCertError(err) {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("%s: host=%s error=%v timestamp=%s",
		domain.MailTLSFallbackEvent, s.host, err, time.Now().UTC().Format(time.RFC3339))

	retry := gomail.NewDialer(s.host, s.port, s.username, s.password)
	retry.TLSConfig = &tls.Config{ServerName: s.host, InsecureSkipVerify: true}
	if err := retry.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email after TLS fallback: %w", err)
	}
	return nil
}

// isSelfSignedCertError reports whether err is a TLS verification failure
// caused by a self-signed certificate in the chain.
func isSelfSignedCertError(err error) bool {
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "self-signed certificate") ||
		strings.Contains(msg, "self signed certificate") ||
		strings.Contains(msg, "certificate signed by unknown authority")
}
