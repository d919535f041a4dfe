package email

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log/slog"
	"net/mail"
	"net/smtp"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/config"
)

//go:embed templates/*.html
var templateFS embed.FS

const maxRetries = 3

// ErrDisabled is returned when SMTP delivery is switched off.
var ErrDisabled = errors.New("email delivery is disabled")

// EmailService defines the interface for sending emails
type EmailService interface {
	SendWelcome(msg WelcomeMessage) error
}

// WelcomeMessage carries the first-login credentials of a new employee.
type WelcomeMessage struct {
	To                string
	Name              string
	EmployeeCode      string
	TemporaryPassword string
	LoginURL          string
}

type emailServiceImpl struct {
	cfg       config.SMTPConfig
	templates *template.Template
	send      func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
	backoff   time.Duration
}

// NewEmailService creates a new email service instance
func NewEmailService(cfg config.SMTPConfig) (EmailService, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse email templates: %w", err)
	}

	return &emailServiceImpl{
		cfg:       cfg,
		templates: tmpl,
		send:      smtp.SendMail,
		backoff:   time.Second,
	}, nil
}

// SendWelcome sends the login id and temporary password to a new employee
func (s *emailServiceImpl) SendWelcome(msg WelcomeMessage) error {
	var body bytes.Buffer
	if err := s.templates.ExecuteTemplate(&body, "welcome.html", msg); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}

	return s.sendHTML(msg.To, "Welcome to Dayflow HR", body.String())
}

func (s *emailServiceImpl) sendHTML(to, subject, htmlBody string) error {
	if !s.cfg.Enabled {
		slog.Warn("SMTP disabled, skipping email send", "to", to, "subject", subject)
		return ErrDisabled
	}

	from, err := mail.ParseAddress(s.cfg.From)
	if err != nil {
		return fmt.Errorf("invalid SMTP_FROM address: %w", err)
	}

	headers := fmt.Sprintf("From: %s\r\n", from.String())
	headers += fmt.Sprintf("To: %s\r\n", to)
	headers += fmt.Sprintf("Subject: %s\r\n", subject)
	headers += "MIME-Version: 1.0\r\n"
	headers += "Content-Type: text/html; charset=\"UTF-8\"\r\n"
	headers += "\r\n"

	message := []byte(headers + htmlBody)

	var auth smtp.Auth
	if s.cfg.Username != "" {
		auth = smtp.PlainAuth("", s.cfg.Username, s.cfg.Password, s.cfg.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	var lastErr error
	for attempt := 1; attempt <= maxRetries; attempt++ {
		err := s.send(addr, auth, from.Address, []string{to}, message)
		if err == nil {
			slog.Info("Email sent successfully", "to", to, "subject", subject, "attempt", attempt)
			return nil
		}

		lastErr = err
		slog.Error("Failed to send email",
			"to", to,
			"subject", subject,
			"attempt", attempt,
			"max_retries", maxRetries,
			"error", err,
		)

		// 1x, 2x, 4x backoff
		if attempt < maxRetries {
			time.Sleep(s.backoff << (attempt - 1))
		}
	}

	return fmt.Errorf("failed to send email after %d attempts: %w", maxRetries, lastErr)
}
