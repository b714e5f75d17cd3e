package email

import (
	"fmt"
	"time"

	"omnisnt_backend/internal/config"
	"omnisnt_backend/internal/logger"
	"omnisnt_backend/internal/models"
	"omnisnt_backend/internal/repositories"

	"gopkg.in/gomail.v2"
)

// SMTPProvider delivers mail over SMTP via gomail and appends an EmailLog
// row for every attempt.
type SMTPProvider struct {
	host      string
	port      int
	username  string
	password  string
	fromEmail string
	fromName  string

	baseURL         string
	verificationTTL time.Duration
	resetTTL        time.Duration

	logs repositories.EmailLogRepository
}

func NewSMTPProvider(cfg *config.Config, logs repositories.EmailLogRepository) *SMTPProvider {
	return &SMTPProvider{
		host:            cfg.Email.SMTPHost,
		port:            cfg.Email.SMTPPort,
		username:        cfg.Email.SMTPUser,
		password:        cfg.Email.SMTPPassword,
		fromEmail:       cfg.Email.FromEmail,
		fromName:        cfg.Email.FromName,
		baseURL:         cfg.App.BaseURL,
		verificationTTL: cfg.VerificationTTL(),
		resetTTL:        cfg.ResetTTL(),
		logs:            logs,
	}
}

func (p *SMTPProvider) Send(to, subject, htmlBody string) error {
	err := p.deliver(to, subject, htmlBody)
	p.record(to, subject, err)
	if err != nil {
		return fmt.Errorf("send email to %s: %w", to, err)
	}
	return nil
}

func (p *SMTPProvider) SendVerification(to, token string) error {
	body, err := renderVerification(p.baseURL, token, "", formatTTL(p.verificationTTL))
	if err != nil {
		return err
	}
	return p.Send(to, verificationSubject, body)
}

func (p *SMTPProvider) SendPasswordReset(to, token string) error {
	body, err := renderReset(p.baseURL, token, formatTTL(p.resetTTL))
	if err != nil {
		return err
	}
	return p.Send(to, resetSubject, body)
}

func (p *SMTPProvider) deliver(to, subject, htmlBody string) error {
	if p.host == "" {
		return fmt.Errorf("SMTP host is not configured")
	}

	m := gomail.NewMessage()
	if p.fromName != "" {
		m.SetHeader("From", m.FormatAddress(p.fromEmail, p.fromName))
	} else {
		m.SetHeader("From", p.fromEmail)
	}
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", htmlBody)

	d := gomail.NewDialer(p.host, p.port, p.username, p.password)
	return d.DialAndSend(m)
}

// record appends the audit row. Failure to write the log is itself only
// logged; mail bookkeeping must never break the calling flow.
func (p *SMTPProvider) record(to, subject string, sendErr error) {
	entry := &models.EmailLog{
		Recipient: to,
		Subject:   subject,
		Status:    models.EmailStatusSent,
	}
	if sendErr != nil {
		entry.Status = models.EmailStatusFailed
		entry.Error = sendErr.Error()
	}

	if err := p.logs.Create(entry); err != nil {
		logger.Error("failed to write email log", "recipient", to, "error", err)
	}
}

func formatTTL(d time.Duration) string {
	if d >= time.Hour && d%time.Hour == 0 {
		hours := int(d / time.Hour)
		if hours == 1 {
			return "1 hour"
		}
		return fmt.Sprintf("%d hours", hours)
	}
	return fmt.Sprintf("%d minutes", int(d/time.Minute))
}
