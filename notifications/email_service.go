package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anjiri1684/talent_booking/logger"
	"github.com/wneessen/go-mail"
)

//go:generate mockgen -destination=../mocks/mock_mailer.go -package=mocks github.com/anjiri1684/talent_booking/notifications Mailer

type Email struct {
	ToName  string
	ToEmail string
	Subject string
	HTML    string
	Text    string
}

type Mailer interface {
	Send(ctx context.Context, email Email) error
}

type Config struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromEmail    string
	FromName     string
}

// Configured reports whether enough is set to reach an SMTP server.
func (c Config) Configured() bool {
	return c.SMTPHost != "" && c.FromEmail != ""
}

type SMTPMailer struct {
	config Config
}

func NewSMTPMailer(config Config) *SMTPMailer {
	return &SMTPMailer{config: config}
}

// NewMailer picks the SMTP mailer when SMTP is configured and a logging mailer otherwise.
func NewMailer(config Config, log logger.Logger) Mailer {
	if !config.Configured() {
		log.Warn("⚠️ Email service not configured, emails will only be logged")
		return NewLogMailer(log)
	}
	log.WithField("host", config.SMTPHost).Info("✅ Email service initialized")
	return NewSMTPMailer(config)
}

func (m *SMTPMailer) Send(ctx context.Context, email Email) error {
	if email.ToEmail == "" || !strings.Contains(email.ToEmail, "@") {
		return fmt.Errorf("invalid recipient email: %s", email.ToEmail)
	}

	msg := mail.NewMsg(mail.WithNoDefaultUserAgent())
	if err := msg.FromFormat(m.config.FromName, m.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set email from address: %w", err)
	}
	if email.ToName != "" {
		if err := msg.AddToFormat(email.ToName, email.ToEmail); err != nil {
			return fmt.Errorf("failed to set email recipient: %w", err)
		}
	} else if err := msg.To(email.ToEmail); err != nil {
		return fmt.Errorf("failed to set email recipient: %w", err)
	}
	msg.Subject(email.Subject)
	msg.SetBodyString(mail.TypeTextHTML, email.HTML)
	if email.Text != "" {
		msg.AddAlternativeString(mail.TypeTextPlain, email.Text)
	}

	client, err := m.createSMTPClient()
	if err != nil {
		return err
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

func (m *SMTPMailer) createSMTPClient() (*mail.Client, error) {
	clientOptions := []mail.Option{
		mail.WithPort(m.config.SMTPPort),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(10 * time.Second),
	}
	// Unauthenticated relays are allowed.
	if m.config.SMTPUsername != "" && m.config.SMTPPassword != "" {
		clientOptions = append(clientOptions,
			mail.WithUsername(m.config.SMTPUsername),
			mail.WithPassword(m.config.SMTPPassword),
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
		)
	}

	client, err := mail.NewClient(m.config.SMTPHost, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("failed to create SMTP client: %w", err)
	}
	return client, nil
}

// LogMailer only logs what would have been sent.
type LogMailer struct {
	log logger.Logger
}

func NewLogMailer(log logger.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (m *LogMailer) Send(_ context.Context, email Email) error {
	m.log.WithFields(map[string]interface{}{
		"to":      email.ToEmail,
		"subject": email.Subject,
	}).Info("Email not sent, SMTP disabled")
	return nil
}
