package notifications

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	htmltemplate "html/template"
	"net/smtp"
	"strconv"
	"strings"
	texttemplate "text/template"
	"time"

	"theatre/internal/shared/config"
	"theatre/pkg/logger"
)

// EmailService sends rendered notifications
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

// NewSMTPConfig builds an SMTP config from the email settings
func NewSMTPConfig(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  "Theatre Box Office",
		UseTLS:    true,
		Timeout:   30 * time.Second,
	}
}

func validateSMTPConfig(config *SMTPConfig) error {
	if config == nil {
		return errors.New("SMTP config is nil")
	}
	if config.Host == "" {
		return errors.New("SMTP host is required")
	}
	if config.Port <= 0 || config.Port > 65535 {
		return errors.New("SMTP port must be between 1 and 65535")
	}
	if config.FromEmail == "" {
		return errors.New("from email is required")
	}
	return nil
}

const confirmationHTML = `<h2>Your tickets are confirmed</h2>
<p>Hi {{.Name}},</p>
<p>Reservation <strong>{{.ReservationID}}</strong></p>
<table>
<tr><th>Play</th><th>Hall</th><th>Show time</th><th>Row</th><th>Seat</th></tr>
{{range .Tickets}}<tr><td>{{.PlayTitle}}</td><td>{{.HallName}}</td><td>{{.ShowTime}}</td><td>{{.Row}}</td><td>{{.Seat}}</td></tr>
{{end}}</table>
<p>Enjoy the show!</p>`

const confirmationText = `Hi {{.Name}},

Your reservation {{.ReservationID}} is confirmed.
{{range .Tickets}}
- {{.PlayTitle}}, {{.HallName}}, {{.ShowTime}}: row {{.Row}} seat {{.Seat}}{{end}}

Enjoy the show!`

var (
	confirmationHTMLTemplate = htmltemplate.Must(htmltemplate.New("html").Parse(confirmationHTML))
	confirmationTextTemplate = texttemplate.Must(texttemplate.New("text").Parse(confirmationText))
)

// RenderReservationConfirmation returns the html and plain text bodies
func RenderReservationConfirmation(data TemplateData) (string, string, error) {
	var htmlBuf, textBuf bytes.Buffer
	if err := confirmationHTMLTemplate.Execute(&htmlBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute HTML template: %w", err)
	}
	if err := confirmationTextTemplate.Execute(&textBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute text template: %w", err)
	}
	return htmlBuf.String(), textBuf.String(), nil
}

// SMTPEmailService is a real SMTP implementation of the EmailService interface
type SMTPEmailService struct {
	config *SMTPConfig
	log    *logger.Logger
}

func NewSMTPEmailService(config *SMTPConfig, log *logger.Logger) (*SMTPEmailService, error) {
	if err := validateSMTPConfig(config); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}
	return &SMTPEmailService{config: config, log: log}, nil
}

func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	htmlBody, textBody, err := RenderReservationConfirmation(notification.TemplateData)
	if err != nil {
		return fmt.Errorf("failed to generate email content: %w", err)
	}

	message := s.buildMessage(notification.RecipientEmail, notification.Subject, htmlBody, textBody)

	var auth smtp.Auth
	if s.config.Username != "" {
		auth = smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	}
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)

	if s.config.UseTLS {
		err = s.sendWithSTARTTLS(ctx, addr, auth, notification.RecipientEmail, message)
	} else {
		err = smtp.SendMail(addr, auth, s.config.FromEmail, []string{notification.RecipientEmail}, message)
	}
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.InfoWithContext(ctx, "Email sent", map[string]interface{}{
		"notification_id": notification.ID.String(),
		"type":            string(notification.Type),
		"recipient":       notification.RecipientEmail,
	})
	return nil
}

func (s *SMTPEmailService) sendWithSTARTTLS(ctx context.Context, addr string, auth smtp.Auth, to string, message []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	client, err := smtp.Dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer client.Quit()

	tlsconfig := &tls.Config{
		ServerName: s.config.Host,
	}
	if err = client.StartTLS(tlsconfig); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}

	if auth != nil {
		if err = client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate: %w", err)
		}
	}

	if err = client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err = client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err = w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	return w.Close()
}

// buildMessage creates a multipart/alternative message with text and html parts
func (s *SMTPEmailService) buildMessage(to, subject, htmlBody, textBody string) []byte {
	boundary := "boundary_" + strconv.FormatInt(time.Now().UnixNano(), 10)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", s.config.FromName, s.config.FromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	if textBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, textBody)
	}
	if htmlBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, htmlBody)
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)

	return []byte(b.String())
}

// LogEmailService writes notifications to the log instead of sending them.
// Used when no SMTP host is configured.
type LogEmailService struct {
	log *logger.Logger
}

func NewLogEmailService(log *logger.Logger) *LogEmailService {
	return &LogEmailService{log: log}
}

func (s *LogEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	_, textBody, err := RenderReservationConfirmation(notification.TemplateData)
	if err != nil {
		return err
	}
	s.log.InfoWithContext(ctx, "Email (not sent, SMTP disabled)", map[string]interface{}{
		"type":      string(notification.Type),
		"recipient": notification.RecipientEmail,
		"subject":   notification.Subject,
		"body":      textBody,
	})
	return nil
}
