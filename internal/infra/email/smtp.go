package email

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"courier/internal/domain/notification"
	tmpl "courier/internal/infra/template"

	"github.com/wneessen/go-mail"
)

var _ notification.Sender = (*SMTPSender)(nil)

// Config holds SMTP connection and sender identity settings.
type Config struct {
	Host      string
	Port      int
	Username  string
	Password  string
	UseSSL    bool
	FromEmail string
	FromName  string
}

// SMTPSender renders email templates and delivers them over SMTP using go-mail.
type SMTPSender struct {
	cfg       Config
	templates notification.TemplateSource
	renderer  notification.Renderer

	// deliver performs the SMTP exchange; replaced in tests.
	deliver func(ctx context.Context, msg *mail.Msg) error
}

// NewSMTPSender creates a new SMTP email sender.
func NewSMTPSender(cfg Config, templates notification.TemplateSource, renderer notification.Renderer) *SMTPSender {
	s := &SMTPSender{
		cfg:       cfg,
		templates: templates,
		renderer:  renderer,
	}
	s.deliver = s.dialAndSend
	return s
}

// Channel returns the email channel identifier.
func (s *SMTPSender) Channel() notification.Channel {
	return notification.ChannelEmail
}

// Send renders templateName for the email channel and sends one HTML message
// addressed to all recipients. The result's MessageID is the Message-ID header.
func (s *SMTPSender) Send(ctx context.Context, templateName string, params map[string]string, recipients []string) notification.ChannelResult {
	if s.cfg.Host == "" {
		return notification.Failed("", "Email configuration is incomplete")
	}

	messageID, err := s.send(ctx, templateName, params, recipients)
	if err != nil {
		slog.Error("failed to send email",
			"recipients", strings.Join(recipients, ", "),
			"template", templateName,
			"error", err,
		)
		return notification.Failed("", "Failed to send email: "+err.Error())
	}

	slog.Info("email sent",
		"recipients", strings.Join(recipients, ", "),
		"template", templateName,
		"message_id", messageID,
	)

	return notification.ChannelResult{
		Success:   true,
		Message:   "Email sent successfully",
		MessageID: messageID,
	}
}

func (s *SMTPSender) send(ctx context.Context, templateName string, params map[string]string, recipients []string) (string, error) {
	body, err := s.templates.Lookup(notification.ChannelEmail, templateName)
	if err != nil {
		return "", err
	}
	if len(recipients) == 0 {
		return "", errors.New("no recipients specified")
	}

	html := s.renderer.Render(body, params)

	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.FromName, s.cfg.FromEmail); err != nil {
		return "", fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(recipients...); err != nil {
		return "", fmt.Errorf("invalid recipient: %w", err)
	}

	m.Subject(tmpl.Subject(templateName))
	m.SetMessageID()
	m.SetDate()
	m.SetBodyString(mail.TypeTextHTML, html)
	m.AddAlternativeString(mail.TypeTextPlain, tmpl.PlainText(html))

	if err := s.deliver(ctx, m); err != nil {
		return "", err
	}

	return m.GetMessageID(), nil
}

func (s *SMTPSender) dialAndSend(ctx context.Context, m *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(tlsPolicy(s.cfg.UseSSL)),
	}
	if s.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Username),
			mail.WithPassword(s.cfg.Password),
		)
	}

	c, err := mail.NewClient(s.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	return c.DialAndSendWithContext(ctx, m)
}

// tlsPolicy maps the use_ssl switch to STARTTLS-required or plaintext.
func tlsPolicy(useSSL bool) mail.TLSPolicy {
	if useSSL {
		return mail.TLSMandatory
	}
	return mail.NoTLS
}
