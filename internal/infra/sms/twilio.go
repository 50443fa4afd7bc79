package sms

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"courier/internal/domain/notification"

	"github.com/twilio/twilio-go"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"
)

var _ notification.Sender = (*TwilioSender)(nil)

// Config holds Twilio account credentials and the sending number.
type Config struct {
	AccountSID string
	AuthToken  string
	FromNumber string
}

// messageAPI is the subset of the Twilio REST API the sender needs.
type messageAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// TwilioSender renders SMS templates and sends one message per recipient via Twilio.
type TwilioSender struct {
	cfg       Config
	templates notification.TemplateSource
	renderer  notification.Renderer
	api       messageAPI
}

// NewTwilioSender creates a new Twilio SMS sender.
func NewTwilioSender(cfg Config, templates notification.TemplateSource, renderer notification.Renderer) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: cfg.AccountSID,
		Password: cfg.AuthToken,
	})
	return &TwilioSender{
		cfg:       cfg,
		templates: templates,
		renderer:  renderer,
		api:       client.Api,
	}
}

// Channel returns the SMS channel identifier.
func (s *TwilioSender) Channel() notification.Channel {
	return notification.ChannelSMS
}

// Send renders templateName once and sends it to every recipient. The channel
// succeeds if at least one message was accepted; per-recipient failures are still
// reported in Errors. MessageID joins the accepted message SIDs with ", ".
func (s *TwilioSender) Send(ctx context.Context, templateName string, params map[string]string, recipients []string) notification.ChannelResult {
	if s.cfg.AccountSID == "" || s.cfg.AuthToken == "" {
		return notification.Failed("", "SMS configuration is incomplete")
	}

	tpl, err := s.templates.Lookup(notification.ChannelSMS, templateName)
	if err != nil {
		slog.Error("failed to send sms", "template", templateName, "error", err)
		return notification.Failed("", "Failed to send SMS: "+err.Error())
	}
	body := s.renderer.Render(tpl, params)

	var (
		sids []string
		errs []string
	)
	for _, to := range recipients {
		if err := ctx.Err(); err != nil {
			errs = append(errs, fmt.Sprintf("Failed to send SMS to %s: %s", to, err.Error()))
			continue
		}

		sid, err := s.sendOne(to, body)
		if err != nil {
			slog.Error("failed to send sms",
				"phone_number", to,
				"template", templateName,
				"error", err,
			)
			errs = append(errs, fmt.Sprintf("Failed to send SMS to %s: %s", to, err.Error()))
			continue
		}

		slog.Info("sms sent", "phone_number", to, "template", templateName, "sid", sid)
		sids = append(sids, sid)
	}

	if len(sids) == 0 {
		const msg = "Failed to send SMS to any recipients"
		if len(errs) == 0 {
			errs = append(errs, msg)
		}
		return notification.Failed(msg, errs...)
	}

	return notification.ChannelResult{
		Success:   true,
		Message:   fmt.Sprintf("SMS sent successfully to %d recipients", len(sids)),
		MessageID: strings.Join(sids, ", "),
		Errors:    errs,
	}
}

func (s *TwilioSender) sendOne(to, body string) (string, error) {
	params := &openapi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.cfg.FromNumber)
	params.SetBody(body)

	msg, err := s.api.CreateMessage(params)
	if err != nil {
		return "", err
	}
	if msg == nil || msg.Sid == nil || *msg.Sid == "" {
		return "", errors.New("twilio returned no message sid")
	}
	return *msg.Sid, nil
}
