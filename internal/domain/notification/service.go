package notification

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"courier/internal/common"
)

const (
	msgSent          = "Notification sent successfully"
	msgFailed        = "Failed to send notification"
	errNoEligibleJob = "No valid notification type or recipients specified"
)

// Settings holds the process-wide channel switches.
type Settings struct {
	EmailEnabled bool
	SMSEnabled   bool
}

// Enabled reports whether the channel is switched on.
func (s Settings) Enabled(c Channel) bool {
	switch c {
	case ChannelEmail:
		return s.EmailEnabled
	case ChannelSMS:
		return s.SMSEnabled
	}
	return false
}

// Dispatcher fans a notification request out to the eligible channel senders
// and folds their results into one Response.
//
// A Dispatcher holds no per-request state; it is safe for concurrent use as long
// as its TemplateSource and Senders are.
type Dispatcher struct {
	settings  Settings
	templates TemplateSource
	senders   map[Channel]Sender
	recorder  Recorder
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithRecorder attaches a metrics recorder.
func WithRecorder(r Recorder) Option {
	return func(d *Dispatcher) {
		if r != nil {
			d.recorder = r
		}
	}
}

// WithSenders registers channel senders, keyed by their Channel().
func WithSenders(senders ...Sender) Option {
	return func(d *Dispatcher) {
		for _, s := range senders {
			d.senders[s.Channel()] = s
		}
	}
}

// NewDispatcher creates a new Dispatcher.
func NewDispatcher(settings Settings, templates TemplateSource, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		settings:  settings,
		templates: templates,
		senders:   make(map[Channel]Sender, 2),
		recorder:  nopRecorder{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Templates exposes the read-only template source.
func (d *Dispatcher) Templates() TemplateSource {
	return d.templates
}

// Settings returns the channel switches the dispatcher was built with.
func (d *Dispatcher) Settings() Settings {
	return d.settings
}

// SendNotification validates the template, works out which channels are eligible,
// sends email then SMS, and aggregates the outcome. It never returns an error:
// every failure is reported through the Response.
func (d *Dispatcher) SendNotification(ctx context.Context, req *Request) *Response {
	start := time.Now()

	if !d.templates.Exists(req.TemplateName) {
		resp := NewFailure("", common.NewNotFoundError("Template", req.TemplateName).Error())
		d.finish(req.TemplateName, resp, start)
		return resp
	}

	sendEmail := d.eligible(ChannelEmail, req.Type(), req.ToEmails)
	sendSMS := d.eligible(ChannelSMS, req.Type(), req.ToPhoneNumbers)

	if !sendEmail && !sendSMS {
		resp := NewFailure("", errNoEligibleJob)
		d.finish(req.TemplateName, resp, start)
		return resp
	}

	resp := &Response{Errors: []string{}}

	if sendEmail {
		result := d.invoke(ctx, ChannelEmail, req.TemplateName, req.Parameters, req.ToEmails)
		if result.Success {
			resp.EmailMessageID = result.MessageID
		} else {
			resp.Errors = append(resp.Errors, result.Errors...)
		}
	}

	if sendSMS {
		result := d.invoke(ctx, ChannelSMS, req.TemplateName, req.Parameters, req.ToPhoneNumbers)
		if result.Success {
			resp.SMSMessageID = result.MessageID
		} else {
			resp.Errors = append(resp.Errors, result.Errors...)
		}
	}

	resp.Success = len(resp.Errors) == 0 && (resp.EmailMessageID != "" || resp.SMSMessageID != "")
	d.finish(req.TemplateName, resp, start)
	return resp
}

// SendEmail delivers through the email channel only. Unlike SendNotification it
// does not pre-check that the template exists; the sender reports a missing template.
func (d *Dispatcher) SendEmail(ctx context.Context, templateName string, params map[string]string, toEmails []string) *Response {
	return d.sendSingle(ctx, ChannelEmail, templateName, params, toEmails)
}

// SendSMS delivers through the SMS channel only, with the same semantics as SendEmail.
func (d *Dispatcher) SendSMS(ctx context.Context, templateName string, params map[string]string, toPhoneNumbers []string) *Response {
	return d.sendSingle(ctx, ChannelSMS, templateName, params, toPhoneNumbers)
}

func (d *Dispatcher) sendSingle(ctx context.Context, channel Channel, templateName string, params map[string]string, recipients []string) *Response {
	if !d.settings.Enabled(channel) {
		disabled := common.NewChannelDisabledError(channel.Label())
		slog.Warn("channel disabled", "channel", channel, "template", templateName)
		return NewFailure(channel.Label()+" notifications are disabled", disabled.Error())
	}

	result := d.invoke(ctx, channel, templateName, params, recipients)

	resp := &Response{
		Success: result.Success,
		Message: result.Message,
		Errors:  append([]string{}, result.Errors...),
	}
	if result.Success {
		switch channel {
		case ChannelEmail:
			resp.EmailMessageID = result.MessageID
		case ChannelSMS:
			resp.SMSMessageID = result.MessageID
		}
	}
	return resp
}

// eligible reports whether a channel is attempted for a request.
func (d *Dispatcher) eligible(channel Channel, t ChannelType, recipients []string) bool {
	return d.settings.Enabled(channel) && t.Includes(channel) && len(recipients) > 0
}

// invoke calls the channel's sender, converting a panic or a missing sender into a failed result.
func (d *Dispatcher) invoke(ctx context.Context, channel Channel, templateName string, params map[string]string, recipients []string) (result ChannelResult) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("channel sender panicked",
				"channel", channel,
				"template", templateName,
				"panic", r,
			)
			result = Failed("", fmt.Sprintf("%s sending failed: %v", channel.Label(), r))
		}
		d.recorder.ObserveChannel(channel, result.Success)
	}()

	sender, ok := d.senders[channel]
	if !ok {
		return Failed("", fmt.Sprintf("%s sending failed: no sender configured", channel.Label()))
	}

	result = sender.Send(ctx, templateName, params, recipients)
	if !result.Success && len(result.Errors) == 0 {
		result.Errors = []string{fmt.Sprintf("%s sending failed: %s", channel.Label(), orDefault(result.Message, "unknown error"))}
	}
	return result
}

// finish sets the response message, logs the outcome and records metrics.
func (d *Dispatcher) finish(templateName string, resp *Response, start time.Time) {
	elapsed := time.Since(start)
	if resp.Success {
		resp.Message = msgSent
		slog.Info("notification sent",
			"template", templateName,
			"email_message_id", resp.EmailMessageID,
			"sms_message_id", resp.SMSMessageID,
			"duration", elapsed,
		)
	} else {
		resp.Message = msgFailed
		slog.Warn("notification failed",
			"template", templateName,
			"errors", strings.Join(resp.Errors, ", "),
			"duration", elapsed,
		)
	}
	d.recorder.ObserveDispatch(resp.Success, elapsed)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
