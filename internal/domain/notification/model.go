package notification

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Channel represents a notification delivery channel.
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
)

// Label returns the human-facing channel name used in messages.
func (c Channel) Label() string {
	switch c {
	case ChannelEmail:
		return "Email"
	case ChannelSMS:
		return "SMS"
	default:
		return string(c)
	}
}

// ParseChannel resolves a channel name case-insensitively.
func ParseChannel(s string) (Channel, bool) {
	switch Channel(strings.ToLower(strings.TrimSpace(s))) {
	case ChannelEmail:
		return ChannelEmail, true
	case ChannelSMS:
		return ChannelSMS, true
	}
	return "", false
}

// ChannelType selects which channels a request targets.
type ChannelType int

const (
	TypeEmail ChannelType = iota
	TypeSMS
	TypeBoth
)

var channelTypeNames = map[ChannelType]string{
	TypeEmail: "email",
	TypeSMS:   "sms",
	TypeBoth:  "both",
}

func (t ChannelType) String() string {
	if name, ok := channelTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ChannelType(%d)", int(t))
}

// Includes reports whether the type targets the given channel.
func (t ChannelType) Includes(c Channel) bool {
	switch c {
	case ChannelEmail:
		return t == TypeEmail || t == TypeBoth
	case ChannelSMS:
		return t == TypeSMS || t == TypeBoth
	}
	return false
}

// ParseChannelType accepts "email", "sms" or "both" in any case.
func ParseChannelType(s string) (ChannelType, error) {
	for t, name := range channelTypeNames {
		if strings.EqualFold(strings.TrimSpace(s), name) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown channel type %q", s)
}

// MarshalJSON encodes the type as its lowercase name.
func (t ChannelType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts either the name or the numeric value (0=email, 1=sms, 2=both).
func (t *ChannelType) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		parsed, err := ParseChannelType(name)
		if err != nil {
			return err
		}
		*t = parsed
		return nil
	}

	var n int
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("channel type must be a string or number: %w", err)
	}
	if _, ok := channelTypeNames[ChannelType(n)]; !ok {
		return fmt.Errorf("unknown channel type %d", n)
	}
	*t = ChannelType(n)
	return nil
}

// Request is the payload for a multi-channel notification.
type Request struct {
	TemplateName   string            `json:"templateName" binding:"required"`
	Parameters     map[string]string `json:"parameters"`
	ToEmails       []string          `json:"toEmails"`
	ToPhoneNumbers []string          `json:"toPhoneNumbers"`
	ChannelType    *ChannelType      `json:"channelType"`
}

// Type returns the requested channel type, defaulting to both channels.
func (r *Request) Type() ChannelType {
	if r.ChannelType == nil {
		return TypeBoth
	}
	return *r.ChannelType
}

// EmailRequest is the payload for the email-only entry point.
type EmailRequest struct {
	TemplateName string            `json:"templateName" binding:"required"`
	Parameters   map[string]string `json:"parameters"`
	ToEmails     []string          `json:"toEmails"`
}

// SMSRequest is the payload for the SMS-only entry point.
type SMSRequest struct {
	TemplateName   string            `json:"templateName" binding:"required"`
	Parameters     map[string]string `json:"parameters"`
	ToPhoneNumbers []string          `json:"toPhoneNumbers"`
}

// Response is the aggregate outcome of one request.
// Errors is never nil so it always encodes as a JSON array.
type Response struct {
	Success        bool     `json:"success"`
	Message        string   `json:"message"`
	Errors         []string `json:"errors"`
	EmailMessageID string   `json:"emailMessageId,omitempty"`
	SMSMessageID   string   `json:"smsMessageId,omitempty"`
}

// NewFailure builds a failed response carrying the given errors.
func NewFailure(message string, errs ...string) *Response {
	return &Response{
		Message: message,
		Errors:  append([]string{}, errs...),
	}
}

// ChannelResult is what a Sender reports for one channel invocation.
type ChannelResult struct {
	Success   bool
	Message   string
	MessageID string
	Errors    []string
}

// Failed builds an unsuccessful ChannelResult.
func Failed(message string, errs ...string) ChannelResult {
	return ChannelResult{Message: message, Errors: errs}
}
