package template

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"courier/internal/common"
	"courier/internal/domain/notification"

	"gopkg.in/yaml.v3"
)

var _ notification.TemplateSource = (*Store)(nil)

// Store is an immutable table of raw template bodies, one namespace per channel.
// Names are matched case-insensitively. It is safe for concurrent reads.
type Store struct {
	email map[string]string
	sms   map[string]string
}

// Set is a pair of channel namespaces as read from a templates file.
type Set struct {
	Email map[string]string `yaml:"email"`
	SMS   map[string]string `yaml:"sms"`
}

// NewStore builds a store from the given namespaces. Keys are lowercased; later
// sets override earlier ones.
func NewStore(sets ...Set) *Store {
	s := &Store{
		email: make(map[string]string),
		sms:   make(map[string]string),
	}
	for _, set := range sets {
		for name, body := range set.Email {
			s.email[strings.ToLower(name)] = body
		}
		for name, body := range set.SMS {
			s.sms[strings.ToLower(name)] = body
		}
	}
	return s
}

// Default returns a store holding only the built-in templates.
func Default() *Store {
	return NewStore(builtin)
}

// Load returns the built-in templates, overlaid with the templates in path when path is set.
func Load(path string) (*Store, error) {
	if path == "" {
		return Default(), nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading templates file %q: %w", path, err)
	}

	var extra Set
	if err := yaml.Unmarshal(raw, &extra); err != nil {
		return nil, fmt.Errorf("parsing templates file %q: %w", path, err)
	}

	return NewStore(builtin, extra), nil
}

// Lookup returns the raw body for name in the channel's namespace.
func (s *Store) Lookup(channel notification.Channel, name string) (string, error) {
	body, ok := s.namespace(channel)[strings.ToLower(name)]
	if !ok {
		return "", common.NewNotFoundError(channel.Label()+" template", name)
	}
	return body, nil
}

// Exists reports whether name is registered for any channel.
func (s *Store) Exists(name string) bool {
	key := strings.ToLower(name)
	_, inEmail := s.email[key]
	_, inSMS := s.sms[key]
	return inEmail || inSMS
}

// Names returns the sorted template names for a channel.
func (s *Store) Names(channel notification.Channel) []string {
	return slices.Sorted(maps.Keys(s.namespace(channel)))
}

func (s *Store) namespace(channel notification.Channel) map[string]string {
	switch channel {
	case notification.ChannelEmail:
		return s.email
	case notification.ChannelSMS:
		return s.sms
	}
	return nil
}

var builtin = Set{
	Email: map[string]string{
		"welcome": `<html>
<body>
    <h2>Welcome to Our Service!</h2>
    <p>Hello {{Name}},</p>
    <p>Welcome to our platform! We're excited to have you on board.</p>
    <p>Your account has been successfully created with email: {{Email}}</p>
    <p>Best regards,<br/>The Team</p>
</body>
</html>`,
		"password-reset": `<html>
<body>
    <h2>Password Reset Request</h2>
    <p>Hello {{Name}},</p>
    <p>You have requested a password reset for your account.</p>
    <p>Click the link below to reset your password:</p>
    <p><a href='{{ResetLink}}'>Reset Password</a></p>
    <p>If you didn't request this, please ignore this email.</p>
    <p>Best regards,<br/>The Team</p>
</body>
</html>`,
		"order-confirmation": `<html>
<body>
    <h2>Order Confirmation</h2>
    <p>Hello {{Name}},</p>
    <p>Thank you for your order!</p>
    <p><strong>Order ID:</strong> {{OrderId}}</p>
    <p><strong>Total Amount:</strong> {{Amount}}</p>
    <p><strong>Expected Delivery:</strong> {{DeliveryDate}}</p>
    <p>Best regards,<br/>The Team</p>
</body>
</html>`,
	},
	SMS: map[string]string{
		"welcome":            "Welcome {{Name}}! Your account has been created successfully. Welcome aboard!",
		"password-reset":     "Your password reset code is: {{ResetCode}}. Valid for 10 minutes.",
		"order-confirmation": "Order {{OrderId}} confirmed! Total: {{Amount}}. Expected delivery: {{DeliveryDate}}.",
		"verification":       "Your verification code is: {{VerificationCode}}. Enter this code to verify your account.",
	},
}
