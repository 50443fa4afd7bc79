// Package app holds the wiring shared by the HTTP server and the CLI.
package app

import (
	"fmt"

	"courier/internal/config"
	"courier/internal/domain/notification"
	"courier/internal/infra/email"
	"courier/internal/infra/sms"
	"courier/internal/infra/template"
	"courier/internal/logging"
)

// NewDispatcher builds the template store, the channel senders and the Dispatcher.
func NewDispatcher(cfg *config.Config, opts ...notification.Option) (*notification.Dispatcher, error) {
	store, err := template.Load(cfg.Templates.File)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	engine := template.NewEngine()

	emailSender := email.NewSMTPSender(email.Config{
		Host:      cfg.Email.SMTPServer,
		Port:      cfg.Email.SMTPPort,
		Username:  cfg.Email.Username,
		Password:  cfg.Email.Password,
		UseSSL:    cfg.Email.UseSSL,
		FromEmail: cfg.Email.FromEmail,
		FromName:  cfg.Email.FromName,
	}, store, engine)

	smsSender := sms.NewTwilioSender(sms.Config{
		AccountSID: cfg.SMS.AccountSID,
		AuthToken:  cfg.SMS.AuthToken,
		FromNumber: cfg.SMS.FromNumber,
	}, store, engine)

	settings := notification.Settings{
		EmailEnabled: cfg.Notification.EmailEnabled,
		SMSEnabled:   cfg.Notification.SMSEnabled,
	}

	opts = append([]notification.Option{notification.WithSenders(emailSender, smsSender)}, opts...)
	return notification.NewDispatcher(settings, store, opts...), nil
}

// LogOptions converts the log section of the configuration.
func LogOptions(cfg *config.Config) logging.Options {
	return logging.Options{
		Level:      cfg.Log.Level,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	}
}
