package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"courier/internal/app"
	"courier/internal/config"
	"courier/internal/domain/notification"
	"courier/internal/logging"

	"github.com/spf13/cobra"
)

var errNotSent = errors.New("notification was not sent")

func newSendCmd() *cobra.Command {
	var (
		templateName string
		params       map[string]string
		emails       []string
		phones       []string
		channelType  string
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send a notification over every eligible channel",
		Example: `  courierctl send --template welcome --param Name=Ann --email ann@example.com
  courierctl send --template order-confirmation --type both \
      --param OrderId=42 --param Amount=9.99 --email a@x.com --phone +15550100`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			t, err := notification.ParseChannelType(channelType)
			if err != nil {
				return err
			}
			d, closeLog, err := dispatcherFor(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			resp := d.SendNotification(cmd.Context(), &notification.Request{
				TemplateName:   templateName,
				Parameters:     params,
				ToEmails:       emails,
				ToPhoneNumbers: phones,
				ChannelType:    &t,
			})
			return printResponse(cmd.OutOrStdout(), resp)
		},
	}

	cmd.Flags().StringVar(&templateName, "template", "", "Template name")
	cmd.Flags().StringToStringVar(&params, "param", nil, "Template parameter as key=value (repeatable)")
	cmd.Flags().StringSliceVar(&emails, "email", nil, "Email recipient (repeatable)")
	cmd.Flags().StringSliceVar(&phones, "phone", nil, "Phone number recipient (repeatable)")
	cmd.Flags().StringVar(&channelType, "type", "both", "Channels to target: email, sms or both")
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func newEmailCmd() *cobra.Command {
	return newSingleChannelCmd(notification.ChannelEmail, "email", "Send an email notification only",
		func(d *notification.Dispatcher, cmd *cobra.Command, name string, params map[string]string, to []string) *notification.Response {
			return d.SendEmail(cmd.Context(), name, params, to)
		})
}

func newSMSCmd() *cobra.Command {
	return newSingleChannelCmd(notification.ChannelSMS, "phone", "Send an SMS notification only",
		func(d *notification.Dispatcher, cmd *cobra.Command, name string, params map[string]string, to []string) *notification.Response {
			return d.SendSMS(cmd.Context(), name, params, to)
		})
}

type singleSend func(d *notification.Dispatcher, cmd *cobra.Command, name string, params map[string]string, to []string) *notification.Response

// newSingleChannelCmd builds a one-channel command whose recipient flag matches the send command's.
func newSingleChannelCmd(channel notification.Channel, recipientFlag, short string, send singleSend) *cobra.Command {
	var (
		templateName string
		params       map[string]string
		to           []string
	)

	cmd := &cobra.Command{
		Use:   string(channel),
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, closeLog, err := dispatcherFor(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			return printResponse(cmd.OutOrStdout(), send(d, cmd, templateName, params, to))
		},
	}

	cmd.Flags().StringVar(&templateName, "template", "", "Template name")
	cmd.Flags().StringToStringVar(&params, "param", nil, "Template parameter as key=value (repeatable)")
	cmd.Flags().StringSliceVar(&to, recipientFlag, nil, "Recipient (repeatable)")
	_ = cmd.MarkFlagRequired(recipientFlag)
	_ = cmd.MarkFlagRequired("template")
	return cmd
}

func newTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the available templates per channel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			d, closeLog, err := dispatcherFor(cmd)
			if err != nil {
				return err
			}
			defer closeLog()

			out := cmd.OutOrStdout()
			for _, ch := range []notification.Channel{notification.ChannelEmail, notification.ChannelSMS} {
				fmt.Fprintf(out, "%s:\n", ch)
				for _, name := range d.Templates().Names(ch) {
					fmt.Fprintf(out, "  %s\n", name)
				}
			}
			return nil
		},
	}
}

// dispatcherFor loads configuration, installs a stderr logger and builds the Dispatcher.
// The caller must invoke the returned func once the command is done with the logger.
func dispatcherFor(cmd *cobra.Command) (*notification.Dispatcher, func(), error) {
	path, _ := cmd.Flags().GetString("config")

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	logger, closer := logging.New(os.Stderr, app.LogOptions(cfg))
	slog.SetDefault(logger)
	closeLog := func() { _ = closer.Close() }

	d, err := app.NewDispatcher(cfg)
	if err != nil {
		closeLog()
		return nil, nil, err
	}
	return d, closeLog, nil
}

// printResponse writes resp as indented JSON and reports failure through errNotSent.
func printResponse(w io.Writer, resp *notification.Response) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(resp); err != nil {
		return fmt.Errorf("encoding response: %w", err)
	}
	if !resp.Success {
		return errNotSent
	}
	return nil
}
