package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "courierctl",
		Short: "Send templated email and SMS notifications from the command line",
		Long: `courierctl renders a named template and delivers it over email, SMS or both,
using the same configuration as the courier server (config.yaml, COURIER_* env vars).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("config", "", "Path to a config file (defaults to ./config.yaml)")

	root.AddCommand(newSendCmd())
	root.AddCommand(newEmailCmd())
	root.AddCommand(newSMSCmd())
	root.AddCommand(newTemplatesCmd())
	return root
}
