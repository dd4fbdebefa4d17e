package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/oggyb/mollie-sms/internal/config"
	"github.com/oggyb/mollie-sms/internal/logger"
	"github.com/oggyb/mollie-sms/internal/sms"
)

// globals holds the persistent flags shared by every subcommand.
type globals struct {
	username   string
	password   string
	originator string
	gateway    string
	timeout    time.Duration
	timezone   string
	verbose    bool
}

// newRootCmd builds the command tree. extra options are appended when the
// gateway client is constructed.
func newRootCmd(cfg *config.Config, out io.Writer, extra ...sms.Option) *cobra.Command {
	g := &globals{}

	root := &cobra.Command{
		Use:   "mollie",
		Short: "Send and cancel SMS through the Mollie gateway",
		Long: `mollie talks directly to the Mollie XML gateway, bypassing the dispatch queue.

Credentials default to MOLLIE_USERNAME and MOLLIE_PASSWORD from the environment or .env.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(out)

	flags := root.PersistentFlags()
	flags.StringVar(&g.username, "username", cfg.Mollie.Username, "Gateway account username")
	flags.StringVar(&g.password, "password", cfg.Mollie.Password, "Gateway account password")
	flags.StringVar(&g.originator, "originator", cfg.Mollie.Originator, "Sender shown to recipients")
	flags.StringVar(&g.gateway, "gateway", cfg.Mollie.Gateway, "Endpoint used for both send and cancel (default: Mollie's own)")
	flags.DurationVar(&g.timeout, "timeout", cfg.Mollie.Timeout, "Timeout for one gateway call")
	flags.StringVar(&g.timezone, "timezone", defaultTimezone(cfg), "Zone the gateway reads --deliver-at in")
	flags.BoolVarP(&g.verbose, "verbose", "v", false, "Log gateway requests to stderr")

	client := func(cmd *cobra.Command) *sms.MollieClient {
		opts := []sms.Option{
			sms.WithOriginator(g.originator),
			sms.WithGateway(g.gateway),
			sms.WithTimeout(g.timeout),
		}
		if g.verbose {
			opts = append(opts, sms.WithLogger(verboseLogger(cfg, cmd.ErrOrStderr())))
		}
		return sms.NewMollieClient(g.username, g.password, append(opts, extra...)...)
	}

	location := func() (*time.Location, error) {
		return time.LoadLocation(g.timezone)
	}

	root.AddCommand(newSendCmd(client, location), newCancelCmd(client))
	return root
}

func defaultTimezone(cfg *config.Config) string {
	if cfg.Mollie.Location == nil {
		return sms.DefaultTimezone
	}
	return cfg.Mollie.Location.String()
}

func verboseLogger(cfg *config.Config, w io.Writer) zerolog.Logger {
	log, err := logger.New(cfg.App.Env, "debug", zerolog.ConsoleWriter{Out: w})
	if err != nil {
		return zerolog.Nop()
	}
	return *log
}

// describe renders a gateway error for the terminal.
func describe(err error) string {
	var smsErr *sms.Error
	if errors.As(err, &smsErr) {
		msg := fmt.Sprintf("error: %s (code %d)", smsErr.Kind, smsErr.Code)
		if smsErr.Message != "" {
			msg += ": " + smsErr.Message
		}
		return msg
	}
	return "error: " + err.Error()
}

func main() {
	cfg := config.New()

	if err := newRootCmd(cfg, os.Stdout).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, describe(err))
		os.Exit(1)
	}
}
