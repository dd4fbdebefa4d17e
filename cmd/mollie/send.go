package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/oggyb/mollie-sms/internal/sms"
)

func newSendCmd(client func(*cobra.Command) *sms.MollieClient, location func() (*time.Location, error)) *cobra.Command {
	var deliverAt, reference string

	cmd := &cobra.Command{
		Use:   "send <recipients> <message>",
		Short: "Send an SMS to a comma separated list of recipients",
		Long: `Send an SMS right away, or hold it at the gateway with --deliver-at.

--deliver-at takes either the gateway format YYYYMMDDHHMMSS, passed on as is,
or an RFC 3339 timestamp, converted to --timezone. Scheduled messages need a
--reference to be cancellable later.`,
		Example: `  mollie send 0612345678,0687654321 "See you at eight"
  mollie send 0612345678 "Happy new year" --deliver-at 20270101000000 --reference ny-2027`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := location()
			if err != nil {
				return fmt.Errorf("invalid --timezone: %w", err)
			}
			date := deliveryDate(deliverAt, loc)

			req := sms.SendRequest{
				Recipients:   splitRecipients(args[0]),
				Message:      args[1],
				DeliveryDate: date,
				Reference:    reference,
			}

			res, err := client(cmd).Send(cmd.Context(), req)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "sent (code %d)", res.Code)
			if res.Message != "" {
				fmt.Fprintf(cmd.OutOrStdout(), ": %s", res.Message)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	cmd.Flags().StringVar(&deliverAt, "deliver-at", "", "Delivery time, YYYYMMDDHHMMSS or RFC 3339")
	cmd.Flags().StringVar(&reference, "reference", "", "Reference for a scheduled message")
	return cmd
}

func splitRecipients(s string) []string {
	var out []string
	for _, r := range strings.Split(s, ",") {
		if r = strings.TrimSpace(r); r != "" {
			out = append(out, r)
		}
	}
	return out
}

// deliveryDate passes gateway-formatted dates through untouched and renders
// RFC 3339 ones in loc. Anything else is left for the client to reject.
func deliveryDate(s string, loc *time.Location) string {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return sms.FormatDeliveryDateIn(t, loc)
	}
	return s
}
