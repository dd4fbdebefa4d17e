package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/oggyb/mollie-sms/internal/sms"
)

func newCancelCmd(client func(*cobra.Command) *sms.MollieClient) *cobra.Command {
	return &cobra.Command{
		Use:     "cancel <reference>",
		Short:   "Cancel a scheduled SMS by its reference",
		Example: `  mollie cancel ny-2027`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := client(cmd).Cancel(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cancelled %s (code %d)\n", args[0], res.Code)
			return nil
		},
	}
}
