package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the monitor's current status",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			st, err := newClient().Status(ctx)
			if err != nil {
				return err
			}

			if jsonOutput() {
				return printJSON(cmd.OutOrStdout(), st)
			}
			printStatusTable(cmd.OutOrStdout(), st)
			return nil
		},
	}
}
