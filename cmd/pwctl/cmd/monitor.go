package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func startCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the availability monitor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			if err := newClient().StartMonitor(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "monitor started")
			return nil
		},
	}
}

func stopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "Stop the availability monitor",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			if err := newClient().StopMonitor(ctx); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "monitor stopped")
			return nil
		},
	}
}
