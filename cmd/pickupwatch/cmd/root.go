// Package cmd implements the CLI commands for the pickupwatch server.
package cmd

import (
	"github.com/spf13/cobra"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "pickupwatch",
	Short: "Monitor in-store pickup availability for a product",
	Long: "pickupwatch polls the retail pickup-availability endpoint for a single\n" +
		"part at a single store, detects transitions into availability, and sends\n" +
		"a push notification exactly once per transition.",
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(versionCommand())
}

// Root returns the root command, primarily for documentation generation.
func Root() *cobra.Command {
	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
