package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pickupwatch/pickupwatch/internal/avail"
	"github.com/pickupwatch/pickupwatch/internal/config"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run a single availability check and print the result",
	Long: "Fetches the pickup-availability payload once, parses it, and prints\n" +
		"the observed snapshot. No notification is sent and no state is kept.",
	RunE: runCheck,
}

func runCheck(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	fetcher := newFetcher(cfg)
	defer fetcher.Teardown()

	raw, err := fetcher.Fetch(context.Background())
	if err != nil {
		return fmt.Errorf("fetching availability: %w", err)
	}

	snap, err := avail.Parse(raw, cfg.Target.Part, time.Now())
	if err != nil {
		return fmt.Errorf("parsing payload: %w", err)
	}

	fmt.Printf("Part:      %s\n", cfg.Target.Part)
	fmt.Printf("Store:     %s", cfg.Target.Store)
	if snap.StoreLabel != "" {
		fmt.Printf(" (%s)", snap.StoreLabel)
	}
	fmt.Println()
	fmt.Printf("Available: %v\n", snap.Available)
	fmt.Printf("Message:   %s\n", snap.Message)
	return nil
}
