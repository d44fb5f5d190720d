// Package main is the entry point for the pickupwatch server.
package main

import (
	"os"

	"github.com/pickupwatch/pickupwatch/cmd/pickupwatch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
