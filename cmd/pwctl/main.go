// Package main is the entry point for the pwctl CLI client.
package main

import (
	"github.com/pickupwatch/pickupwatch/cmd/pwctl/cmd"
)

func main() {
	cmd.Execute()
}
