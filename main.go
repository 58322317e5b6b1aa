// Package main provides the entrypoint for webhook-manager.
package main

import (
	"os"

	"github.com/isometry/webhook-manager/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
