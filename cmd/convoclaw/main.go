// Package main is the entry point for the convoclaw CLI.
package main

import (
	"os"

	"github.com/ConvoClaw/ConvoClaw/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
