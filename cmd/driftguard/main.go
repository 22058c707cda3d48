// Package main is the driftguard CLI entry point.
package main

import (
	"os"

	"github.com/driftlabs/driftguard/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
