// Package main provides the entry point for kvshard-cli.
//
// kvshard-cli is the command-line client for kvshardd, issuing one
// line-protocol command per invocation.
package main

import (
	"fmt"
	"os"

	"github.com/kvshard/kvshard/internal/cli/command"
)

func main() {
	app := command.App()

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
