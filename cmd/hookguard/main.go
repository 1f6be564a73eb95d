package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/hookguard/hookguard/internal/cli"
)

// main is the only place the process terminates. Commands communicate exit
// codes through *cli.ExitError; any other error is an infrastructure fault
// and maps to exit 1, which the host treats as non-blocking.
func main() {
	if err := cli.Execute(); err != nil {
		var exitErr *cli.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "[hookguard] %v\n", err)
		os.Exit(1)
	}
}
