package main

import (
	"fmt"
	"os"

	"github.com/campushub/phasetrack/internal/infrastructure/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		if hint := cli.PrintHint(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(1)
	}
}
