// Command sentinel validates world snapshot files against configurable
// consistency rules.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/sentinel/internal/cli"
)

func main() {
	cmd := cli.NewRootCommand()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(cli.GetExitCode(err))
	}
}
