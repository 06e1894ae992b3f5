// Command methodql derives queries from repository method names.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/methodql/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		var exitErr *cli.ExitError
		if !errors.As(err, &exitErr) {
			// flag and argument errors are not printed by the commands
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(cli.ExitCommandError)
		}
		os.Exit(exitErr.Code)
	}
}
