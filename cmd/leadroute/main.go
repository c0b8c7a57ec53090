// Command leadroute routes leads to agents from the command line.
package main

import (
	"os"

	"github.com/arloliu/leadroute/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
