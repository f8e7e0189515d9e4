package main

import (
	"os"

	"github.com/pdxmph/tasks-tui/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
