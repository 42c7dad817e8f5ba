package main

import (
	"os"

	"github.com/solvaholic/slacknotes/cmd/slacknotes/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		commands.OutputError("%v", err)
		os.Exit(1)
	}
}
