package main

import (
	"os"

	"github.com/matthewbaird/fleetfilter/cmd/filterctl/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
