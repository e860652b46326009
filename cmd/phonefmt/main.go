package main

import (
	"os"

	"phoneinput_backend/cmd/phonefmt/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
