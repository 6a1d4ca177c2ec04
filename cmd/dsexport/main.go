package main

import (
	"os"

	"dsexport/cmd/dsexport/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
