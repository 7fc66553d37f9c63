package main

import (
	"os"

	"github.com/generalbioinformatics/gbapi/cmd/gbapi/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
