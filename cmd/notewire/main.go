package main

import (
	"os"

	"github.com/wrenlabs/notewire/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
