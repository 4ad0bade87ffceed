package main

import (
	"os"

	"github.com/ayurai/ayurai/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
