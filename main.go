package main

import (
	"os"

	"github.com/lennai/lennai/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
