package main

import (
	"os"

	"github.com/fxtools/constrisk/cmd/constrisk/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
