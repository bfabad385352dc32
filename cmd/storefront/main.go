package main

import (
	"os"

	"github.com/morislaflame/clo-client/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
