package main

import (
	"os"

	"github.com/manas-foundation/manas-admin/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
