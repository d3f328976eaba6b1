package main

import (
	"os"

	"github.com/loansync-dev/loansync/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
