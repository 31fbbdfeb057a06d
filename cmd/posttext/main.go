package main

import (
	"os"

	"github.com/msto63/posttext/cmd/posttext/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
