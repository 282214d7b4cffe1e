package main

import (
	"os"

	"github.com/okian/triplog/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
