// Package main provides the entry point for the shopchat CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopai/shopchat/internal/cli"
)

func main() {
	// Local development keys live in .env; absence is fine.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
