package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/photonforge/lattice/cmd/lattice/commands"
	"github.com/photonforge/lattice/internal/logger"
)

func main() {
	// A .env file is optional; real environment variables and flags
	// still take precedence over anything it sets.
	_ = godotenv.Load()

	logger.Init()

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
