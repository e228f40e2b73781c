package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/bankfeed-dev/bankfeed/internal/commands"
)

func main() {
	// A missing .env is fine; it only exists to override config paths.
	_ = godotenv.Load()

	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
