package main

import (
	"log"

	"github.com/vidinfra/ledgersync/internal/cli"

	"github.com/joho/godotenv"
)

func main() {
	// A .env file is a convenience for local runs; the environment itself is
	// the source of truth
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded: %v", err)
	}

	cli.Execute()
}
