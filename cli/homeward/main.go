package main

import (
	"os"

	"github.com/joho/godotenv"

	homewardcmder "github.com/homeward-labs/homeward/cmd/homeward"
)

func main() {
	// A missing .env file is fine; real env vars still apply.
	_ = godotenv.Load()

	cmd := homewardcmder.NewHomewardCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
