package main

import (
	"github.com/joho/godotenv"

	"github.com/SaiVinayBathoju/SaiV/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// Missing .env is fine, config falls back to real env vars.
	_ = godotenv.Load()
}
