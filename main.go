package main

import (
	"github.com/joho/godotenv"

	"github.com/nikogura/covergen/cmd"
)

func main() {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cmd.Execute()
}
