package main

//go:generate swag init

import (
	"log/slog"

	"github.com/joho/godotenv"

	"github.com/satheeshds/invoicing/cmd"
	_ "github.com/satheeshds/invoicing/docs"
)

// @title           Invoice Management API
// @version         1.0.0
// @description     API for tracking invoices, their payments and serial numbers.
// @host            localhost:8080
// @BasePath        /api

func main() {
	// A missing .env is fine; the environment may already be set.
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}
	cmd.Execute()
}
