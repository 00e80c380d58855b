// ABOUTME: Standalone HTTP server for the document assistant
// ABOUTME: Loads the index once and serves /health and /rag_chat on PORT
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/harper/docqa/internal/config"
	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/server"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists (for API keys)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	assistant, err := core.Open(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to load index: %v", err)
	}
	defer assistant.Close()

	if err := server.ListenAndServe(ctx, cfg.Port, server.New(assistant)); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
