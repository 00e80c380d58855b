// ABOUTME: Serve command runs the HTTP chat endpoint
// ABOUTME: Loads the index once and shares it read-only across requests
package commands

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/gops/agent"
	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/server"
)

var (
	servePort int
	serveGops bool
)

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP question endpoint",
		Long: `Serve questions over HTTP.

Endpoints:
  GET  /health     liveness check
  POST /rag_chat   {"question": "..."} -> {"question": "...", "answer": "..."}

Blank questions get 400; model failures get 500 with a generic message.
CORS is open to any origin.`,
		Example: `  docqa serve
  docqa serve --port 8080
  curl -s localhost:5000/rag_chat -d '{"question":"How long is the warranty?"}'`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().IntVar(&servePort, "port", 0, "Listen port (overrides PORT)")
	cmd.Flags().BoolVar(&serveGops, "gops", false, "Start the gops diagnostics agent")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		if err := validatePositiveInt(servePort, "port"); err != nil {
			return err
		}
		cfg.Port = servePort
	}

	if serveGops {
		if err := agent.Listen(agent.Options{ShutdownCleanup: true}); err != nil {
			log.Printf("gops: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	assistant, err := core.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer assistant.Close()

	if verbose {
		log.Printf("Loaded %d chunks, embedder %s, answerer %s",
			assistant.Index.Len(), assistant.Embedder.ModelID(), assistant.Answerer.ModelID())
	}

	return server.ListenAndServe(ctx, cfg.Port, server.New(assistant))
}
