// ABOUTME: CLI command to build the vector index from a document
// ABOUTME: Extracts, chunks and embeds the document, then writes index, chunk texts and manifest
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/embedder"
	"github.com/harper/docqa/internal/storage"
)

var (
	buildChunkSize int
	buildOverlap   int
)

// NewBuildIndexCmd creates the build-index command
func NewBuildIndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build-index [document]",
		Short: "Build the vector index from a document",
		Long: `Build the vector index from a single document.

The document text is split into overlapping fixed-size chunks, every
chunk is embedded in one batch, and three artifacts are written: the
vector index, the chunk texts (row-aligned with the index) and a build
manifest recording the embedding model and chunking parameters.

Supported inputs: .pdf, .xlsx, .html, .txt, .md and other text files.
Without an argument the DOCQA_DOCUMENT environment variable is used.`,
		Example: `  docqa build-index manual.pdf
  docqa build-index --chunk-size 500 --overlap 50 manual.pdf
  docqa build-index --metadata ./rag_metadata.db --format json notes.md`,
		Args: cobra.MaximumNArgs(1),
		RunE: runBuildIndex,
	}

	cmd.Flags().IntVar(&buildChunkSize, "chunk-size", 0, "Characters per chunk (overrides CHUNK_SIZE)")
	cmd.Flags().IntVar(&buildOverlap, "overlap", -1, "Characters shared by consecutive chunks (overrides CHUNK_OVERLAP)")

	return cmd
}

func runBuildIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		cfg.DocumentPath = args[0]
	}
	if cfg.DocumentPath == "" {
		return fmt.Errorf("no document given: pass a path or set DOCQA_DOCUMENT")
	}
	if cmd.Flags().Changed("chunk-size") {
		cfg.ChunkSize = buildChunkSize
	}
	if cmd.Flags().Changed("overlap") {
		cfg.ChunkOverlap = buildOverlap
	}

	chunker, err := core.NewChunker(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	emb, err := embedder.New(ctx, cfg)
	if err != nil {
		return fmt.Errorf("initializing embedder: %w", err)
	}
	defer embedder.Close(emb)

	store, err := storage.Open(cfg.MetadataPath)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()

	builder := core.NewBuilder(chunker, emb)
	builder.Timeout = cfg.Timeout

	manifest, err := builder.Build(ctx, core.BuildRequest{
		DocumentPath: cfg.DocumentPath,
		IndexPath:    cfg.IndexPath,
		ManifestPath: cfg.ManifestPath(),
		Metadata:     store,
	})
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), manifest)
	}
	if !quiet {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Indexed %d chunks from %s\n", manifest.Rows, manifest.Source)
		fmt.Fprintf(out, "  model:    %s (dim %d)\n", manifest.EmbeddingModel, manifest.Dimension)
		fmt.Fprintf(out, "  chunking: size %d, overlap %d\n", manifest.ChunkSize, manifest.ChunkOverlap)
		fmt.Fprintf(out, "  index:    %s\n", cfg.IndexPath)
		fmt.Fprintf(out, "  metadata: %s\n", cfg.MetadataPath)
	}
	return nil
}
