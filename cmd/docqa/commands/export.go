// ABOUTME: CLI command to export the indexed chunk texts
// ABOUTME: Writes YAML or Markdown with the build manifest when one exists
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/storage"
)

var (
	exportAs string
)

// NewExportCmd creates the export command
func NewExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <output>",
		Short: "Export chunk texts to YAML or Markdown",
		Long: `Export the chunk texts of the current index.

The output format follows the file extension (.yaml, .yml, .md) unless
--as is given. Build information from the manifest is included when
available.`,
		Example: `  docqa export chunks.yaml
  docqa export --as markdown review.txt`,
		Args: cobra.ExactArgs(1),
		RunE: runExport,
	}

	cmd.Flags().StringVar(&exportAs, "as", "", "Export format: yaml or markdown (default from extension)")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	outputPath := args[0]
	format := exportAs
	if format == "" {
		format = exportFormatFor(outputPath)
	}

	ctx := context.Background()
	store, err := storage.Open(cfg.MetadataPath)
	if err != nil {
		return fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()
	meta, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("loading metadata: %w", err)
	}

	var build *storage.ExportBuild
	manifest, err := index.LoadManifest(ctx, cfg.ManifestPath())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("loading manifest: %w", err)
	default:
		build = &storage.ExportBuild{
			BuildID:        manifest.BuildID,
			Source:         manifest.Source,
			EmbeddingModel: manifest.EmbeddingModel,
			Dimension:      manifest.Dimension,
			ChunkSize:      manifest.ChunkSize,
			ChunkOverlap:   manifest.ChunkOverlap,
			Rows:           manifest.Rows,
		}
	}

	if err := storage.ExportToFile(storage.NewExport(meta, build), outputPath, format); err != nil {
		return err
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d chunks to %s\n", meta.Len(), outputPath)
	}
	return nil
}

// exportFormatFor picks markdown for .md files and YAML otherwise
func exportFormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return storage.ExportMarkdown
	}
	return storage.ExportYAML
}
