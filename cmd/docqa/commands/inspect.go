// ABOUTME: CLI command to inspect the persisted index artifacts
// ABOUTME: Verifies checksum and row alignment and optionally lists chunk previews
package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/index"
	"github.com/harper/docqa/internal/storage"
)

var (
	inspectChunks int
)

// IndexReport summarizes the state of the build artifacts
type IndexReport struct {
	IndexPath     string            `json:"index_path"`
	MetadataPath  string            `json:"metadata_path"`
	Rows          int               `json:"rows"`
	Dimension     int               `json:"dimension"`
	MetadataRows  int               `json:"metadata_rows"`
	Checksum      string            `json:"checksum"`
	Manifest      *index.Manifest   `json:"manifest,omitempty"`
	ChecksumValid bool              `json:"checksum_valid"`
	Aligned       bool              `json:"aligned"`
	StoreInfo     map[string]string `json:"store_info,omitempty"`
	Chunks        []string          `json:"chunks,omitempty"`
}

// NewInspectCmd creates the inspect command
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Inspect the index, chunk texts and manifest",
		Long: `Inspect the persisted index artifacts.

Reports the index shape, the build manifest, whether the index checksum
matches the manifest and whether the chunk texts are row-aligned with
the index. No model is loaded.`,
		Example: `  docqa inspect
  docqa inspect --chunks 5
  docqa inspect --index ./rag_index.bin --metadata ./rag_metadata.json --format json`,
		Args: cobra.NoArgs,
		RunE: runInspect,
	}

	cmd.Flags().IntVar(&inspectChunks, "chunks", 0, "Show a preview of the first N chunks")

	return cmd
}

func runInspect(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	report, err := inspectArtifacts(context.Background(), cfg.IndexPath, cfg.MetadataPath, cfg.ManifestPath(), inspectChunks)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), report)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Index:\t%s\n", report.IndexPath)
	fmt.Fprintf(w, "Metadata:\t%s\n", report.MetadataPath)
	fmt.Fprintf(w, "Rows:\t%d (dim %d)\n", report.Rows, report.Dimension)
	fmt.Fprintf(w, "Chunk texts:\t%d\n", report.MetadataRows)
	if updated, ok := report.StoreInfo["updated_at"]; ok {
		fmt.Fprintf(w, "Chunk texts saved:\t%s\n", updated)
	}
	fmt.Fprintf(w, "Aligned:\t%t\n", report.Aligned)
	fmt.Fprintf(w, "Checksum:\t%s\n", report.Checksum)
	if m := report.Manifest; m != nil {
		fmt.Fprintf(w, "Checksum valid:\t%t\n", report.ChecksumValid)
		fmt.Fprintf(w, "Build:\t%s (%s)\n", m.BuildID, m.CreatedAt.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(w, "Source:\t%s\n", m.Source)
		fmt.Fprintf(w, "Embedding model:\t%s\n", m.EmbeddingModel)
		fmt.Fprintf(w, "Chunking:\tsize %d, overlap %d\n", m.ChunkSize, m.ChunkOverlap)
	} else {
		fmt.Fprintf(w, "Manifest:\t(none)\n")
	}
	w.Flush()

	if len(report.Chunks) > 0 {
		fmt.Fprintln(cmd.OutOrStdout())
		w = tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintf(w, "ROW\tPREVIEW\n")
		fmt.Fprintf(w, "---\t-------\n")
		for i, text := range report.Chunks {
			fmt.Fprintf(w, "%d\t%s\n", i, truncate(oneLine(text), 70))
		}
		w.Flush()
	}
	return nil
}

// inspectArtifacts loads the index, chunk texts and manifest without any model
func inspectArtifacts(ctx context.Context, indexURL, metadataPath, manifestURL string, chunks int) (*IndexReport, error) {
	idx, err := index.Load(ctx, indexURL)
	if err != nil {
		return nil, err
	}
	checksum, err := idx.Checksum()
	if err != nil {
		return nil, err
	}

	store, err := storage.Open(metadataPath)
	if err != nil {
		return nil, fmt.Errorf("opening metadata store: %w", err)
	}
	defer store.Close()
	meta, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading metadata: %w", err)
	}

	report := &IndexReport{
		IndexPath:    indexURL,
		MetadataPath: metadataPath,
		Rows:         idx.Len(),
		Dimension:    idx.Dim(),
		MetadataRows: meta.Len(),
		Checksum:     checksum,
		Aligned:      idx.Len() == meta.Len(),
	}
	if r, ok := store.(storage.InfoReporter); ok {
		if report.StoreInfo, err = r.Info(ctx); err != nil {
			return nil, fmt.Errorf("reading metadata store info: %w", err)
		}
	}

	manifest, err := index.LoadManifest(ctx, manifestURL)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("loading manifest: %w", err)
	default:
		report.Manifest = manifest
		report.ChecksumValid = manifest.Checksum == checksum
	}

	if chunks > meta.Len() {
		chunks = meta.Len()
	}
	if chunks > 0 {
		report.Chunks = meta.Chunks[:chunks]
	}
	return report, nil
}
