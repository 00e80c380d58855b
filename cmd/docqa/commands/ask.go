// ABOUTME: CLI command to answer a question about the indexed document
// ABOUTME: Retrieves the nearest chunks and prints the extracted answer span
package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/models"
)

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Answer a question from the document",
		Long: `Answer a question using the indexed document.

The question is embedded with the same model used at build time, the
nearest chunks are joined into a context, and the answerer extracts the
best supporting span. When nothing relevant is found a fixed notice is
printed instead.`,
		Example: `  docqa ask "How long is the warranty?"
  docqa ask --format json "¿Qué herramienta necesito?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	assistant, err := core.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer assistant.Close()

	question := strings.Join(args, " ")
	ans, err := assistant.Answer(ctx, question)
	if errors.Is(err, core.ErrNoContext) {
		ans, err = models.Answer{Text: core.NoContextAnswer}, nil
	}
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"question": strings.TrimSpace(question),
			"answer":   ans.Text,
			"score":    ans.Score,
		})
	}
	fmt.Fprintln(cmd.OutOrStdout(), ans.Text)
	return nil
}
