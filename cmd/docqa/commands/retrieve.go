// ABOUTME: CLI command to show the chunks retrieved for a question
// ABOUTME: Prints row id, distance and a preview per chunk without answering
package commands

import (
	"context"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/harper/docqa/internal/core"
)

var (
	retrieveK int
)

// NewRetrieveCmd creates the retrieve command
func NewRetrieveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "retrieve <question>",
		Short: "Show the chunks nearest to a question",
		Long: `Show the document chunks nearest to a question.

Useful for checking what context the answerer would see. Results are
ranked by squared L2 distance, closest first.`,
		Example: `  docqa retrieve "battery replacement"
  docqa retrieve --k 10 --format json "warranty"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runRetrieve,
	}

	cmd.Flags().IntVar(&retrieveK, "k", 0, "Number of chunks to return (default TOP_K)")

	return cmd
}

func runRetrieve(cmd *cobra.Command, args []string) error {
	if cmd.Flags().Changed("k") {
		if err := validatePositiveInt(retrieveK, "k"); err != nil {
			return err
		}
	}

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
	passages, err := assistant.Passages(ctx, question, retrieveK)
	if err != nil {
		return err
	}

	if jsonOutput() {
		return printJSON(cmd.OutOrStdout(), passages)
	}

	if len(passages) == 0 {
		if !quiet {
			fmt.Fprintln(cmd.OutOrStdout(), core.NoContextAnswer)
		}
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\tROW\tDISTANCE\tPREVIEW\n")
	fmt.Fprintf(w, "----\t---\t--------\t-------\n")
	for i, p := range passages {
		fmt.Fprintf(w, "%d\t%d\t%.4f\t%s\n", i+1, p.Row, p.Distance, truncate(oneLine(p.Text), 70))
	}
	w.Flush()

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "\nFound %d chunk(s)\n", len(passages))
	}
	return nil
}
