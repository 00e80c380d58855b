// ABOUTME: Root command and global flags for the docqa CLI
// ABOUTME: Wires subcommands and applies --verbose/--quiet to the standard logger
package commands

import (
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose      bool
	quiet        bool
	outputFormat string
	indexPath    string
	metadataPath string
)

const banner = `
 ██████╗  ██████╗  ██████╗ ██████╗  █████╗
 ██╔══██╗██╔═══██╗██╔════╝██╔═══██╗██╔══██╗
 ██║  ██║██║   ██║██║     ██║   ██║███████║
 ██║  ██║██║   ██║██║     ██║▄▄ ██║██╔══██║
 ██████╔╝╚██████╔╝╚██████╗╚██████╔╝██║  ██║
 ╚═════╝  ╚═════╝  ╚═════╝ ╚══▀▀═╝ ╚═╝  ╚═╝`

// NewRootCmd creates the root command with every subcommand attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docqa",
		Short: "Ask questions about a document",
		Long: banner + `

Document question answering over a local vector index.

Build an index once from a PDF, spreadsheet, HTML or text file, then
ask questions from the command line, over HTTP, or through MCP. Answers
are spans quoted from the document.

Configuration comes from the environment (or a .env file):
  EMBEDDING_PROVIDER  hash | openai | eino
  QA_PROVIDER         lexical | openai
  CHUNK_SIZE, CHUNK_OVERLAP, TOP_K, OPENAI_API_KEY, PORT`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch outputFormat {
			case "auto", "json", "text":
			default:
				return fmt.Errorf("unknown format %q (use auto, json or text)", outputFormat)
			}
			if quiet {
				log.SetOutput(io.Discard)
			} else {
				log.SetOutput(os.Stderr)
			}
			if verbose {
				log.SetFlags(log.LstdFlags | log.Lshortfile)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress logs and informational output")
	cmd.PersistentFlags().StringVar(&outputFormat, "format", "auto", "Output format: auto, json or text")
	cmd.PersistentFlags().StringVar(&indexPath, "index", "", "Index file (overrides DOCQA_INDEX_PATH)")
	cmd.PersistentFlags().StringVar(&metadataPath, "metadata", "", "Metadata file, .json or .db (overrides DOCQA_METADATA_PATH)")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewBuildIndexCmd(),
		NewAskCmd(),
		NewRetrieveCmd(),
		NewInspectCmd(),
		NewExportCmd(),
		NewServeCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
