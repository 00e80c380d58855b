// ABOUTME: MCP tool definitions and registration for the document assistant
// ABOUTME: Exposes ask_document and retrieve_context over the MCP protocol
package mcp

import (
	"context"

	"github.com/harper/docqa/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Assistant is the query surface the tools need
type Assistant interface {
	Answer(ctx context.Context, question string) (models.Answer, error)
	Passages(ctx context.Context, question string, k int) ([]models.Passage, error)
}

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, assistant Assistant, defaultK int) *Handlers {
	handlers := &Handlers{assistant: assistant, defaultK: defaultK}

	// 1. ask_document - answer a question from the indexed document
	server.AddTool(mcp.Tool{
		Name:        "ask_document",
		Description: "Answer a question using only the indexed document. Returns a span quoted from the document, or a notice when nothing relevant was found.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question about the document",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AskDocument)

	// 2. retrieve_context - nearest document chunks without answering
	server.AddTool(mcp.Tool{
		Name:        "retrieve_context",
		Description: "Return the document chunks nearest to a question, ranked by embedding distance.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question or search text",
				},
				"k": map[string]interface{}{
					"type":        "number",
					"description": "Number of chunks to return (default: configured TOP_K)",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.RetrieveContext)

	return handlers
}
