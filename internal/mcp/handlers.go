// ABOUTME: MCP tool handler implementations for the document assistant
// ABOUTME: User errors become tool errors; capability failures are logged and reported generically
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/harper/docqa/internal/core"
	"github.com/harper/docqa/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	assistant Assistant
	defaultK  int
}

// AskDocument handles the ask_document tool
func (h *Handlers) AskDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	ans, err := h.assistant.Answer(ctx, question)
	if errors.Is(err, core.ErrNoContext) {
		ans, err = models.Answer{Text: core.NoContextAnswer}, nil
	}
	if err != nil {
		return toolError("ask_document", err), nil
	}

	response := map[string]interface{}{
		"question": question,
		"answer":   ans.Text,
		"score":    ans.Score,
	}
	return jsonResult(response)
}

// RetrieveContext handles the retrieve_context tool
func (h *Handlers) RetrieveContext(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	k := request.GetInt("k", h.defaultK)
	if k <= 0 {
		return mcp.NewToolResultError(fmt.Sprintf("k must be positive, got %d", k)), nil
	}

	passages, err := h.assistant.Passages(ctx, question, k)
	if err != nil {
		return toolError("retrieve_context", err), nil
	}

	response := map[string]interface{}{
		"question": question,
		"passages": passages,
	}
	return jsonResult(response)
}

func toolError(tool string, err error) *mcp.CallToolResult {
	if core.IsUserError(err) {
		return mcp.NewToolResultError(err.Error())
	}
	log.Printf("[MCP] %s failed: %v", tool, err)
	return mcp.NewToolResultError("internal error while processing the question")
}

func jsonResult(response map[string]interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
