package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zakopshq/zakops/pkg/deal"
)

var (
	searchToolName    = "pipeline_search"
	searchDescription = "Search the deal pipeline by name, counterparty, summary, or tags. Returns the best-matching deals with their stage and a snippet of the matched field."
)

// SearchInput represents the input arguments for the pipeline search tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"the search query text to match against deals"`
	TopK  int    `json:"top_k,omitempty" jsonschema:"number of results to return (default: 5)"`
}

// SearchOutput represents the output of the pipeline search tool.
type SearchOutput struct {
	Query   string              `json:"query"`
	Results []deal.SearchResult `json:"results"`
	Count   int                 `json:"count"`
}

// handleSearch processes a pipeline search request.
func (s *Server) handleSearch(_ context.Context, _ *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	logger := s.config.Logger

	// Default topK if not specified
	topK := input.TopK
	if topK <= 0 {
		topK = 5
	}

	logger.Debug("MCP pipeline search",
		"query", input.Query,
		"topK", topK,
	)

	results := s.config.Pipeline.Search(input.Query)
	if len(results) > topK {
		results = results[:topK]
	}
	if results == nil {
		results = []deal.SearchResult{}
	}

	output := SearchOutput{
		Query:   input.Query,
		Results: results,
		Count:   len(results),
	}

	// Serialize the structured output as JSON for the text field
	// Per MCP spec: tools returning structured content should also return
	// serialized JSON in a TextContent block for backwards compatibility
	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal search output", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize results: %v", err)},
			},
		}, SearchOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
