package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/zakopshq/zakops/pkg/deal"
)

var (
	dealGetToolName    = "deal_get"
	dealGetDescription = "Fetch a single deal by its id, including stage, counterparty, value, probability, and summary."
)

// DealGetInput represents the input arguments for the deal lookup tool.
type DealGetInput struct {
	ID string `json:"id" jsonschema:"the deal id to fetch"`
}

// DealGetOutput represents the output of the deal lookup tool.
type DealGetOutput struct {
	Deal deal.Deal `json:"deal"`
}

// handleDealGet fetches one deal by id.
func (s *Server) handleDealGet(_ context.Context, _ *mcp.CallToolRequest, input DealGetInput) (*mcp.CallToolResult, DealGetOutput, error) {
	logger := s.config.Logger

	logger.Debug("MCP deal lookup", "id", input.ID)

	d, ok := s.config.Pipeline.GetDeal(input.ID)
	if !ok {
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("No deal with id %q", input.ID)},
			},
		}, DealGetOutput{}, nil
	}

	output := DealGetOutput{Deal: d}

	jsonBytes, err := json.Marshal(output)
	if err != nil {
		logger.Error("failed to marshal deal output", "error", err)
		return &mcp.CallToolResult{
			IsError: true,
			Content: []mcp.Content{
				&mcp.TextContent{Text: fmt.Sprintf("Failed to serialize deal: %v", err)},
			},
		}, DealGetOutput{}, nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: string(jsonBytes)},
		},
	}, output, nil
}
