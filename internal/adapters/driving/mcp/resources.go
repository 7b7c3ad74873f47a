package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// uriScheme is the custom URI scheme for PaperBoi resources.
	uriScheme = "paperboi://"

	papersURI = uriScheme + "papers"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         papersURI,
		Name:        "papers",
		Description: "Metadata of every processed paper, newest first",
		MIMEType:    "application/json",
	}, s.handlePapersResource)
}

// handlePapersResource returns every processed paper as JSON.
func (s *Server) handlePapersResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	papers, err := s.listPapers(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("listing papers: %w", err)
	}

	data, err := json.MarshalIndent(papers, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding papers: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
