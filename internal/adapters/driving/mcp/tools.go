package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

// ProcessPaperInput is the input schema for the process_paper tool.
type ProcessPaperInput struct {
	URL string `json:"url" jsonschema:"URL of the paper PDF, an arXiv abstract page, or a page whose .pdf twin is the paper"`
}

// PaperOutput describes one processed paper.
type PaperOutput struct {
	Key              string `json:"key"`
	Title            string `json:"title"`
	SourceTitle      string `json:"source_title,omitempty"`
	DOI              string `json:"doi,omitempty"`
	OriginalURL      string `json:"original_url"`
	OriginalFilename string `json:"original_filename"`
	NumChunks        int    `json:"num_chunks"`
	ProcessingDate   string `json:"processing_date"`
	SummaryPath      string `json:"summary_path"`
}

// ListPapersInput is the input schema for the list_papers tool.
type ListPapersInput struct {
	Limit int `json:"limit,omitempty" jsonschema:"maximum number of papers to return, newest first (default: all)"`
}

// ListPapersOutput is the output schema for the list_papers tool.
type ListPapersOutput struct {
	Papers []PaperOutput `json:"papers"`
	Count  int           `json:"count"`
}

// ReadSummaryInput is the input schema for the read_summary tool.
type ReadSummaryInput struct {
	Key string `json:"key" jsonschema:"paper key as returned by list_papers (the DOI, or the PDF filename when there is none)"`
}

// ReadSummaryOutput is the output schema for the read_summary tool.
type ReadSummaryOutput struct {
	Paper   PaperOutput `json:"paper"`
	Summary string      `json:"summary"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "process_paper",
		Description: "Download a paper PDF, summarise it, and record its metadata",
	}, s.handleProcessPaper)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_papers",
		Description: "List processed papers, newest first",
	}, s.handleListPapers)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "read_summary",
		Description: "Read the stored summary of a processed paper",
	}, s.handleReadSummary)
}

// handleProcessPaper handles the process_paper tool invocation.
func (s *Server) handleProcessPaper(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ProcessPaperInput,
) (*mcp.CallToolResult, PaperOutput, error) {
	if input.URL == "" {
		return nil, PaperOutput{}, errors.New("url is required")
	}

	record, err := s.ports.Paper.Process(ctx, input.URL)
	if err != nil {
		return nil, PaperOutput{}, err
	}
	return nil, toOutput(*record), nil
}

// handleListPapers handles the list_papers tool invocation.
func (s *Server) handleListPapers(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ListPapersInput,
) (*mcp.CallToolResult, ListPapersOutput, error) {
	papers, err := s.listPapers(ctx, input.Limit)
	if err != nil {
		return nil, ListPapersOutput{}, err
	}
	return nil, ListPapersOutput{Papers: papers, Count: len(papers)}, nil
}

// handleReadSummary handles the read_summary tool invocation.
func (s *Server) handleReadSummary(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReadSummaryInput,
) (*mcp.CallToolResult, ReadSummaryOutput, error) {
	if input.Key == "" {
		return nil, ReadSummaryOutput{}, errors.New("key is required")
	}

	records, err := s.ports.Paper.ListProcessed(ctx)
	if err != nil {
		return nil, ReadSummaryOutput{}, err
	}
	for i := range records {
		if records[i].Key() != input.Key {
			continue
		}
		summary, err := s.ports.Paper.ReadSummary(ctx, records[i].SummaryPath)
		if err != nil {
			return nil, ReadSummaryOutput{}, err
		}
		return nil, ReadSummaryOutput{Paper: toOutput(records[i]), Summary: summary}, nil
	}
	return nil, ReadSummaryOutput{}, fmt.Errorf("%w: paper %q", domain.ErrNotFound, input.Key)
}

func (s *Server) listPapers(ctx context.Context, limit int) ([]PaperOutput, error) {
	records, err := s.ports.Paper.ListProcessed(ctx)
	if err != nil {
		return nil, err
	}
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}

	out := make([]PaperOutput, len(records))
	for i, r := range records {
		out[i] = toOutput(r)
	}
	return out, nil
}

func toOutput(r domain.PaperMetadata) PaperOutput {
	return PaperOutput{
		Key:              r.Key(),
		Title:            r.Title,
		SourceTitle:      r.SourceTitle,
		DOI:              r.DOI,
		OriginalURL:      r.OriginalURL,
		OriginalFilename: r.OriginalFilename,
		NumChunks:        r.NumChunks,
		ProcessingDate:   r.ProcessingDate.Format("2006-01-02T15:04:05Z07:00"),
		SummaryPath:      r.SummaryPath,
	}
}
