// Package mcp provides an MCP (Model Context Protocol) server adapter for
// PaperBoi. It lets AI assistants submit papers for summarisation and
// browse the papers already processed.
package mcp

import "errors"

// ErrMissingPaperService is returned when the paper service is not provided.
var ErrMissingPaperService = errors.New("mcp: paper service is required")
