package mcp

import (
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driving"
)

// Ports aggregates the driving ports required by the MCP server.
type Ports struct {
	// Paper processes papers and lists processed ones.
	Paper driving.PaperService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Paper == nil {
		return ErrMissingPaperService
	}
	return nil
}
