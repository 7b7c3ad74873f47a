// Package tui provides an interactive terminal interface for PaperBoi:
// submit paper URLs, browse processed papers and read their summaries.
package tui

import (
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driving"
)

// Ports aggregates the driving ports the TUI uses.
type Ports struct {
	// Paper runs the pipeline and lists processed papers.
	Paper driving.PaperService
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil || p.Paper == nil {
		return ErrMissingPaperService
	}
	return nil
}
