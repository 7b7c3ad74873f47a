// Package messages defines Bubbletea message types for the TUI.
package messages

import (
	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewProcess is the URL input and progress view.
	ViewProcess
	// ViewPapers lists processed papers.
	ViewPapers
	// ViewSummary shows one paper's summary.
	ViewSummary
	// ViewHelp is the keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewProcess:
		return "process"
	case ViewPapers:
		return "papers"
	case ViewSummary:
		return "summary"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ProcessCompleted carries the outcome of one pipeline run.
type ProcessCompleted struct {
	URL    string
	Record *domain.PaperMetadata
	Err    error
}

// PapersLoaded carries the processed papers, newest first.
type PapersLoaded struct {
	Papers []domain.PaperMetadata
	Err    error
}

// PaperSelected is sent when a paper is picked from the list.
type PaperSelected struct {
	Paper domain.PaperMetadata
}

// SummaryLoaded carries a paper's summary text.
type SummaryLoaded struct {
	Path    string
	Content string
	Err     error
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}
