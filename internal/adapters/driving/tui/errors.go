package tui

import "errors"

// ErrMissingPaperService is returned when the paper service is not provided.
var ErrMissingPaperService = errors.New("tui: paper service is required")
