package domain

import "time"

// PaperMetadata is the persisted outcome of one successful pipeline run.
// It is created once and never modified.
type PaperMetadata struct {
	// OriginalFilename is the name of the downloaded PDF.
	OriginalFilename string `json:"original_filename"`

	// OriginalURL is the URL the paper was requested with.
	OriginalURL string `json:"original_url"`

	// NumChunks is the number of fragments sent to the backend.
	NumChunks int `json:"num_chunks"`

	// ProcessingDate is when the run completed.
	ProcessingDate time.Time `json:"processing_date"`

	// Title is the sanitised title taken from the summary.
	Title string `json:"title"`

	// SourceTitle is the advisory title found in the paper's leading pages.
	SourceTitle string `json:"source_title,omitempty"`

	// DOI is the DOI found in the paper's leading pages, if any.
	DOI string `json:"doi,omitempty"`

	// SummaryPath is where the summary text was stored.
	SummaryPath string `json:"summary_path"`
}

// Key returns the lookup key: the DOI when present, else the original filename.
func (m *PaperMetadata) Key() string {
	if m.DOI != "" {
		return m.DOI
	}
	return m.OriginalFilename
}
