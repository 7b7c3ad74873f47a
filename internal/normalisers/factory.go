package normalisers

import (
	"fmt"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
	"github.com/christopherbholland/PaperBoi/internal/normalisers/pdf"
)

// NewExtractor returns the extractor for engine.
func NewExtractor(engine domain.ExtractorEngine) (driven.TextExtractor, error) {
	switch engine {
	case domain.ExtractorNative:
		return pdf.New(), nil
	case domain.ExtractorPdftotext:
		if err := pdf.CheckAvailable(); err != nil {
			return nil, fmt.Errorf("%w\n%s", err, pdf.InstallInstructions())
		}
		return pdf.NewPdftotext(), nil
	default:
		return nil, fmt.Errorf("%w: extractor %q", domain.ErrUnsupportedType, engine)
	}
}
