// Package driven declares what the core needs from infrastructure:
// retrieval of paper PDFs, text extraction, segmentation, the stateful
// conversation backend, summary and metadata storage, and configuration.
//
// Adapters under internal/adapters/driven implement these interfaces.
// This package may import domain and nothing else from internal/.
package driven
