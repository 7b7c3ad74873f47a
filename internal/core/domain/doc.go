// Package domain holds PaperBoi's core types: documents and their fragments,
// backend sessions and run statuses, summaries, metadata records, settings
// and the error kinds the pipeline tags failures with.
//
// Domain sits at the centre of the hexagon and imports only the standard
// library. Every other internal package may depend on it.
package domain
