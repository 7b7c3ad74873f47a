// Package file provides filesystem-backed stores for summaries and paper
// metadata.
//
// Summaries are plain text files. Metadata is kept in a master JSON file,
// all_papers.json, keyed by DOI or downloaded file name, and every run also
// writes its own metadata_<timestamp>.json snapshot next to it.
package file
