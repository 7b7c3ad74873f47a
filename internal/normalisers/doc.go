// Package normalisers provides implementations of the TextExtractor
// interface. Each extractor turns a downloaded PDF into plain text, one
// entry per page.
//
// The extractor is chosen at startup from the extractor.engine setting.
package normalisers
