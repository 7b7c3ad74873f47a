// Package postprocessors builds the segmenters that turn extracted text
// into fragments.
package postprocessors

import (
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
	"github.com/christopherbholland/PaperBoi/internal/postprocessors/chunker"
)

// DefaultSegmenter is the segmenter used when none is configured.
const DefaultSegmenter = "chunker"

// RegisterDefaults registers all built-in segmenters with the registry.
// Call this during application initialisation.
func RegisterDefaults(r *Registry) {
	r.Register(DefaultSegmenter, buildChunker)
}

// buildChunker creates a chunker from generic config.
// Supported config keys:
//   - max_chars (int): Fragment budget in characters (default: 7500)
func buildChunker(cfg map[string]any) (driven.Segmenter, error) {
	var opts []chunker.Option

	if cfg != nil {
		if size := getIntFromConfig(cfg, "max_chars"); size > 0 {
			opts = append(opts, chunker.WithMaxChars(size))
		}
	}

	return chunker.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
