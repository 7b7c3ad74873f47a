package postprocessors

import (
	"fmt"
	"sort"

	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
)

// BuilderFunc creates a Segmenter from generic config.
// Config is a map of segmenter-specific settings parsed from user config.
type BuilderFunc func(cfg map[string]any) (driven.Segmenter, error)

// Registry maps segmenter names to their builders.
// It allows dynamic construction of segmenters from configuration.
type Registry struct {
	builders map[string]BuilderFunc
}

// NewRegistry creates a new segmenter registry.
func NewRegistry() *Registry {
	return &Registry{
		builders: make(map[string]BuilderFunc),
	}
}

// Register adds a segmenter builder to the registry.
// Name should be unique and match the segmenter's Name() return value.
func (r *Registry) Register(name string, builder BuilderFunc) {
	r.builders[name] = builder
}

// Build creates a segmenter by name with the given config.
// Returns error if the name is not registered.
func (r *Registry) Build(name string, cfg map[string]any) (driven.Segmenter, error) {
	builder, ok := r.builders[name]
	if !ok {
		return nil, fmt.Errorf("unknown segmenter: %s", name)
	}
	return builder(cfg)
}

// Has returns true if a segmenter with the given name is registered.
func (r *Registry) Has(name string) bool {
	_, ok := r.builders[name]
	return ok
}

// Names returns all registered segmenter names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.builders))
	for name := range r.builders {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
