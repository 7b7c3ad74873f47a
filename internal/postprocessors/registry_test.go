package postprocessors

import (
	"context"
	"testing"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
	"github.com/christopherbholland/PaperBoi/internal/postprocessors/chunker"
)

// registryMockSegmenter is a simple mock for testing registry functionality.
type registryMockSegmenter struct {
	name string
}

func (m *registryMockSegmenter) Name() string { return m.name }
func (m *registryMockSegmenter) Process(_ context.Context, _ *domain.Document) ([]domain.Fragment, error) {
	return nil, nil
}

func TestNewRegistry(t *testing.T) {
	r := NewRegistry()
	if r == nil {
		t.Fatal("NewRegistry returned nil")
	}
	if len(r.builders) != 0 {
		t.Errorf("expected empty builders, got %d", len(r.builders))
	}
}

func TestRegistry_Build_Success(t *testing.T) {
	r := NewRegistry()

	r.Register("test", func(cfg map[string]any) (driven.Segmenter, error) {
		name := "default"
		if n, ok := cfg["name"].(string); ok {
			name = n
		}
		return &registryMockSegmenter{name: name}, nil
	})

	seg, err := r.Build("test", map[string]any{"name": "custom"})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if seg.Name() != "custom" {
		t.Errorf("expected name 'custom', got %q", seg.Name())
	}
}

func TestRegistry_Build_UnknownSegmenter(t *testing.T) {
	r := NewRegistry()

	_, err := r.Build("unknown", nil)
	if err == nil {
		t.Error("expected error for unknown segmenter")
	}
}

func TestRegistry_Has(t *testing.T) {
	r := NewRegistry()

	if r.Has("nonexistent") {
		t.Error("expected Has to return false for nonexistent segmenter")
	}

	r.Register("exists", func(_ map[string]any) (driven.Segmenter, error) {
		return &registryMockSegmenter{name: "exists"}, nil
	})

	if !r.Has("exists") {
		t.Error("expected Has to return true for registered segmenter")
	}
}

func TestRegistry_Names(t *testing.T) {
	r := NewRegistry()

	if names := r.Names(); len(names) != 0 {
		t.Errorf("expected 0 names, got %d", len(names))
	}

	r.Register("beta", func(_ map[string]any) (driven.Segmenter, error) {
		return &registryMockSegmenter{name: "beta"}, nil
	})
	r.Register("alpha", func(_ map[string]any) (driven.Segmenter, error) {
		return &registryMockSegmenter{name: "alpha"}, nil
	})

	names := r.Names()
	if len(names) != 2 || names[0] != "alpha" || names[1] != "beta" {
		t.Errorf("expected [alpha beta], got %v", names)
	}
}

func TestRegisterDefaults(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	if !r.Has(DefaultSegmenter) {
		t.Errorf("expected %q to be registered after RegisterDefaults", DefaultSegmenter)
	}
}

func TestBuildChunker_WithConfig(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	seg, err := r.Build("chunker", map[string]any{"max_chars": int64(500)})
	if err != nil {
		t.Fatalf("Build chunker failed: %v", err)
	}

	c, ok := seg.(*chunker.Processor)
	if !ok {
		t.Fatalf("expected *chunker.Processor, got %T", seg)
	}
	if c.MaxChars() != 500 {
		t.Errorf("expected max chars 500, got %d", c.MaxChars())
	}
}

func TestBuildChunker_WithNilConfig(t *testing.T) {
	r := NewRegistry()
	RegisterDefaults(r)

	seg, err := r.Build("chunker", nil)
	if err != nil {
		t.Fatalf("Build chunker with nil config failed: %v", err)
	}

	if c := seg.(*chunker.Processor); c.MaxChars() != chunker.DefaultMaxChars {
		t.Errorf("expected default max chars, got %d", c.MaxChars())
	}
}

func TestGetIntFromConfig(t *testing.T) {
	tests := []struct {
		name     string
		cfg      map[string]any
		key      string
		expected int
	}{
		{"int value", map[string]any{"size": 100}, "size", 100},
		{"int64 value", map[string]any{"size": int64(200)}, "size", 200},
		{"float64 value", map[string]any{"size": float64(300)}, "size", 300},
		{"string value", map[string]any{"size": "400"}, "size", 0},
		{"missing key", map[string]any{"other": 100}, "size", 0},
		{"nil config", nil, "size", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := getIntFromConfig(tt.cfg, tt.key)
			if result != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, result)
			}
		})
	}
}
