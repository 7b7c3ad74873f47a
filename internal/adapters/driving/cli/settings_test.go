package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
)

// Test helper functions in settings.go

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "Short key",
			input:    "abc123",
			expected: "****",
		},
		{
			name:     "Exactly 8 chars",
			input:    "12345678",
			expected: "****",
		},
		{
			name:     "Long key",
			input:    "sk-1234567890abcdef",
			expected: "sk-1...cdef",
		},
		{
			name:     "Very long key",
			input:    "sk-proj-1234567890abcdefghijklmnop",
			expected: "sk-p...mnop",
		},
		{
			name:     "Empty key",
			input:    "",
			expected: "****",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := maskAPIKey(tt.input)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestParseChoice(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		maxVal     int
		defaultVal int
		expected   int
	}{
		{
			name:       "Empty input returns default",
			input:      "",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Valid choice within range",
			input:      "3",
			maxVal:     5,
			defaultVal: 1,
			expected:   3,
		},
		{
			name:       "Choice below minimum returns default",
			input:      "0",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Choice above maximum returns default",
			input:      "6",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Invalid input returns default",
			input:      "abc",
			maxVal:     5,
			defaultVal: 2,
			expected:   2,
		},
		{
			name:       "Negative number returns default",
			input:      "-1",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Whitespace returns default",
			input:      "   ",
			maxVal:     5,
			defaultVal: 1,
			expected:   1,
		},
		{
			name:       "Maximum value is valid",
			input:      "5",
			maxVal:     5,
			defaultVal: 1,
			expected:   5,
		},
		{
			name:       "Minimum value is valid",
			input:      "1",
			maxVal:     5,
			defaultVal: 3,
			expected:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseChoice(tt.input, tt.maxVal, tt.defaultVal)
			assert.Equal(t, tt.expected, result)
		})
	}
}

func TestValueOrUnset(t *testing.T) {
	assert.Equal(t, "(not set)", valueOrUnset(""))
	assert.Equal(t, "asst_1", valueOrUnset("asst_1"))
}

func TestSettingsShow_Defaults(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := runRoot(t, "", "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Config file: :memory:")
	assert.Contains(t, out, "Provider: OpenAI Assistants (cloud)")
	assert.Contains(t, out, "Assistant: (not set)")
	assert.Contains(t, out, "API Key: (not set)")
	assert.Contains(t, out, "Chunk size: 7500 characters")
	assert.Contains(t, out, "Metadata: JSON files")
	assert.Contains(t, out, "Warning: "+domain.ErrMissingAssistantID.Error())
}

func TestSettingsShow_MasksAPIKey(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()
	require.NoError(t, settings.Set("backend.assistant_id", "asst_123"))
	require.NoError(t, settings.Set("backend.api_key", "sk-1234567890abcdef"))

	out, _, err := runRoot(t, "", "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "API Key: sk-1...cdef")
	assert.NotContains(t, out, "sk-1234567890abcdef")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsSet(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := runRoot(t, "", "settings", "set", "backend.provider", "memory")

	require.NoError(t, err)
	assert.Contains(t, out, "Set backend.provider = memory")
	got, err := settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.BackendMemory, got.Backend.Provider)
}

func TestSettingsSet_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown key", []string{"settings", "set", "nope", "1"}, "unknown setting"},
		{"bad value", []string{"settings", "set", "segmenter.max_chars", "lots"}, "positive integer"},
		{"missing value", []string{"settings", "set", "backend.provider"}, "a value is required"},
		{"no args", []string{"settings", "set"}, "accepts between 1 and 2 arg(s)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, cleanup := setupTestServices()
			defer cleanup()

			_, _, err := runRoot(t, "", tt.args...)

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestSettingsSet_PromptsForAPIKey(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := runRoot(t, "sk-abcdefghijklmnop\n", "settings", "set", "backend.api_key")

	require.NoError(t, err)
	assert.Contains(t, out, "Enter API key: ")
	assert.Contains(t, out, "Set backend.api_key = sk-a...mnop")
	got, err := settings.Get()
	require.NoError(t, err)
	assert.Equal(t, "sk-abcdefghijklmnop", got.Backend.APIKey)
}

func TestSettingsSet_EmptyAPIKey(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := runRoot(t, "\n", "settings", "set", "backend.api_key")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestSettingsKeys(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := runRoot(t, "", "settings", "keys")

	require.NoError(t, err)
	assert.Equal(t, settings.Keys(), strings.Fields(out))
}

func TestSettingsWizard(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()

	stdin := "1\nasst_123\nsk-1234567890abcdef\n2\n2\n"
	out, _, err := runRoot(t, stdin, "settings", "wizard")

	require.NoError(t, err)
	assert.Contains(t, out, "Settings saved to :memory:")

	got, err := settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.BackendOpenAI, got.Backend.Provider)
	assert.Equal(t, "asst_123", got.Backend.AssistantID)
	assert.Equal(t, "sk-1234567890abcdef", got.Backend.APIKey)
	assert.Equal(t, domain.ExtractorPdftotext, got.Extractor.Engine)
	assert.Equal(t, domain.StorageSQLite, got.Storage.Backend)
}

func TestSettingsWizard_MemoryBackendSkipsCredentials(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()

	out, _, err := runRoot(t, "2\n\n\n", "settings", "wizard")

	require.NoError(t, err)
	assert.NotContains(t, out, "Enter assistant ID")

	got, err := settings.Get()
	require.NoError(t, err)
	assert.Equal(t, domain.BackendMemory, got.Backend.Provider)
	assert.Equal(t, domain.ExtractorNative, got.Extractor.Engine)
	assert.Equal(t, domain.StorageJSON, got.Storage.Backend)
}

func TestSettingsWizard_InvalidNotSaved(t *testing.T) {
	_, settings, cleanup := setupTestServices()
	defer cleanup()

	_, _, err := runRoot(t, "1\n\n\n\n\n", "settings", "wizard")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "settings not saved")
	assert.ErrorIs(t, err, domain.ErrMissingAssistantID)

	got, err := settings.Get()
	require.NoError(t, err)
	assert.Empty(t, got.Backend.AssistantID)
}

func TestSettingsCmd_NotConfigured(t *testing.T) {
	_, _, cleanup := setupTestServices()
	defer cleanup()
	SetServices(Services{})

	for _, args := range [][]string{{"settings", "show"}, {"settings", "keys"}, {"settings", "set", "a", "b"}} {
		_, _, err := runRoot(t, "", args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "settings service not configured")
	}
}
