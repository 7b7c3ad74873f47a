package services

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/christopherbholland/PaperBoi/internal/core/domain"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driven"
	"github.com/christopherbholland/PaperBoi/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyBaseDir         = "paths.base_dir"
	keyMaxChars        = "segmenter.max_chars"
	keyBackendProvider = "backend.provider"
	keyAssistantID     = "backend.assistant_id"
	keyAPIKey          = "backend.api_key"
	keyBackendBaseURL  = "backend.base_url"
	keyPollInterval    = "backend.poll_interval"
	keyRequestsPerSec  = "backend.requests_per_second"
	keyExtractorEngine = "extractor.engine"
	keyMinTextLength   = "extractor.min_text_length"
	keyStorageBackend  = "storage.backend"
	keyTitleFallback   = "title.fallback"
	keyVerbose         = "log.verbose"
)

// Environment variables that override stored settings.
//
//nolint:gosec // G101: These are variable names, not actual credentials.
const (
	EnvAPIKey      = "OPENAI_API_KEY"
	EnvBaseURL     = "OPENAI_BASE_URL"
	EnvAssistantID = "PAPERBOI_ASSISTANT_ID"
	EnvHome        = "PAPERBOI_HOME"
)

// ErrUnknownSetting is returned by Set for unrecognised keys.
var ErrUnknownSetting = errors.New("unknown setting")

// EnvLookup resolves an environment variable.
type EnvLookup func(key string) (string, bool)

// LoadEnvFile reads KEY=VALUE pairs from a dotenv file without modifying
// the process environment. A missing file yields an empty map.
func LoadEnvFile(path string) (map[string]string, error) {
	vals, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return vals, nil
}

// ChainEnv looks keys up in the process environment first, then in file.
func ChainEnv(file map[string]string) EnvLookup {
	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			return v, true
		}
		v, ok := file[key]
		return v, ok && v != ""
	}
}

// SettingsOption configures a SettingsService.
type SettingsOption func(*SettingsService)

// WithEnv sets the environment used for overrides.
func WithEnv(lookup EnvLookup) SettingsOption {
	return func(s *SettingsService) {
		if lookup != nil {
			s.env = lookup
		}
	}
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	env         EnvLookup
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, opts ...SettingsOption) *SettingsService {
	s := &SettingsService{
		configStore: configStore,
		env:         func(string) (string, bool) { return "", false },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get retrieves current application settings. Environment overrides win
// over stored values, which win over defaults.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Paths: domain.PathSettings{
			BaseDir: s.override(EnvHome, s.getString(keyBaseDir, defaults.Paths.BaseDir)),
		},
		Segmenter: domain.SegmenterSettings{
			MaxChars: s.getPositiveInt(keyMaxChars, defaults.Segmenter.MaxChars),
		},
		Backend: domain.BackendSettings{
			Provider:          s.getProvider(defaults.Backend.Provider),
			AssistantID:       s.override(EnvAssistantID, s.configStore.GetString(keyAssistantID)),
			APIKey:            s.override(EnvAPIKey, s.configStore.GetString(keyAPIKey)),
			BaseURL:           s.override(EnvBaseURL, s.configStore.GetString(keyBackendBaseURL)),
			PollInterval:      s.getDuration(keyPollInterval, defaults.Backend.PollInterval),
			RequestsPerSecond: s.getPositiveInt(keyRequestsPerSec, defaults.Backend.RequestsPerSecond),
		},
		Extractor: domain.ExtractorSettings{
			Engine:        s.getEngine(defaults.Extractor.Engine),
			MinTextLength: s.getPositiveInt(keyMinTextLength, defaults.Extractor.MinTextLength),
		},
		Storage: domain.StorageSettings{
			Backend: s.getStorage(defaults.Storage.Backend),
		},
		Title: domain.TitleSettings{
			Fallback: s.getString(keyTitleFallback, defaults.Title.Fallback),
		},
		Log: domain.LogSettings{
			Verbose: s.configStore.GetBool(keyVerbose),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyBaseDir, settings.Paths.BaseDir},
		{keyMaxChars, settings.Segmenter.MaxChars},
		{keyBackendProvider, settings.Backend.Provider.String()},
		{keyAssistantID, settings.Backend.AssistantID},
		{keyBackendBaseURL, settings.Backend.BaseURL},
		{keyPollInterval, settings.Backend.PollInterval.String()},
		{keyRequestsPerSec, settings.Backend.RequestsPerSecond},
		{keyExtractorEngine, settings.Extractor.Engine.String()},
		{keyMinTextLength, settings.Extractor.MinTextLength},
		{keyStorageBackend, settings.Storage.Backend.String()},
		{keyTitleFallback, settings.Title.Fallback},
		{keyVerbose, settings.Log.Verbose},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	if settings.Backend.APIKey != "" {
		if err := s.configStore.Set(keyAPIKey, settings.Backend.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keyAPIKey, err)
		}
	}

	return nil
}

// Set parses value for key and stores it.
func (s *SettingsService) Set(key, value string) error {
	var parsed any

	switch key {
	case keyBaseDir, keyAssistantID, keyAPIKey, keyBackendBaseURL, keyTitleFallback:
		parsed = value
	case keyMaxChars, keyRequestsPerSec, keyMinTextLength:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 || (n == 0 && key != keyRequestsPerSec) {
			return fmt.Errorf("%w: %s must be a positive integer", domain.ErrInvalidInput, key)
		}
		parsed = n
	case keyPollInterval:
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("%w: %s must be a positive duration such as 1s", domain.ErrInvalidInput, key)
		}
		parsed = d.String()
	case keyVerbose:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		parsed = b
	case keyBackendProvider:
		if !domain.BackendProvider(value).IsValid() {
			return fmt.Errorf("%w: backend %q", domain.ErrUnsupportedType, value)
		}
		parsed = value
	case keyExtractorEngine:
		if !domain.ExtractorEngine(value).IsValid() {
			return fmt.Errorf("%w: extractor %q", domain.ErrUnsupportedType, value)
		}
		parsed = value
	case keyStorageBackend:
		if !domain.StorageBackend(value).IsValid() {
			return fmt.Errorf("%w: storage %q", domain.ErrUnsupportedType, value)
		}
		parsed = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownSetting, key)
	}

	return s.configStore.Set(key, parsed)
}

// Keys returns every recognised config key in sorted order.
func (s *SettingsService) Keys() []string {
	keys := []string{
		keyBaseDir, keyMaxChars, keyBackendProvider, keyAssistantID, keyAPIKey,
		keyBackendBaseURL, keyPollInterval, keyRequestsPerSec, keyExtractorEngine,
		keyMinTextLength, keyStorageBackend, keyTitleFallback, keyVerbose,
	}
	sort.Strings(keys)
	return keys
}

// Validate checks current settings are usable for a pipeline run.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return settings.Validate()
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ConfigPath returns where settings are persisted.
func (s *SettingsService) ConfigPath() string {
	return s.configStore.Path()
}

func (s *SettingsService) override(env, value string) string {
	if v, ok := s.env(env); ok {
		return v
	}
	return value
}

func (s *SettingsService) getString(key, defaultVal string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getPositiveInt(key string, defaultVal int) int {
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return defaultVal
}

func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	d, err := time.ParseDuration(s.configStore.GetString(key))
	if err != nil || d <= 0 {
		return defaultVal
	}
	return d
}

func (s *SettingsService) getProvider(defaultVal domain.BackendProvider) domain.BackendProvider {
	if p := domain.BackendProvider(s.configStore.GetString(keyBackendProvider)); p.IsValid() {
		return p
	}
	return defaultVal
}

func (s *SettingsService) getEngine(defaultVal domain.ExtractorEngine) domain.ExtractorEngine {
	if e := domain.ExtractorEngine(s.configStore.GetString(keyExtractorEngine)); e.IsValid() {
		return e
	}
	return defaultVal
}

func (s *SettingsService) getStorage(defaultVal domain.StorageBackend) domain.StorageBackend {
	if b := domain.StorageBackend(s.configStore.GetString(keyStorageBackend)); b.IsValid() {
		return b
	}
	return defaultVal
}
