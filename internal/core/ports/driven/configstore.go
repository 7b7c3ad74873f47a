package driven

// ConfigStore holds flat dotted-key settings such as "backend.provider".
// Typed getters return the zero value for a missing key or a type mismatch.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool

	// Set stores value under key and persists the whole config.
	Set(key string, value any) error

	Save() error
	Load() error

	// Path is where the config lives, or a marker for non-file stores.
	Path() string
}
