// Package file provides a TOML-based ConfigStore.
//
// Settings are addressed with dotted keys such as "backend.provider" and
// are written back to disk as nested TOML tables:
//
//	[backend]
//	provider = "openai"
//	assistant_id = "asst_..."
package file
