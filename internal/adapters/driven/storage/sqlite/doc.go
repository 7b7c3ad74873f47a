// Package sqlite provides a SQLite-based MetadataStore.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO. Records live in a single papers table keyed by DOI, or by
// the downloaded file name when no DOI was found.
//
// # Schema
//
// The schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql
// files; applied versions are recorded in schema_migrations.
//
// # Data Location
//
// The database is stored at <base_dir>/metadata/papers.db.
//
// # Thread Safety
//
// All operations are safe for concurrent use. SQLite runs in WAL mode with a
// busy timeout.
package sqlite
