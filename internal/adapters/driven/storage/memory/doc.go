// Package memory provides in-memory implementations of the driven storage
// ports. They honour the same contracts as the SQLite adapter, including
// gapless allocation under concurrency, and exist for tests and for
// running without a data directory.
package memory
