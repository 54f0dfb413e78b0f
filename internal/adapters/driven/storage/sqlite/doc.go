// Package sqlite provides SQLite-based storage for records, sequence
// counters and the FTS5 full-text index. All of them live in one
// database file so a record creation can allocate its number, insert the
// record and refresh the index in a single transaction.
package sqlite
