// Package services implements the core use cases: sequence allocation,
// record creation, full-text search and numbering settings. Services
// depend only on the driven ports and are wired with concrete adapters
// by the CLI layer.
package services
