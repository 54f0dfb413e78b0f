// Package file provides TOML file-based configuration storage, including
// the administrator-defined custom numbering rules.
package file
