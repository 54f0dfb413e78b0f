// Package domain contains the core business entities and rules for the
// registo record-keeping subsystem: document and meeting records, the
// gapless sequence numbering that identifies them, and the search types
// used to query them.
//
// The package has no dependencies on storage or transport. Entities are
// plain structs; numbering and identifier formatting are pure functions
// so they can be tested without a store.
package domain
