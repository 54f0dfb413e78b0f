package driven

import (
	"context"
	"time"

	"github.com/registo-labs/registo/internal/core/domain"
)

// IndexQuery is the already-sanitized query the search service hands to
// the index. Terms contain no query-syntax characters; each one is matched
// as a prefix and all terms must match (logical AND). An empty Terms slice
// means no text predicate: the index returns a pure filter+sort listing.
type IndexQuery struct {
	Terms []string

	// TypeCode filters to one record type. Empty matches all.
	TypeCode string

	// DateFrom and DateTo bound the record date, inclusive. Zero values
	// leave the bound open.
	DateFrom time.Time
	DateTo   time.Time

	// SortBy/SortOrder order the hits. SortByRelevance ignores SortOrder
	// and always returns best matches first.
	SortBy    domain.SortBy
	SortOrder domain.SortOrder

	// Limit caps the number of hits.
	Limit int
}

// IndexHit is one match from the search index.
type IndexHit struct {
	RecordID   string
	Kind       domain.RecordKind
	TypeCode   string
	Identifier string
	Title      string
	Date       time.Time

	// Score is the relevance score, higher is better. Zero when the query
	// had no text predicate.
	Score float64

	// Snippet is the engine-produced highlighted excerpt. May be empty
	// when the engine has no snippet support; the search service then
	// falls back to a client-side excerpt over Content.
	Snippet string

	// Content is the plain-text body of the record, used for fallback
	// snippet extraction. Not returned to callers.
	Content string
}

// SearchIndex provides full-text search over the record projection.
// Backed by SQLite FTS5; the index is maintained by the record store in
// the same transaction as every create or update, so a hit is visible to
// the read that follows its commit.
type SearchIndex interface {
	// Search runs the combined text and filter query.
	Search(ctx context.Context, q IndexQuery) ([]IndexHit, error)
}
