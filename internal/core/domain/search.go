package domain

import "time"

// MaxSearchResults caps every search response. This is a deliberate bound,
// not a pagination cursor; the subsystem does not serve "page 2".
const MaxSearchResults = 50

// RecordKind distinguishes the two searchable record families.
type RecordKind string

// Searchable record kinds.
const (
	KindMeeting  RecordKind = "meeting"
	KindDocument RecordKind = "document"
)

// SortBy selects the ordering key for search results.
type SortBy string

// Available sort keys.
const (
	// SortByRelevance orders by text-match score, always best-first.
	SortByRelevance SortBy = "relevance"

	// SortByDate orders by the record date.
	SortByDate SortBy = "date"

	// SortByIdentifier orders by the formatted identifier.
	SortByIdentifier SortBy = "identifier"
)

// IsValid returns true if the sort key is recognised.
func (s SortBy) IsValid() bool {
	switch s {
	case SortByRelevance, SortByDate, SortByIdentifier:
		return true
	default:
		return false
	}
}

// SortOrder selects the ordering direction for structured sorts.
type SortOrder string

// Available sort directions.
const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

// IsValid returns true if the sort order is recognised.
func (o SortOrder) IsValid() bool {
	return o == SortAsc || o == SortDesc
}

// SearchQuery describes one search request: free text plus structured
// filters. All filters compose with AND.
type SearchQuery struct {
	// Text is the free-text query. It is sanitized before reaching the
	// index; an empty-after-sanitization text degrades the request to a
	// pure filter+sort listing.
	Text string

	// TypeCode filters to records of one type (exact match). Empty means
	// all types.
	TypeCode string

	// DateFrom and DateTo bound the record date, inclusive on both ends.
	// Zero values leave the corresponding bound open.
	DateFrom time.Time
	DateTo   time.Time

	SortBy    SortBy
	SortOrder SortOrder
}

// Validate rejects malformed queries before any store access.
func (q SearchQuery) Validate() error {
	if !q.DateFrom.IsZero() && !q.DateTo.IsZero() && q.DateFrom.After(q.DateTo) {
		return ErrMalformedDateRange
	}
	return nil
}

// SearchResult is a single search hit.
type SearchResult struct {
	// RecordID identifies the matched record.
	RecordID string

	// Kind is the record family of the hit.
	Kind RecordKind

	// TypeCode is the record's type code.
	TypeCode string

	// Identifier is the record's formatted identifier.
	Identifier string

	// Title is a short display line (location or identifier derived).
	Title string

	// Date is the record date used for structured sorting.
	Date time.Time

	// Score is the relevance score. Zero when the request had no text
	// query; higher is better.
	Score float64

	// Snippet is a bounded excerpt with matched terms wrapped in
	// <mark>...</mark>. Empty when the request had no text query.
	Snippet string
}
