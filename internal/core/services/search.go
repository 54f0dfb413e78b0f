package services

import (
	"context"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"

	"github.com/registo-labs/registo/internal/core/domain"
	"github.com/registo-labs/registo/internal/core/ports/driven"
	"github.com/registo-labs/registo/internal/core/ports/driving"
	"github.com/registo-labs/registo/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// Highlight markers wrapped around matched terms in snippets.
const (
	markOpen  = "<mark>"
	markClose = "</mark>"
)

// fallbackWindow is the number of characters kept on each side of the
// first matched term when the index produced no snippet.
const fallbackWindow = 100

// stripMarkup removes all markup from record content, escaping what
// remains, so stored rich text can never smuggle tags into a snippet.
var stripMarkup = bluemonday.StrictPolicy()

// SearchService answers free-text queries over the record index.
type SearchService struct {
	index driven.SearchIndex
}

// NewSearchService creates a new search service.
func NewSearchService(index driven.SearchIndex) *SearchService {
	return &SearchService{index: index}
}

// Search runs a sanitized text+filter query and returns at most
// domain.MaxSearchResults hits in the requested order.
func (s *SearchService) Search(ctx context.Context, q domain.SearchQuery) ([]domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q", q.Text)

	if err := q.Validate(); err != nil {
		return nil, err
	}

	terms := sanitizeTerms(q.Text)
	logger.Debug("Sanitized terms: %v", terms)

	// Nothing to search and nothing to filter: the caller gets an empty
	// result set rather than an unbounded listing.
	if len(terms) == 0 && q.TypeCode == "" && q.DateFrom.IsZero() && q.DateTo.IsZero() {
		logger.Debug("Empty query with no filters, returning no results")
		return []domain.SearchResult{}, nil
	}

	sortBy, sortOrder := effectiveSort(q, len(terms) > 0)
	logger.Debug("Effective sort: %s %s", sortBy, sortOrder)

	hits, err := s.index.Search(ctx, driven.IndexQuery{
		Terms:     terms,
		TypeCode:  q.TypeCode,
		DateFrom:  q.DateFrom,
		DateTo:    q.DateTo,
		SortBy:    sortBy,
		SortOrder: sortOrder,
		Limit:     domain.MaxSearchResults,
	})
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	logger.Debug("Index returned %d hits", len(hits))

	// The cap holds even when the index ignores the limit it was given.
	if len(hits) > domain.MaxSearchResults {
		hits = hits[:domain.MaxSearchResults]
	}

	results := make([]domain.SearchResult, 0, len(hits))
	for _, hit := range hits {
		snippet := hit.Snippet
		if snippet == "" && len(terms) > 0 {
			snippet = fallbackSnippet(hit.Content, terms[0])
		}
		results = append(results, domain.SearchResult{
			RecordID:   hit.RecordID,
			Kind:       hit.Kind,
			TypeCode:   hit.TypeCode,
			Identifier: hit.Identifier,
			Title:      hit.Title,
			Date:       hit.Date,
			Score:      hit.Score,
			Snippet:    snippet,
		})
	}
	return results, nil
}

// effectiveSort resolves the requested sort against what the query can
// support. Relevance needs a text query; without one it falls back to
// date descending. Relevance is always best-first, so the direction is
// forced to descending regardless of the request.
func effectiveSort(q domain.SearchQuery, hasTerms bool) (domain.SortBy, domain.SortOrder) {
	sortBy := q.SortBy
	if !sortBy.IsValid() {
		sortBy = domain.SortByDate
	}
	sortOrder := q.SortOrder
	if !sortOrder.IsValid() {
		sortOrder = domain.SortDesc
	}

	if sortBy == domain.SortByRelevance {
		if !hasTerms {
			return domain.SortByDate, domain.SortDesc
		}
		return domain.SortByRelevance, domain.SortDesc
	}
	return sortBy, sortOrder
}

// ftsSyntax reports characters that carry meaning in the text-query
// language. They act as token boundaries so user input can never be
// interpreted as query syntax.
func ftsSyntax(r rune) bool {
	switch r {
	case '"', '\'', ':', '*', '^', '\\', '(', ')', '{', '}', '[', ']',
		'+', '-', '~', ',', ';', '.', '/', '<', '>', '&', '|', '!', '?', '=':
		return true
	}
	return unicode.IsSpace(r)
}

// sanitizeTerms splits a raw query into literal lowercase search terms,
// discarding anything the underlying text-query syntax could interpret.
// Each surviving term is later matched as a prefix and all terms must
// match.
func sanitizeTerms(query string) []string {
	parts := strings.FieldsFunc(strings.ToLower(query), ftsSyntax)
	terms := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			terms = append(terms, part)
		}
	}
	return terms
}

// fallbackSnippet extracts an excerpt around the first case-insensitive
// occurrence of term in content, used when the index has no snippet
// support. Markup in the source is stripped and the remaining text
// escaped before the highlight markers are inserted.
func fallbackSnippet(content, term string) string {
	plain := strings.TrimSpace(stripMarkup.Sanitize(content))
	if plain == "" {
		return ""
	}

	idx, matchLen := foldIndex(plain, term)
	if idx < 0 {
		return truncateRunes(plain, 2*fallbackWindow)
	}

	start := idx - fallbackWindow
	if start < 0 {
		start = 0
	}
	end := idx + matchLen + fallbackWindow
	if end > len(plain) {
		end = len(plain)
	}
	// Never cut inside a multi-byte rune.
	for start > 0 && !utf8.RuneStart(plain[start]) {
		start--
	}
	for end < len(plain) && !utf8.RuneStart(plain[end]) {
		end++
	}

	var b strings.Builder
	if start > 0 {
		b.WriteString("...")
	}
	b.WriteString(plain[start:idx])
	b.WriteString(markOpen)
	b.WriteString(plain[idx : idx+matchLen])
	b.WriteString(markClose)
	b.WriteString(plain[idx+matchLen : end])
	if end < len(plain) {
		b.WriteString("...")
	}
	return b.String()
}

// foldIndex finds the first case-insensitive occurrence of term in s and
// returns its byte offset and matched length, both in s. Lowercasing can
// change a rune's byte length, so the match is located on the original
// text rather than on a lowered copy whose offsets may drift.
func foldIndex(s, term string) (int, int) {
	for i := range s {
		if n := foldPrefix(s[i:], term); n >= 0 {
			return i, n
		}
	}
	return -1, 0
}

// foldPrefix reports how many bytes at the start of s match term under
// simple case folding, or -1 when they diverge.
func foldPrefix(s, term string) int {
	n := 0
	for _, tr := range term {
		r, size := utf8.DecodeRuneInString(s[n:])
		if size == 0 || unicode.ToLower(r) != unicode.ToLower(tr) {
			return -1
		}
		n += size
	}
	return n
}

// truncateRunes bounds a plain-text excerpt without splitting runes.
func truncateRunes(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}
