package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/registo-labs/registo/internal/core/domain"
	"github.com/registo-labs/registo/internal/core/ports/driven"
)

// Ensure the interface is implemented.
var _ driven.SearchIndex = (*SearchIndex)(nil)

// indexEntry is one record's searchable projection.
type indexEntry struct {
	recordID   string
	kind       domain.RecordKind
	typeCode   string
	identifier string
	title      string
	date       time.Time
	body       string
}

// SearchIndex is an in-memory implementation of driven.SearchIndex.
// It scans the projection linearly and scores by term occurrence count.
// It produces no engine snippets, which exercises the search service's
// client-side fallback exactly as a snippet-less store would.
type SearchIndex struct {
	mu      sync.RWMutex
	entries map[string]indexEntry
}

// NewSearchIndex creates an empty in-memory search index.
func NewSearchIndex() *SearchIndex {
	return &SearchIndex{entries: make(map[string]indexEntry)}
}

// put inserts or replaces a record's projection. Called by the record
// stores inside their creation path, mirroring the transactional index
// maintenance of the SQLite adapter.
func (s *SearchIndex) put(e indexEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[e.recordID] = e
}

// Search runs the combined text and filter query.
func (s *SearchIndex) Search(_ context.Context, q driven.IndexQuery) ([]driven.IndexHit, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	hits := make([]driven.IndexHit, 0)
	for _, e := range s.entries {
		if q.TypeCode != "" && e.typeCode != q.TypeCode {
			continue
		}
		if !q.DateFrom.IsZero() && e.date.Before(truncateDay(q.DateFrom)) {
			continue
		}
		if !q.DateTo.IsZero() && e.date.After(endOfDay(q.DateTo)) {
			continue
		}

		score := 0.0
		if len(q.Terms) > 0 {
			matched, occurrences := matchTerms(e, q.Terms)
			if !matched {
				continue
			}
			score = float64(occurrences)
		}

		hits = append(hits, driven.IndexHit{
			RecordID:   e.recordID,
			Kind:       e.kind,
			TypeCode:   e.typeCode,
			Identifier: e.identifier,
			Title:      e.title,
			Date:       e.date,
			Score:      score,
			Content:    e.body,
		})
	}

	sortHits(hits, q.SortBy, q.SortOrder)

	if q.Limit > 0 && len(hits) > q.Limit {
		hits = hits[:q.Limit]
	}
	return hits, nil
}

// matchTerms requires every term to occur in the entry's searchable text
// and returns the total occurrence count for scoring.
func matchTerms(e indexEntry, terms []string) (bool, int) {
	text := strings.ToLower(e.body + " " + e.title + " " + e.identifier)
	total := 0
	for _, term := range terms {
		n := strings.Count(text, term)
		if n == 0 {
			return false, 0
		}
		total += n
	}
	return true, total
}

func sortHits(hits []driven.IndexHit, sortBy domain.SortBy, order domain.SortOrder) {
	asc := order == domain.SortAsc
	sort.SliceStable(hits, func(i, j int) bool {
		switch sortBy {
		case domain.SortByRelevance:
			// Best match first regardless of direction.
			if hits[i].Score != hits[j].Score {
				return hits[i].Score > hits[j].Score
			}
			return hits[i].Date.After(hits[j].Date)
		case domain.SortByIdentifier:
			if asc {
				return hits[i].Identifier < hits[j].Identifier
			}
			return hits[i].Identifier > hits[j].Identifier
		default:
			if asc {
				return hits[i].Date.Before(hits[j].Date)
			}
			return hits[i].Date.After(hits[j].Date)
		}
	})
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
