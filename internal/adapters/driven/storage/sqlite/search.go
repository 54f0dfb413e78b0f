package sqlite

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/registo-labs/registo/internal/core/domain"
	"github.com/registo-labs/registo/internal/core/ports/driven"
)

var _ driven.SearchIndex = (*searchIndex)(nil)

// searchIndex is the FTS5-backed implementation of driven.SearchIndex.
// It only ever sees sanitized terms; query-syntax neutralization happens
// in the search service, never here.
type searchIndex struct {
	store *Store
}

// Search runs the combined text and filter query. With terms present the
// hits come out of FTS5 with bm25 scores and engine snippets; without
// terms it is a plain filtered listing over the projection table.
func (s *searchIndex) Search(ctx context.Context, q driven.IndexQuery) ([]driven.IndexHit, error) {
	var (
		query string
		args  []any
		where []string
	)

	if len(q.Terms) > 0 {
		// Each term is a quoted prefix phrase; all must match.
		match := make([]string, len(q.Terms))
		for i, term := range q.Terms {
			match[i] = fmt.Sprintf("\"%s\"*", strings.ReplaceAll(term, `"`, ""))
		}

		// bm25 is smaller-is-better; negate so higher is better.
		query = `
			SELECT r.record_id, r.kind, r.type_code, r.identifier, r.title,
			       r.record_date, r.body,
			       -bm25(search_fts) AS score,
			       snippet(search_fts, 0, '<mark>', '</mark>', '...', 32) AS excerpt
			FROM search_fts
			JOIN search_records r ON r.rowid = search_fts.rowid
		`
		where = append(where, "search_fts MATCH ?")
		args = append(args, strings.Join(match, " AND "))
	} else {
		query = `
			SELECT r.record_id, r.kind, r.type_code, r.identifier, r.title,
			       r.record_date, r.body,
			       0.0 AS score,
			       '' AS excerpt
			FROM search_records r
		`
	}

	if q.TypeCode != "" {
		where = append(where, "r.type_code = ?")
		args = append(args, q.TypeCode)
	}
	// record_date is YYYY-MM-DD, so lexicographic comparison is date
	// comparison.
	if !q.DateFrom.IsZero() {
		where = append(where, "r.record_date >= ?")
		args = append(args, q.DateFrom.Format("2006-01-02"))
	}
	if !q.DateTo.IsZero() {
		where = append(where, "r.record_date <= ?")
		args = append(args, q.DateTo.Format("2006-01-02"))
	}

	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY " + orderClause(q.SortBy, q.SortOrder)

	if q.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, q.Limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("searching records: %w", err)
	}
	defer rows.Close()

	hits := []driven.IndexHit{}
	for rows.Next() {
		var (
			hit  driven.IndexHit
			kind string
			date string
		)
		if err := rows.Scan(&hit.RecordID, &kind, &hit.TypeCode, &hit.Identifier,
			&hit.Title, &date, &hit.Content, &hit.Score, &hit.Snippet); err != nil {
			return nil, fmt.Errorf("scanning search hit: %w", err)
		}
		hit.Kind = domain.RecordKind(kind)
		if hit.Date, err = time.Parse("2006-01-02", date); err != nil {
			return nil, fmt.Errorf("parsing record date %q: %w", date, err)
		}
		hits = append(hits, hit)
	}
	return hits, rows.Err()
}

// orderClause maps the sort selection to SQL. Relevance ignores the
// direction and always puts the best match first; ties and the no-text
// case fall back to newest-first.
func orderClause(sortBy domain.SortBy, order domain.SortOrder) string {
	dir := "DESC"
	if order == domain.SortAsc {
		dir = "ASC"
	}
	switch sortBy {
	case domain.SortByIdentifier:
		return "r.identifier " + dir
	case domain.SortByDate:
		return "r.record_date " + dir + ", r.identifier " + dir
	default:
		return "score DESC, r.record_date DESC"
	}
}
