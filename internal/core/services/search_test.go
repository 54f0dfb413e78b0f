package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registo-labs/registo/internal/adapters/driven/storage/memory"
	"github.com/registo-labs/registo/internal/core/domain"
	"github.com/registo-labs/registo/internal/core/ports/driven"
)

// failingIndex implements driven.SearchIndex and always errors.
type failingIndex struct{}

func (failingIndex) Search(context.Context, driven.IndexQuery) ([]driven.IndexHit, error) {
	return nil, errors.New("index offline")
}

// capturingIndex records the query it was given.
type capturingIndex struct {
	got  driven.IndexQuery
	hits []driven.IndexHit
}

func (c *capturingIndex) Search(_ context.Context, q driven.IndexQuery) ([]driven.IndexHit, error) {
	c.got = q
	return c.hits, nil
}

// seedMeetings indexes meetings through the memory store so the service
// sees the same projection the real store maintains.
func seedSearchFixtures(t *testing.T) (*SearchService, *memory.SearchIndex) {
	t.Helper()
	ctx := context.Background()

	index := memory.NewSearchIndex()
	types := memory.NewMeetingTypeStore()
	require.NoError(t, types.Save(ctx, domain.MeetingType{ID: "mt-ca", Code: "CA", Name: "Conselho"}))
	require.NoError(t, types.Save(ctx, domain.MeetingType{ID: "mt-rd", Code: "RD", Name: "Direção"}))
	meetings := memory.NewMeetingStore(types, memory.NewSequenceStore(nil), index)

	// One occurrence of "reunião", on the most recent date.
	_, err := meetings.Create(ctx, domain.MeetingDraft{
		MeetingTypeID: "mt-ca",
		Date:          time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Content:       "A reunião decorreu conforme previsto.",
	}, domain.MeetingType{Code: "CA"}.Rule())
	require.NoError(t, err)

	// Two occurrences of "reunião", on an earlier date.
	_, err = meetings.Create(ctx, domain.MeetingDraft{
		MeetingTypeID: "mt-ca",
		Date:          time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
		Content:       "A reunião anterior preparou esta reunião de direção.",
	}, domain.MeetingType{Code: "CA"}.Rule())
	require.NoError(t, err)

	// No occurrence at all.
	_, err = meetings.Create(ctx, domain.MeetingDraft{
		MeetingTypeID: "mt-rd",
		Date:          time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
		Content:       "Sessão ordinária sem pontos adicionais.",
	}, domain.MeetingType{Code: "RD"}.Rule())
	require.NoError(t, err)

	return NewSearchService(index), index
}

func TestSanitizeTerms(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "query syntax characters become boundaries",
			query: `foo:bar*"baz`,
			want:  []string{"foo", "bar", "baz"},
		},
		{
			name:  "whitespace split and lowercased",
			query: "  Reunião   Anual ",
			want:  []string{"reunião", "anual"},
		},
		{
			name:  "only punctuation yields no terms",
			query: `*:"()-`,
			want:  []string{},
		},
		{name: "empty query", query: "", want: []string{}},
		{
			name:  "identifier style query splits on separators",
			query: "OF-003/2025",
			want:  []string{"of", "003", "2025"},
		},
		{
			name:  "boolean operators are literal terms once lowered",
			query: `ponto AND ordem`,
			want:  []string{"ponto", "and", "ordem"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sanitizeTerms(tt.query))
		})
	}
}

func TestEffectiveSort(t *testing.T) {
	tests := []struct {
		name      string
		query     domain.SearchQuery
		hasTerms  bool
		wantBy    domain.SortBy
		wantOrder domain.SortOrder
	}{
		{
			name:      "relevance with terms is always best-first",
			query:     domain.SearchQuery{SortBy: domain.SortByRelevance, SortOrder: domain.SortAsc},
			hasTerms:  true,
			wantBy:    domain.SortByRelevance,
			wantOrder: domain.SortDesc,
		},
		{
			name:      "relevance without terms falls back to date descending",
			query:     domain.SearchQuery{SortBy: domain.SortByRelevance},
			hasTerms:  false,
			wantBy:    domain.SortByDate,
			wantOrder: domain.SortDesc,
		},
		{
			name:      "structured sort keeps direction",
			query:     domain.SearchQuery{SortBy: domain.SortByIdentifier, SortOrder: domain.SortAsc},
			hasTerms:  true,
			wantBy:    domain.SortByIdentifier,
			wantOrder: domain.SortAsc,
		},
		{
			name:      "unknown sort defaults to date descending",
			query:     domain.SearchQuery{SortBy: "rank"},
			hasTerms:  true,
			wantBy:    domain.SortByDate,
			wantOrder: domain.SortDesc,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			by, order := effectiveSort(tt.query, tt.hasTerms)
			assert.Equal(t, tt.wantBy, by)
			assert.Equal(t, tt.wantOrder, order)
		})
	}
}

func TestSearchService_RelevanceOrdering(t *testing.T) {
	svc, _ := seedSearchFixtures(t)

	results, err := svc.Search(context.Background(), domain.SearchQuery{
		Text:   "reunião",
		SortBy: domain.SortByRelevance,
	})
	require.NoError(t, err)

	// The non-matching record is excluded; the double occurrence wins.
	require.Len(t, results, 2)
	assert.Equal(t, "CA-002/2025", results[0].Identifier)
	assert.Equal(t, "CA-001/2025", results[1].Identifier)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchService_DateSortIgnoresFrequency(t *testing.T) {
	svc, _ := seedSearchFixtures(t)

	results, err := svc.Search(context.Background(), domain.SearchQuery{
		Text:      "reunião",
		SortBy:    domain.SortByDate,
		SortOrder: domain.SortDesc,
	})
	require.NoError(t, err)

	require.Len(t, results, 2)
	// Most recent first, even though it has fewer term occurrences.
	assert.Equal(t, "CA-001/2025", results[0].Identifier)
	assert.Equal(t, "CA-002/2025", results[1].Identifier)
}

func TestSearchService_EmptyQueryDegradesToListing(t *testing.T) {
	svc, _ := seedSearchFixtures(t)

	// Whitespace and punctuation only, plus a type filter: all records of
	// that type in the default date-descending order, no text predicate.
	results, err := svc.Search(context.Background(), domain.SearchQuery{
		Text:     `  *:" `,
		TypeCode: "CA",
	})
	require.NoError(t, err)

	require.Len(t, results, 2)
	assert.Equal(t, "CA-001/2025", results[0].Identifier)
	assert.Zero(t, results[0].Score)
	assert.Empty(t, results[0].Snippet)
}

func TestSearchService_EmptyQueryNoFilters(t *testing.T) {
	svc, _ := seedSearchFixtures(t)

	results, err := svc.Search(context.Background(), domain.SearchQuery{Text: "   "})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearchService_DateRangeFilter(t *testing.T) {
	svc, _ := seedSearchFixtures(t)

	results, err := svc.Search(context.Background(), domain.SearchQuery{
		Text:     "reunião",
		DateFrom: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)

	require.Len(t, results, 1)
	assert.Equal(t, "CA-001/2025", results[0].Identifier)
}

func TestSearchService_MalformedDateRange(t *testing.T) {
	svc := NewSearchService(failingIndex{})

	_, err := svc.Search(context.Background(), domain.SearchQuery{
		DateFrom: time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		DateTo:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	// Rejected before the index is touched.
	assert.ErrorIs(t, err, domain.ErrMalformedDateRange)
}

func TestSearchService_IndexErrorPropagates(t *testing.T) {
	svc := NewSearchService(failingIndex{})

	_, err := svc.Search(context.Background(), domain.SearchQuery{Text: "reunião"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "index offline")
}

func TestSearchService_ResultCap(t *testing.T) {
	ctx := context.Background()
	index := memory.NewSearchIndex()
	types := memory.NewMeetingTypeStore()
	require.NoError(t, types.Save(ctx, domain.MeetingType{ID: "mt-ca", Code: "CA"}))
	meetings := memory.NewMeetingStore(types, memory.NewSequenceStore(nil), index)

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 200; i++ {
		_, err := meetings.Create(ctx, domain.MeetingDraft{
			MeetingTypeID: "mt-ca",
			Date:          base.Add(time.Duration(i) * time.Hour),
			Content:       "ponto da ordem de trabalhos",
		}, domain.MeetingType{Code: "CA"}.Rule())
		require.NoError(t, err)
	}

	svc := NewSearchService(index)
	results, err := svc.Search(ctx, domain.SearchQuery{
		Text:      "ponto",
		SortBy:    domain.SortByDate,
		SortOrder: domain.SortDesc,
	})
	require.NoError(t, err)

	require.Len(t, results, domain.MaxSearchResults)
	// The cap keeps the latest records under a descending date sort.
	assert.Equal(t, base.Add(199*time.Hour), results[0].Date)
	assert.Equal(t, base.Add(150*time.Hour), results[len(results)-1].Date)
}

func TestSearchService_CapsOversizedIndexResponse(t *testing.T) {
	// An index that ignores the limit it was given must not breach the cap.
	hits := make([]driven.IndexHit, domain.MaxSearchResults+25)
	for i := range hits {
		hits[i] = driven.IndexHit{
			RecordID:   fmt.Sprintf("rec-%03d", i),
			Kind:       domain.KindDocument,
			Identifier: fmt.Sprintf("OF-%03d/2025", i+1),
			Score:      float64(len(hits) - i),
		}
	}
	svc := NewSearchService(&capturingIndex{hits: hits})

	results, err := svc.Search(context.Background(), domain.SearchQuery{Text: "ponto"})
	require.NoError(t, err)
	require.Len(t, results, domain.MaxSearchResults)
	assert.Equal(t, "OF-001/2025", results[0].Identifier)
}

func TestSearchService_PassesSanitizedQuery(t *testing.T) {
	index := &capturingIndex{}
	svc := NewSearchService(index)

	_, err := svc.Search(context.Background(), domain.SearchQuery{
		Text:     `plano:anual*"2025`,
		TypeCode: "CA",
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"plano", "anual", "2025"}, index.got.Terms)
	assert.Equal(t, "CA", index.got.TypeCode)
	assert.Equal(t, domain.MaxSearchResults, index.got.Limit)
	for _, term := range index.got.Terms {
		assert.False(t, strings.ContainsAny(term, `":*\`), "term %q leaked query syntax", term)
	}
}

func TestFallbackSnippet(t *testing.T) {
	t.Run("highlights first occurrence", func(t *testing.T) {
		got := fallbackSnippet("A reunião decorreu bem.", "reunião")
		assert.Equal(t, "A <mark>reunião</mark> decorreu bem.", got)
	})

	t.Run("window bounds long content", func(t *testing.T) {
		long := strings.Repeat("x", 500) + " reunião " + strings.Repeat("y", 500)
		got := fallbackSnippet(long, "reunião")
		assert.True(t, strings.HasPrefix(got, "..."))
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.Contains(t, got, "<mark>reunião</mark>")
		assert.LessOrEqual(t, len(got), 2*fallbackWindow+len("reunião")+len(markOpen)+len(markClose)+2*len("..."))
	})

	t.Run("markup is stripped before highlighting", func(t *testing.T) {
		got := fallbackSnippet(`<p>A <b>reunião</b> foi <script>alert(1)</script>adiada.</p>`, "reunião")
		assert.NotContains(t, got, "<p>")
		assert.NotContains(t, got, "<script>")
		assert.Contains(t, got, "<mark>reunião</mark>")
	})

	t.Run("case insensitive match", func(t *testing.T) {
		got := fallbackSnippet("REUNIÃO extraordinária", "reunião")
		assert.Contains(t, got, markOpen)
	})

	t.Run("length-changing case folds keep offsets aligned", func(t *testing.T) {
		// Lowering "İ" grows it from two bytes to three, so match offsets
		// must come from the original text, not a lowered copy.
		got := fallbackSnippet("İİİİ reunião marcada", "reunião")
		assert.Equal(t, "İİİİ <mark>reunião</mark> marcada", got)
	})

	t.Run("no occurrence truncates plainly", func(t *testing.T) {
		got := fallbackSnippet(fmt.Sprintf("%s fim", strings.Repeat("a ", 300)), "reunião")
		assert.NotContains(t, got, markOpen)
		assert.True(t, strings.HasSuffix(got, "..."))
	})
}
