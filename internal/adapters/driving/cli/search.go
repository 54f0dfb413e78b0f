package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/registo-labs/registo/internal/core/domain"
)

var (
	searchType  string
	searchFrom  string
	searchTo    string
	searchSort  string
	searchOrder string
	searchJSON  bool
)

// highlightStyle renders the matched terms inside snippets.
var highlightStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search meetings and documents",
	Long: `Full-text search across meeting minutes and official documents.
Terms match as prefixes and all terms must match. Without a query the
filters alone select records, sorted by date.

At most 50 results are returned; narrow the query or filters for more.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchType, "type", "t", "", "filter by record type code, e.g. OFICIO or CA")
	searchCmd.Flags().StringVar(&searchFrom, "from", "", "earliest record date as YYYY-MM-DD")
	searchCmd.Flags().StringVar(&searchTo, "to", "", "latest record date as YYYY-MM-DD")
	searchCmd.Flags().StringVar(&searchSort, "sort", "relevance", "sort by: relevance, date or identifier")
	searchCmd.Flags().StringVar(&searchOrder, "order", "desc", "sort order: asc or desc")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	query := domain.SearchQuery{
		TypeCode:  searchType,
		SortBy:    domain.SortBy(searchSort),
		SortOrder: domain.SortOrder(searchOrder),
	}
	if len(args) > 0 {
		query.Text = args[0]
	}
	if !query.SortBy.IsValid() {
		return fmt.Errorf("%w: sort %q", domain.ErrInvalidArgument, searchSort)
	}
	if !query.SortOrder.IsValid() {
		return fmt.Errorf("%w: order %q", domain.ErrInvalidArgument, searchOrder)
	}

	var err error
	if query.DateFrom, err = parseDateFlag(searchFrom); err != nil {
		return err
	}
	if query.DateTo, err = parseDateFlag(searchTo); err != nil {
		return err
	}

	results, err := searchService.Search(cmd.Context(), query)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputJSON(cmd, results)
	}
	return outputSearchResults(cmd, results)
}

// parseDateFlag parses a YYYY-MM-DD flag value; empty means unbounded.
func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not YYYY-MM-DD", domain.ErrMalformedDateRange, s)
	}
	return t, nil
}

func outputSearchResults(cmd *cobra.Command, results []domain.SearchResult) error {
	if len(results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (%d):\n\n", len(results))
	for i := range results {
		r := &results[i]
		header := fmt.Sprintf("  [%d] %s - %s (%s)", i+1, r.Identifier, r.Title, r.Date.Format("2006-01-02"))
		if r.Score > 0 {
			header += fmt.Sprintf(" %.2f", r.Score)
		}
		cmd.Println(header)
		if r.Snippet != "" {
			cmd.Printf("      %s\n", renderSnippet(r.Snippet))
		}
		cmd.Println()
	}
	return nil
}

// renderSnippet converts the <mark> markers of a snippet into terminal
// styling.
func renderSnippet(snippet string) string {
	var b strings.Builder
	rest := snippet
	for {
		open := strings.Index(rest, "<mark>")
		if open < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:open])
		rest = rest[open+len("<mark>"):]

		end := strings.Index(rest, "</mark>")
		if end < 0 {
			// Unbalanced marker, emit as-is.
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(highlightStyle.Render(rest[:end]))
		rest = rest[end+len("</mark>"):]
	}
}
