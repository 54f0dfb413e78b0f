package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/registo-labs/registo/internal/core/domain"
)

var (
	docCreateType    string
	docCreateContent string
	docCreateAuthor  string
	docCreateDate    string
	docListType      string
	docListPage      int
	docListLimit     int
	docListJSON      bool
)

var documentCmd = &cobra.Command{
	Use:   "document",
	Short: "Manage official documents",
	Long: `Create and browse numbered official documents.

Built-in types:
  OFICIO         - formal letter, numbered annually (OF-001/2025)
  CIRCULAR       - internal circular, numbered annually (CI-001/2025)
  ORDEM_SERVICO  - service order, one continuous sequence (OS-001)`,
}

var documentCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a document with the next number of its type",
	RunE:  runDocumentCreate,
}

var documentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List documents, newest first",
	RunE:  runDocumentList,
}

var documentShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show a document",
	Args:  cobra.ExactArgs(1),
	RunE:  runDocumentShow,
}

func init() {
	documentCreateCmd.Flags().StringVarP(&docCreateType, "type", "t", "", "document type (required)")
	documentCreateCmd.Flags().StringVarP(&docCreateContent, "content", "c", "", "document body")
	documentCreateCmd.Flags().StringVar(&docCreateAuthor, "author", "", "author display name")
	documentCreateCmd.Flags().StringVar(&docCreateDate, "date", "", "creation date as YYYY-MM-DD (default today)")
	_ = documentCreateCmd.MarkFlagRequired("type")

	documentListCmd.Flags().StringVarP(&docListType, "type", "t", "", "filter by document type")
	documentListCmd.Flags().IntVar(&docListPage, "page", 1, "page number")
	documentListCmd.Flags().IntVar(&docListLimit, "limit", 10, "results per page")
	documentListCmd.Flags().BoolVar(&docListJSON, "json", false, "output as JSON")

	documentCmd.AddCommand(documentCreateCmd)
	documentCmd.AddCommand(documentListCmd)
	documentCmd.AddCommand(documentShowCmd)
	rootCmd.AddCommand(documentCmd)
}

func runDocumentCreate(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	draft := domain.DocumentDraft{
		Type:      domain.DocumentType(docCreateType),
		Content:   docCreateContent,
		CreatedBy: docCreateAuthor,
	}
	if docCreateDate != "" {
		createdAt, err := time.Parse("2006-01-02", docCreateDate)
		if err != nil {
			return fmt.Errorf("%w: date %q is not YYYY-MM-DD", domain.ErrInvalidArgument, docCreateDate)
		}
		draft.CreatedAt = createdAt
	}

	doc, err := recordService.CreateDocument(cmd.Context(), draft)
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}

	cmd.Printf("Created %s (%s)\n", doc.Identifier, doc.Type.Label())
	cmd.Printf("ID: %s\n", doc.ID)
	return nil
}

func runDocumentList(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	docs, total, err := recordService.ListDocuments(cmd.Context(),
		domain.DocumentType(docListType), docListPage, docListLimit)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	if docListJSON {
		return outputJSON(cmd, docs)
	}

	if len(docs) == 0 {
		cmd.Println("No documents found.")
		return nil
	}

	cmd.Printf("Documents (%d total):\n\n", total)
	for i := range docs {
		cmd.Printf("  %-14s %s  %s\n", docs[i].Identifier,
			docs[i].CreatedAt.Format("2006-01-02"), docs[i].Type.Label())
	}
	return nil
}

func runDocumentShow(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	doc, err := recordService.GetDocument(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get document: %w", err)
	}

	cmd.Printf("%s (%s)\n", doc.Identifier, doc.Type.Label())
	cmd.Printf("Created: %s", doc.CreatedAt.Format("2006-01-02"))
	if doc.CreatedBy != "" {
		cmd.Printf(" by %s", doc.CreatedBy)
	}
	cmd.Println()
	if doc.Content != "" {
		cmd.Println()
		cmd.Println(doc.Content)
	}
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}
