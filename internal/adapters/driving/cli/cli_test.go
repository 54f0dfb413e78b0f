package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/registo-labs/registo/internal/adapters/driven/config/file"
	"github.com/registo-labs/registo/internal/adapters/driven/storage/memory"
	"github.com/registo-labs/registo/internal/core/domain"
	"github.com/registo-labs/registo/internal/core/services"
)

// testFixtures gives tests direct access to the in-memory stores behind
// the wired services.
type testFixtures struct {
	meetingTypes *memory.MeetingTypeStore
	documents    *memory.DocumentStore
	meetings     *memory.MeetingStore
}

// setupTestServices wires the commands to in-memory stores. The returned
// cleanup restores the unwired state.
func setupTestServices(t *testing.T) (*testFixtures, func()) {
	t.Helper()

	config, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	settings := memory.NewSettingsStore()
	sequences := memory.NewSequenceStore(settings)
	index := memory.NewSearchIndex()
	types := memory.NewMeetingTypeStore()
	documents := memory.NewDocumentStore(sequences, index)
	meetings := memory.NewMeetingStore(types, sequences, index)

	require.NoError(t, types.Save(context.Background(),
		domain.MeetingType{ID: "mt-ca", Code: "CA", Name: "Conselho de Agrupamento"}))

	allocator := services.NewAllocatorService(sequences, types, config)
	recordService = services.NewRecordsService(documents, meetings, types, allocator)
	searchService = services.NewSearchService(index)
	settingsService = services.NewSettingsService(settings, allocator)

	cleanup := func() {
		recordService = nil
		searchService = nil
		settingsService = nil
	}
	return &testFixtures{meetingTypes: types, documents: documents, meetings: meetings}, cleanup
}

// execute runs the root command with the given args and captures output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

// seedDocument creates a document through the wired service.
func seedDocument(t *testing.T, typ domain.DocumentType, createdAt time.Time, content string) *domain.Document {
	t.Helper()
	doc, err := recordService.CreateDocument(context.Background(), domain.DocumentDraft{
		Type:      typ,
		Content:   content,
		CreatedAt: createdAt,
	})
	require.NoError(t, err)
	return doc
}
