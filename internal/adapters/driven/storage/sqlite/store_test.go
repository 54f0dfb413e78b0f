package sqlite

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/registo-labs/registo/internal/core/domain"
)

// setupTestStore creates a temporary SQLite store for testing.
func setupTestStore(t *testing.T) (*Store, func()) {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "registo-test-*")
	require.NoError(t, err)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NotNil(t, store)

	cleanup := func() {
		assert.NoError(t, store.Close())
		assert.NoError(t, os.RemoveAll(tempDir))
	}

	return store, cleanup
}

// createTestDocument inserts a document with the given type and creation
// time, returning the persisted record.
func createTestDocument(t *testing.T, store *Store, typ domain.DocumentType, createdAt time.Time, content string) *domain.Document {
	t.Helper()
	doc, err := store.DocumentStore().Create(context.Background(), domain.DocumentDraft{
		Type:      typ,
		Content:   content,
		CreatedBy: "Teresa Pinto",
		CreatedAt: createdAt,
	}, typ.Rule())
	require.NoError(t, err)
	return doc
}

// createTestMeeting inserts a meeting of the seeded CA type on the given
// date, returning the persisted record.
func createTestMeeting(t *testing.T, store *Store, date time.Time, content string) *domain.Meeting {
	t.Helper()
	ctx := context.Background()

	mt, err := store.MeetingTypeStore().GetByCode(ctx, "CA")
	require.NoError(t, err)

	meeting, err := store.MeetingStore().Create(ctx, domain.MeetingDraft{
		MeetingTypeID: mt.ID,
		Date:          date,
		Location:      "Sede do Agrupamento",
		Content:       content,
		CreatedBy:     "Teresa Pinto",
	}, mt.Rule())
	require.NoError(t, err)
	return meeting
}

func TestNewStore(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	assert.NotEmpty(t, store.Path())
	assert.FileExists(t, store.Path())
}

func TestStoreSeedsDefaultMeetingTypes(t *testing.T) {
	store, cleanup := setupTestStore(t)
	defer cleanup()

	types, err := store.MeetingTypeStore().List(context.Background())
	require.NoError(t, err)
	require.Len(t, types, 2)
	assert.Equal(t, "CA", types[0].Code)
	assert.Equal(t, "RD", types[1].Code)
}

func TestMigrationsAreIdempotent(t *testing.T) {
	tempDir, err := os.MkdirTemp("", "registo-test-*")
	require.NoError(t, err)
	defer os.RemoveAll(tempDir)

	store, err := NewStore(tempDir)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Reopening runs migrate again against the same file.
	store, err = NewStore(tempDir)
	require.NoError(t, err)
	defer store.Close()

	var version int
	err = store.db.QueryRow("SELECT MAX(version) FROM schema_migrations").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, 1, version)
}
