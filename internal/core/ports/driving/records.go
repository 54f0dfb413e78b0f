package driving

import (
	"context"
	"time"

	"github.com/registo-labs/registo/internal/core/domain"
)

// Allocator exposes sequence allocation to callers.
type Allocator interface {
	// Allocate issues the next identifier for a record type. The number is
	// consumed permanently once the enclosing transaction commits; a
	// rolled-back creation rolls the allocation back with it. Unknown
	// types are rejected with domain.ErrUnknownRecordType before any
	// store access.
	Allocate(ctx context.Context, typeCode string, createdAt time.Time) (domain.Identifier, error)
}

// RecordService creates and reads documents and meetings. Creation
// allocates the record's identifier inside the store transaction.
type RecordService interface {
	// CreateDocument validates the draft, allocates the next number for
	// its type and persists the document atomically.
	CreateDocument(ctx context.Context, draft domain.DocumentDraft) (*domain.Document, error)

	// GetDocument retrieves a document by ID.
	GetDocument(ctx context.Context, id string) (*domain.Document, error)

	// ListDocuments returns documents newest-first with the total count.
	// An empty type lists all types.
	ListDocuments(ctx context.Context, typ domain.DocumentType, page, limit int) ([]domain.Document, int, error)

	// CreateMeeting validates the draft, allocates the next number for
	// its meeting type and persists the meeting atomically.
	CreateMeeting(ctx context.Context, draft domain.MeetingDraft) (*domain.Meeting, error)

	// GetMeeting retrieves a meeting by ID.
	GetMeeting(ctx context.Context, id string) (*domain.Meeting, error)

	// ListMeetings returns meetings by date descending with the total count.
	ListMeetings(ctx context.Context, page, limit int) ([]domain.Meeting, int, error)

	// MeetingTypes lists the registered meeting types.
	MeetingTypes(ctx context.Context) ([]domain.MeetingType, error)
}

// SearchService answers free-text queries over stored records.
type SearchService interface {
	// Search returns at most domain.MaxSearchResults matching records in
	// the requested order, each with a relevance score and highlighted
	// snippet when a text query was given.
	Search(ctx context.Context, q domain.SearchQuery) ([]domain.SearchResult, error)
}

// SettingsService manages the administrator numbering settings.
type SettingsService interface {
	// StartingNumbers lists the configured overrides.
	StartingNumbers(ctx context.Context) ([]domain.SequenceSettings, error)

	// SetStartingNumber configures the starting number for a type.
	// Buckets that already issued numbers are unaffected.
	SetStartingNumber(ctx context.Context, typeCode string, n int) error
}
