package driven

import (
	"context"

	"github.com/registo-labs/registo/internal/core/domain"
)

// DocumentStore persists official documents.
// Backed by SQLite; creation runs the sequence allocation and the record
// insert in one transaction, so a failed insert never burns a number.
type DocumentStore interface {
	// Create allocates the next number under the rule's bucket and inserts
	// the document atomically. The returned document carries the allocated
	// number, year and formatted identifier.
	Create(ctx context.Context, draft domain.DocumentDraft, rule domain.NumberingRule) (*domain.Document, error)

	// Get retrieves a document by ID.
	Get(ctx context.Context, id string) (*domain.Document, error)

	// List returns documents ordered by creation time descending, with the
	// total count across all pages. An empty type lists all types.
	List(ctx context.Context, typ domain.DocumentType, page, limit int) ([]domain.Document, int, error)
}

// MeetingStore persists meeting minutes.
// Same transactional contract as DocumentStore: allocation and insert
// commit or roll back together.
type MeetingStore interface {
	// Create allocates the next number under the rule's bucket and inserts
	// the meeting atomically.
	Create(ctx context.Context, draft domain.MeetingDraft, rule domain.NumberingRule) (*domain.Meeting, error)

	// Get retrieves a meeting by ID.
	Get(ctx context.Context, id string) (*domain.Meeting, error)

	// List returns meetings ordered by date descending, with the total
	// count across all pages.
	List(ctx context.Context, page, limit int) ([]domain.Meeting, int, error)
}

// MeetingTypeStore manages the administrator-owned meeting type registry.
type MeetingTypeStore interface {
	// Get retrieves a meeting type by ID.
	Get(ctx context.Context, id string) (*domain.MeetingType, error)

	// GetByCode retrieves a meeting type by its code (e.g. "CA").
	GetByCode(ctx context.Context, code string) (*domain.MeetingType, error)

	// List returns all meeting types.
	List(ctx context.Context) ([]domain.MeetingType, error)

	// Save stores or updates a meeting type.
	Save(ctx context.Context, mt domain.MeetingType) error
}
