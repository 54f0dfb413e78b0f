package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/registo-labs/registo/internal/core/domain"
	"github.com/registo-labs/registo/internal/core/ports/driven"
	"github.com/registo-labs/registo/internal/core/ports/driving"
	"github.com/registo-labs/registo/internal/logger"
)

// Ensure RecordsService implements the interface.
var _ driving.RecordService = (*RecordsService)(nil)

// Default pagination for listings.
const (
	defaultPage  = 1
	defaultLimit = 10
)

// RecordsService creates and reads documents and meetings. The sequence
// allocation for a new record happens inside the store's creation
// transaction; the service only resolves the numbering rule and validates
// input before the store is touched. Rules come from the allocator's
// registry, so custom types declared in configuration can create records
// the same way built-in ones do.
type RecordsService struct {
	documents    driven.DocumentStore
	meetings     driven.MeetingStore
	meetingTypes driven.MeetingTypeStore
	allocator    *AllocatorService
}

// NewRecordsService creates a new records service.
func NewRecordsService(
	documents driven.DocumentStore,
	meetings driven.MeetingStore,
	meetingTypes driven.MeetingTypeStore,
	allocator *AllocatorService,
) *RecordsService {
	return &RecordsService{
		documents:    documents,
		meetings:     meetings,
		meetingTypes: meetingTypes,
		allocator:    allocator,
	}
}

// CreateDocument validates the draft and persists it with a freshly
// allocated number.
func (s *RecordsService) CreateDocument(ctx context.Context, draft domain.DocumentDraft) (*domain.Document, error) {
	rule, err := s.allocator.Rule(ctx, string(draft.Type))
	if err != nil {
		return nil, err
	}
	if draft.CreatedAt.IsZero() {
		draft.CreatedAt = time.Now().UTC()
	}

	doc, err := s.documents.Create(ctx, draft, rule)
	if err != nil {
		return nil, fmt.Errorf("creating document: %w", err)
	}

	logger.Info("Created document %s", doc.Identifier)
	return doc, nil
}

// GetDocument retrieves a document by ID.
func (s *RecordsService) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	doc, err := s.documents.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting document: %w", err)
	}
	return doc, nil
}

// ListDocuments returns documents newest-first with the total count.
func (s *RecordsService) ListDocuments(ctx context.Context, typ domain.DocumentType, page, limit int) ([]domain.Document, int, error) {
	if typ != "" {
		if _, err := s.allocator.Rule(ctx, string(typ)); err != nil {
			return nil, 0, err
		}
	}
	page, limit = normalizePage(page, limit)

	docs, total, err := s.documents.List(ctx, typ, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("listing documents: %w", err)
	}
	return docs, total, nil
}

// CreateMeeting validates the draft and persists it with a freshly
// allocated number under its meeting type's annual bucket.
func (s *RecordsService) CreateMeeting(ctx context.Context, draft domain.MeetingDraft) (*domain.Meeting, error) {
	mt, err := s.meetingTypes.Get(ctx, draft.MeetingTypeID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: meeting type %q", domain.ErrUnknownRecordType, draft.MeetingTypeID)
		}
		return nil, fmt.Errorf("resolving meeting type: %w", err)
	}
	if draft.Date.IsZero() {
		return nil, fmt.Errorf("%w: meeting date is required", domain.ErrInvalidArgument)
	}

	rule, err := s.allocator.Rule(ctx, mt.Code)
	if err != nil {
		return nil, fmt.Errorf("resolving numbering rule: %w", err)
	}

	meeting, err := s.meetings.Create(ctx, draft, rule)
	if err != nil {
		return nil, fmt.Errorf("creating meeting: %w", err)
	}

	logger.Info("Created meeting %s", meeting.Identifier)
	return meeting, nil
}

// GetMeeting retrieves a meeting by ID.
func (s *RecordsService) GetMeeting(ctx context.Context, id string) (*domain.Meeting, error) {
	meeting, err := s.meetings.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("getting meeting: %w", err)
	}
	return meeting, nil
}

// ListMeetings returns meetings by date descending with the total count.
func (s *RecordsService) ListMeetings(ctx context.Context, page, limit int) ([]domain.Meeting, int, error) {
	page, limit = normalizePage(page, limit)

	meetings, total, err := s.meetings.List(ctx, page, limit)
	if err != nil {
		return nil, 0, fmt.Errorf("listing meetings: %w", err)
	}
	return meetings, total, nil
}

// MeetingTypes lists the registered meeting types.
func (s *RecordsService) MeetingTypes(ctx context.Context) ([]domain.MeetingType, error) {
	types, err := s.meetingTypes.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing meeting types: %w", err)
	}
	return types, nil
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = defaultPage
	}
	if limit < 1 {
		limit = defaultLimit
	}
	return page, limit
}
