package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/registo-labs/registo/internal/core/domain"
	"github.com/registo-labs/registo/internal/core/ports/driven"
)

// Ensure interfaces are implemented.
var (
	_ driven.DocumentStore    = (*DocumentStore)(nil)
	_ driven.MeetingStore     = (*MeetingStore)(nil)
	_ driven.MeetingTypeStore = (*MeetingTypeStore)(nil)
)

// DocumentStore is an in-memory implementation of driven.DocumentStore.
type DocumentStore struct {
	mu        sync.RWMutex
	docs      map[string]domain.Document
	sequences *SequenceStore
	index     *SearchIndex
}

// NewDocumentStore creates an in-memory document store. The index may be
// nil when search is not under test.
func NewDocumentStore(sequences *SequenceStore, index *SearchIndex) *DocumentStore {
	return &DocumentStore{
		docs:      make(map[string]domain.Document),
		sequences: sequences,
		index:     index,
	}
}

// Create allocates the next number and inserts the document.
func (s *DocumentStore) Create(ctx context.Context, draft domain.DocumentDraft, rule domain.NumberingRule) (*domain.Document, error) {
	key := rule.Key(draft.CreatedAt)
	number, err := s.sequences.Next(ctx, key)
	if err != nil {
		return nil, err
	}

	doc := domain.Document{
		ID:         uuid.NewString(),
		Type:       draft.Type,
		Number:     number,
		Identifier: domain.FormatIdentifier(rule, number, key.Year),
		Content:    draft.Content,
		CreatedBy:  draft.CreatedBy,
		CreatedAt:  draft.CreatedAt,
		UpdatedAt:  draft.CreatedAt,
	}
	if rule.Annual {
		year := key.Year
		doc.Year = &year
	}

	s.mu.Lock()
	s.docs[doc.ID] = doc
	s.mu.Unlock()

	if s.index != nil {
		s.index.put(indexEntry{
			recordID:   doc.ID,
			kind:       domain.KindDocument,
			typeCode:   string(doc.Type),
			identifier: doc.Identifier,
			title:      doc.Identifier,
			date:       doc.CreatedAt,
			body:       doc.Content,
		})
	}
	return &doc, nil
}

// Get retrieves a document by ID.
func (s *DocumentStore) Get(_ context.Context, id string) (*domain.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &doc, nil
}

// List returns documents newest-first with the total count.
func (s *DocumentStore) List(_ context.Context, typ domain.DocumentType, page, limit int) ([]domain.Document, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		if typ != "" && doc.Type != typ {
			continue
		}
		all = append(all, doc)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	return paginate(all, page, limit), len(all), nil
}

// MeetingStore is an in-memory implementation of driven.MeetingStore.
type MeetingStore struct {
	mu        sync.RWMutex
	meetings  map[string]domain.Meeting
	types     *MeetingTypeStore
	sequences *SequenceStore
	index     *SearchIndex
}

// NewMeetingStore creates an in-memory meeting store.
func NewMeetingStore(types *MeetingTypeStore, sequences *SequenceStore, index *SearchIndex) *MeetingStore {
	return &MeetingStore{
		meetings:  make(map[string]domain.Meeting),
		types:     types,
		sequences: sequences,
		index:     index,
	}
}

// Create allocates the next number and inserts the meeting.
func (s *MeetingStore) Create(ctx context.Context, draft domain.MeetingDraft, rule domain.NumberingRule) (*domain.Meeting, error) {
	mt, err := s.types.Get(ctx, draft.MeetingTypeID)
	if err != nil {
		return nil, err
	}

	key := rule.Key(draft.Date)
	number, err := s.sequences.Next(ctx, key)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	meeting := domain.Meeting{
		ID:            uuid.NewString(),
		MeetingTypeID: mt.ID,
		Type:          *mt,
		Number:        number,
		Year:          key.Year,
		Identifier:    domain.FormatIdentifier(rule, number, key.Year),
		Date:          draft.Date,
		StartTime:     draft.StartTime,
		EndTime:       draft.EndTime,
		Location:      draft.Location,
		Agenda:        draft.Agenda,
		Content:       draft.Content,
		ActionItems:   draft.ActionItems,
		CreatedBy:     draft.CreatedBy,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	s.mu.Lock()
	s.meetings[meeting.ID] = meeting
	s.mu.Unlock()

	if s.index != nil {
		s.index.put(indexEntry{
			recordID:   meeting.ID,
			kind:       domain.KindMeeting,
			typeCode:   mt.Code,
			identifier: meeting.Identifier,
			title:      firstNonEmpty(meeting.Location, meeting.Identifier),
			date:       meeting.Date,
			body:       searchableMeetingText(meeting),
		})
	}
	return &meeting, nil
}

// Get retrieves a meeting by ID.
func (s *MeetingStore) Get(_ context.Context, id string) (*domain.Meeting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meeting, ok := s.meetings[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &meeting, nil
}

// List returns meetings by date descending with the total count.
func (s *MeetingStore) List(_ context.Context, page, limit int) ([]domain.Meeting, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.Meeting, 0, len(s.meetings))
	for _, m := range s.meetings {
		all = append(all, m)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].Date.After(all[j].Date)
	})

	return paginate(all, page, limit), len(all), nil
}

// searchableMeetingText builds the flat text projection a meeting is
// indexed under: body, location, agenda items, attendees and follow-ups.
func searchableMeetingText(m domain.Meeting) string {
	var b strings.Builder
	b.WriteString(m.Content)
	b.WriteString(" ")
	b.WriteString(m.Location)
	for _, item := range m.Agenda.Items {
		b.WriteString(" ")
		b.WriteString(item.Title)
		b.WriteString(" ")
		b.WriteString(item.Description)
		b.WriteString(" ")
		b.WriteString(item.Content)
		for _, ai := range item.ActionItems {
			b.WriteString(" ")
			b.WriteString(ai.Description)
			b.WriteString(" ")
			b.WriteString(ai.Responsible)
		}
	}
	for _, name := range m.Agenda.AttendeeNames {
		b.WriteString(" ")
		b.WriteString(name)
	}
	for _, ai := range m.ActionItems {
		b.WriteString(" ")
		b.WriteString(ai.Description)
		b.WriteString(" ")
		b.WriteString(ai.Responsible)
	}
	return b.String()
}

// MeetingTypeStore is an in-memory implementation of driven.MeetingTypeStore.
type MeetingTypeStore struct {
	mu    sync.RWMutex
	types map[string]domain.MeetingType
}

// NewMeetingTypeStore creates an in-memory meeting type store.
func NewMeetingTypeStore() *MeetingTypeStore {
	return &MeetingTypeStore{types: make(map[string]domain.MeetingType)}
}

// Get retrieves a meeting type by ID.
func (s *MeetingTypeStore) Get(_ context.Context, id string) (*domain.MeetingType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	mt, ok := s.types[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &mt, nil
}

// GetByCode retrieves a meeting type by code.
func (s *MeetingTypeStore) GetByCode(_ context.Context, code string) (*domain.MeetingType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, mt := range s.types {
		if mt.Code == code {
			return &mt, nil
		}
	}
	return nil, domain.ErrNotFound
}

// List returns all meeting types.
func (s *MeetingTypeStore) List(_ context.Context) ([]domain.MeetingType, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.MeetingType, 0, len(s.types))
	for _, mt := range s.types {
		out = append(out, mt)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out, nil
}

// Save stores or updates a meeting type.
func (s *MeetingTypeStore) Save(_ context.Context, mt domain.MeetingType) error {
	if mt.ID == "" {
		mt.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[mt.ID] = mt
	return nil
}

func paginate[T any](items []T, page, limit int) []T {
	if limit <= 0 {
		return items
	}
	if page < 1 {
		page = 1
	}
	start := (page - 1) * limit
	if start >= len(items) {
		return []T{}
	}
	end := start + limit
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
