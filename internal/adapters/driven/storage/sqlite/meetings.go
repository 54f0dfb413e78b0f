package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/registo-labs/registo/internal/core/domain"
	"github.com/registo-labs/registo/internal/core/ports/driven"
)

var _ driven.MeetingStore = (*meetingStore)(nil)

// meetingStore is the SQLite-backed implementation of driven.MeetingStore.
type meetingStore struct {
	store *Store
}

// Create allocates the next number and inserts the meeting in one
// transaction, under the same no-burned-numbers contract as documents.
func (s *meetingStore) Create(ctx context.Context, draft domain.MeetingDraft, rule domain.NumberingRule) (*domain.Meeting, error) {
	mt, err := s.store.MeetingTypeStore().Get(ctx, draft.MeetingTypeID)
	if err != nil {
		return nil, err
	}

	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: beginning transaction: %v", domain.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	key := rule.Key(draft.Date)
	number, err := allocateNumber(ctx, tx, key)
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

	agenda, err := json.Marshal(meeting.Agenda)
	if err != nil {
		return nil, fmt.Errorf("encoding agenda: %w", err)
	}
	actionItems := []byte(jsonNull)
	if meeting.ActionItems != nil {
		if actionItems, err = json.Marshal(meeting.ActionItems); err != nil {
			return nil, fmt.Errorf("encoding action items: %w", err)
		}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO meetings (id, meeting_type_id, number, year, identifier, date,
			start_time, end_time, location, agenda, content, action_items,
			created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, meeting.ID, meeting.MeetingTypeID, meeting.Number, meeting.Year, meeting.Identifier,
		formatTime(meeting.Date), meeting.StartTime, meeting.EndTime, meeting.Location,
		string(agenda), meeting.Content, string(actionItems),
		meeting.CreatedBy, formatTime(meeting.CreatedAt), formatTime(meeting.UpdatedAt))
	if isUniqueViolation(err) {
		return nil, fmt.Errorf("%w: duplicate identifier %s", domain.ErrConsistency, meeting.Identifier)
	}
	if err != nil {
		return nil, fmt.Errorf("inserting meeting: %w", err)
	}

	if err := upsertSearchRecord(ctx, tx, searchRecord{
		recordID:   meeting.ID,
		kind:       domain.KindMeeting,
		typeCode:   mt.Code,
		identifier: meeting.Identifier,
		title:      firstNonEmpty(meeting.Location, meeting.Identifier),
		date:       meeting.Date,
		body:       searchableMeetingText(meeting),
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing meeting: %v", domain.ErrStoreUnavailable, err)
	}
	return &meeting, nil
}

const meetingColumns = `
	m.id, m.meeting_type_id, m.number, m.year, m.identifier, m.date,
	m.start_time, m.end_time, m.location, m.agenda, m.content, m.action_items,
	m.created_by, m.created_at, m.updated_at,
	t.id, t.code, t.name, t.description
`

// Get retrieves a meeting by ID.
func (s *meetingStore) Get(ctx context.Context, id string) (*domain.Meeting, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT `+meetingColumns+`
		FROM meetings m JOIN meeting_types t ON t.id = m.meeting_type_id
		WHERE m.id = ?
	`, id)
	meeting, err := scanMeeting(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting meeting %s: %w", id, err)
	}
	return meeting, nil
}

// List returns meetings by date descending with the total count.
func (s *meetingStore) List(ctx context.Context, page, limit int) ([]domain.Meeting, int, error) {
	var total int
	if err := s.store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM meetings").Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting meetings: %w", err)
	}

	query := `
		SELECT ` + meetingColumns + `
		FROM meetings m JOIN meeting_types t ON t.id = m.meeting_type_id
		ORDER BY m.date DESC, m.number DESC
	`
	args := []any{}
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing meetings: %w", err)
	}
	defer rows.Close()

	meetings := []domain.Meeting{}
	for rows.Next() {
		meeting, err := scanMeeting(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning meeting: %w", err)
		}
		meetings = append(meetings, *meeting)
	}
	return meetings, total, rows.Err()
}

// scanMeeting reads one joined meeting row, normalizing the stored agenda
// into its canonical shape.
func scanMeeting(row rowScanner) (*domain.Meeting, error) {
	var (
		m                          domain.Meeting
		agenda                     string
		actionItems                string
		date, createdAt, updatedAt string
	)
	err := row.Scan(&m.ID, &m.MeetingTypeID, &m.Number, &m.Year, &m.Identifier, &date,
		&m.StartTime, &m.EndTime, &m.Location, &agenda, &m.Content, &actionItems,
		&m.CreatedBy, &createdAt, &updatedAt,
		&m.Type.ID, &m.Type.Code, &m.Type.Name, &m.Type.Description)
	if err != nil {
		return nil, err
	}
	if m.Date, err = parseTime(date); err != nil {
		return nil, err
	}
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if m.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	if m.Agenda, err = domain.NormalizeAgenda([]byte(agenda)); err != nil {
		return nil, err
	}
	if actionItems != "" && actionItems != jsonNull {
		if err := json.Unmarshal([]byte(actionItems), &m.ActionItems); err != nil {
			return nil, fmt.Errorf("%w: unrecognised action items", domain.ErrInvalidArgument)
		}
	}
	return &m, nil
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

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
