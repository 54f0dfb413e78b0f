package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// MeetingType is an administrator-managed meeting category. Its code is
// also the numbering prefix for meetings of that type (e.g. "CA-003/2025").
type MeetingType struct {
	ID          string
	Code        string
	Name        string
	Description string
}

// Rule returns the numbering rule for meetings of this type.
// Meeting numbering is always annual.
func (t MeetingType) Rule() NumberingRule {
	return NumberingRule{TypeCode: t.Code, Prefix: t.Code, Annual: true}
}

// ActionItem is a follow-up task recorded in meeting minutes.
type ActionItem struct {
	ID          string `json:"id,omitempty"`
	Description string `json:"description"`
	Responsible string `json:"responsible"`
	DueDate     string `json:"dueDate,omitempty"`
}

// AgendaItem is a single point of order in a meeting agenda.
type AgendaItem struct {
	ID          string       `json:"id,omitempty"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Content     string       `json:"content,omitempty"`
	ActionItems []ActionItem `json:"actionItems,omitempty"`
	Fixed       bool         `json:"fixed,omitempty"`
}

// Agenda is the canonical agenda shape. Historical records stored the
// agenda either as a bare item array or as an object that also carries
// attendee names and signing roles; NormalizeAgenda folds both into this
// one representation at the store boundary, so nothing downstream ever
// sees the union of shapes.
type Agenda struct {
	Items            []AgendaItem `json:"items"`
	AttendeeNames    []string     `json:"attendeeNames,omitempty"`
	ChefeAgrupamento string       `json:"chefeAgrupamento,omitempty"`
	Secretario       string       `json:"secretario,omitempty"`
}

// NormalizeAgenda parses a stored agenda value into the canonical Agenda.
// Accepted inputs: JSON null or empty, a plain array of agenda items
// (the legacy shape), or the object shape with items and metadata.
func NormalizeAgenda(raw []byte) (Agenda, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return Agenda{}, nil
	}

	// Legacy shape: bare array of items.
	var items []AgendaItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return Agenda{Items: items}, nil
	}

	var agenda Agenda
	if err := json.Unmarshal(raw, &agenda); err != nil {
		return Agenda{}, fmt.Errorf("%w: unrecognised agenda shape", ErrInvalidArgument)
	}
	return agenda, nil
}

// Meeting represents persisted meeting minutes.
type Meeting struct {
	ID string

	// MeetingTypeID references the MeetingType this meeting belongs to.
	MeetingTypeID string

	// Type is the resolved meeting type.
	Type MeetingType

	// Number is the allocated sequence number within (type code, year).
	Number int

	// Year is the numbering year, taken from the meeting date.
	Year int

	// Identifier is the formatted identifier, e.g. "CA-003/2025".
	Identifier string

	// Date is when the meeting took place.
	Date time.Time

	StartTime string
	EndTime   string
	Location  string

	// Agenda is the canonical normalized agenda.
	Agenda Agenda

	// Content is the minutes body as rich text.
	Content string

	// ActionItems are meeting-level follow-ups, separate from per-item ones.
	ActionItems []ActionItem

	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MeetingDraft is the input for creating a meeting. The number and
// identifier are allocated by the store inside the creation transaction.
type MeetingDraft struct {
	MeetingTypeID string
	Date          time.Time
	StartTime     string
	EndTime       string
	Location      string
	Agenda        Agenda
	Content       string
	ActionItems   []ActionItem
	CreatedBy     string
}
