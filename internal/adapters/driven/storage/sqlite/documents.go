package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/registo-labs/registo/internal/core/domain"
	"github.com/registo-labs/registo/internal/core/ports/driven"
)

// Ensure interfaces are implemented.
var (
	_ driven.DocumentStore    = (*documentStore)(nil)
	_ driven.MeetingTypeStore = (*meetingTypeStore)(nil)
)

// isUniqueViolation reports whether err is a SQLite unique constraint
// failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// Timestamps are stored as UTC RFC3339 strings, which keeps their
// lexicographic order equal to their chronological order.
func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// documentStore is the SQLite-backed implementation of driven.DocumentStore.
type documentStore struct {
	store *Store
}

// Create allocates the next number and inserts the document in one
// transaction. A rollback releases nothing: the counter row mutation rolls
// back with the insert, so a failed creation never burns a number.
func (s *documentStore) Create(ctx context.Context, draft domain.DocumentDraft, rule domain.NumberingRule) (*domain.Document, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: beginning transaction: %v", domain.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	key := rule.Key(draft.CreatedAt)
	number, err := allocateNumber(ctx, tx, key)
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
	var year sql.NullInt64
	if rule.Annual {
		y := key.Year
		doc.Year = &y
		year = sql.NullInt64{Int64: int64(y), Valid: true}
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO documents (id, type_code, number, year, identifier, content, created_by, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, doc.ID, string(doc.Type), doc.Number, year, doc.Identifier, doc.Content, doc.CreatedBy,
		formatTime(doc.CreatedAt), formatTime(doc.UpdatedAt))
	if isUniqueViolation(err) {
		// The atomic upsert makes a duplicate number unreachable. Seeing
		// one means the counter and the records disagree; fail loudly.
		return nil, fmt.Errorf("%w: duplicate identifier %s", domain.ErrConsistency, doc.Identifier)
	}
	if err != nil {
		return nil, fmt.Errorf("inserting document: %w", err)
	}

	if err := upsertSearchRecord(ctx, tx, searchRecord{
		recordID:   doc.ID,
		kind:       domain.KindDocument,
		typeCode:   string(doc.Type),
		identifier: doc.Identifier,
		title:      doc.Identifier,
		date:       doc.CreatedAt,
		body:       doc.Content,
	}); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: committing document: %v", domain.ErrStoreUnavailable, err)
	}
	return &doc, nil
}

// Get retrieves a document by ID.
func (s *documentStore) Get(ctx context.Context, id string) (*domain.Document, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, type_code, number, year, identifier, content, created_by, created_at, updated_at
		FROM documents WHERE id = ?
	`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting document %s: %w", id, err)
	}
	return doc, nil
}

// List returns documents newest-first with the total count.
func (s *documentStore) List(ctx context.Context, typ domain.DocumentType, page, limit int) ([]domain.Document, int, error) {
	where := ""
	args := []any{}
	if typ != "" {
		where = "WHERE type_code = ?"
		args = append(args, string(typ))
	}

	var total int
	if err := s.store.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM documents "+where, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting documents: %w", err)
	}

	query := `
		SELECT id, type_code, number, year, identifier, content, created_by, created_at, updated_at
		FROM documents ` + where + `
		ORDER BY created_at DESC, number DESC
	`
	if limit > 0 {
		if page < 1 {
			page = 1
		}
		query += " LIMIT ? OFFSET ?"
		args = append(args, limit, (page-1)*limit)
	}

	rows, err := s.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("listing documents: %w", err)
	}
	defer rows.Close()

	docs := []domain.Document{}
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, total, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*domain.Document, error) {
	var (
		doc                  domain.Document
		typeCode             string
		year                 sql.NullInt64
		createdAt, updatedAt string
	)
	err := row.Scan(&doc.ID, &typeCode, &doc.Number, &year, &doc.Identifier,
		&doc.Content, &doc.CreatedBy, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	doc.Type = domain.DocumentType(typeCode)
	if year.Valid {
		y := int(year.Int64)
		doc.Year = &y
	}
	if doc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if doc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &doc, nil
}

// meetingTypeStore is the SQLite-backed implementation of driven.MeetingTypeStore.
type meetingTypeStore struct {
	store *Store
}

// Get retrieves a meeting type by ID.
func (s *meetingTypeStore) Get(ctx context.Context, id string) (*domain.MeetingType, error) {
	return s.getBy(ctx, "id", id)
}

// GetByCode retrieves a meeting type by code.
func (s *meetingTypeStore) GetByCode(ctx context.Context, code string) (*domain.MeetingType, error) {
	return s.getBy(ctx, "code", code)
}

func (s *meetingTypeStore) getBy(ctx context.Context, column, value string) (*domain.MeetingType, error) {
	var mt domain.MeetingType
	err := s.store.db.QueryRowContext(ctx,
		"SELECT id, code, name, description FROM meeting_types WHERE "+column+" = ?",
		value,
	).Scan(&mt.ID, &mt.Code, &mt.Name, &mt.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting meeting type by %s: %w", column, err)
	}
	return &mt, nil
}

// List returns all meeting types ordered by code.
func (s *meetingTypeStore) List(ctx context.Context) ([]domain.MeetingType, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT id, code, name, description FROM meeting_types ORDER BY code",
	)
	if err != nil {
		return nil, fmt.Errorf("listing meeting types: %w", err)
	}
	defer rows.Close()

	var out []domain.MeetingType
	for rows.Next() {
		var mt domain.MeetingType
		if err := rows.Scan(&mt.ID, &mt.Code, &mt.Name, &mt.Description); err != nil {
			return nil, fmt.Errorf("scanning meeting type: %w", err)
		}
		out = append(out, mt)
	}
	return out, rows.Err()
}

// Save stores or updates a meeting type.
func (s *meetingTypeStore) Save(ctx context.Context, mt domain.MeetingType) error {
	if mt.ID == "" {
		mt.ID = uuid.NewString()
	}
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO meeting_types (id, code, name, description)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			code = excluded.code,
			name = excluded.name,
			description = excluded.description
	`, mt.ID, mt.Code, mt.Name, mt.Description)
	if err != nil {
		return fmt.Errorf("saving meeting type %s: %w", mt.Code, err)
	}
	return nil
}

// searchRecord is one row of the searchable projection.
type searchRecord struct {
	recordID   string
	kind       domain.RecordKind
	typeCode   string
	identifier string
	title      string
	date       time.Time
	body       string
}

// upsertSearchRecord rewrites a record's projection row. The FTS triggers
// keep search_fts in step, so the index update commits or rolls back with
// the record itself. Markup is reduced to plain text before indexing.
func upsertSearchRecord(ctx context.Context, q querier, rec searchRecord) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO search_records (record_id, kind, type_code, identifier, title, record_date, body)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (record_id) DO UPDATE SET
			kind = excluded.kind,
			type_code = excluded.type_code,
			identifier = excluded.identifier,
			title = excluded.title,
			record_date = excluded.record_date,
			body = excluded.body
	`, rec.recordID, string(rec.kind), rec.typeCode, rec.identifier, rec.title,
		rec.date.Format("2006-01-02"), stripMarkup.Sanitize(rec.body))
	if err != nil {
		return fmt.Errorf("indexing record %s: %w", rec.identifier, err)
	}
	return nil
}
