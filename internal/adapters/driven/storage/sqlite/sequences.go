package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/registo-labs/registo/internal/core/domain"
	"github.com/registo-labs/registo/internal/core/ports/driven"
)

// Ensure interfaces are implemented.
var (
	_ driven.SequenceStore = (*sequenceStore)(nil)
	_ driven.SettingsStore = (*settingsStore)(nil)
)

// querier is the subset of database/sql shared by *sql.DB and *sql.Tx,
// so allocation can run standalone or inside a creation transaction.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// allocateNumber issues the next number for a bucket. The whole
// create-or-increment runs as a single SQL statement, so concurrent
// allocations for the same bucket serialize inside SQLite and every one
// of them observes a distinct contiguous number. The starting-number
// override is read through the same querier, which inside a creation
// transaction means the same transaction.
func allocateNumber(ctx context.Context, q querier, key domain.SequenceKey) (int, error) {
	start := domain.DefaultStartingNumber
	var override int
	err := q.QueryRowContext(ctx,
		"SELECT starting_number FROM sequence_settings WHERE type_code = ?",
		key.TypeCode,
	).Scan(&override)
	switch {
	case err == nil:
		start = override
	case !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("reading starting number: %w", err)
	}

	var number int
	err = q.QueryRowContext(ctx, `
		INSERT INTO sequence_counters (type_code, year, current_number)
		VALUES (?, ?, ?)
		ON CONFLICT (type_code, year)
		DO UPDATE SET current_number = current_number + 1
		RETURNING current_number
	`, key.TypeCode, key.Year, start).Scan(&number)
	if err != nil {
		return 0, fmt.Errorf("allocating number for %s/%d: %w", key.TypeCode, key.Year, err)
	}
	return number, nil
}

// sequenceStore is the SQLite-backed implementation of driven.SequenceStore.
type sequenceStore struct {
	store *Store
}

// Next issues the next number for the bucket.
func (s *sequenceStore) Next(ctx context.Context, key domain.SequenceKey) (int, error) {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: beginning transaction: %v", domain.ErrStoreUnavailable, err)
	}
	defer tx.Rollback()

	number, err := allocateNumber(ctx, tx, key)
	if err != nil {
		return 0, err
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%w: committing allocation: %v", domain.ErrStoreUnavailable, err)
	}
	return number, nil
}

// Current returns the highest issued number for the bucket, or false if
// the bucket has never allocated.
func (s *sequenceStore) Current(ctx context.Context, key domain.SequenceKey) (int, bool, error) {
	var number int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT current_number FROM sequence_counters WHERE type_code = ? AND year = ?",
		key.TypeCode, key.Year,
	).Scan(&number)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading counter for %s/%d: %w", key.TypeCode, key.Year, err)
	}
	return number, true, nil
}

// settingsStore is the SQLite-backed implementation of driven.SettingsStore.
type settingsStore struct {
	store *Store
}

// StartingNumber returns the override for a type, or false if none is
// configured.
func (s *settingsStore) StartingNumber(ctx context.Context, typeCode string) (int, bool, error) {
	var n int
	err := s.store.db.QueryRowContext(ctx,
		"SELECT starting_number FROM sequence_settings WHERE type_code = ?",
		typeCode,
	).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("reading starting number for %s: %w", typeCode, err)
	}
	return n, true, nil
}

// SetStartingNumber configures the override for a type. Live buckets are
// untouched; only buckets created after the call observe the new value.
func (s *settingsStore) SetStartingNumber(ctx context.Context, typeCode string, n int) error {
	_, err := s.store.db.ExecContext(ctx, `
		INSERT INTO sequence_settings (type_code, starting_number)
		VALUES (?, ?)
		ON CONFLICT (type_code) DO UPDATE SET starting_number = excluded.starting_number
	`, typeCode, n)
	if err != nil {
		return fmt.Errorf("setting starting number for %s: %w", typeCode, err)
	}
	return nil
}

// List returns all configured overrides.
func (s *settingsStore) List(ctx context.Context) ([]domain.SequenceSettings, error) {
	rows, err := s.store.db.QueryContext(ctx,
		"SELECT type_code, starting_number FROM sequence_settings ORDER BY type_code",
	)
	if err != nil {
		return nil, fmt.Errorf("listing sequence settings: %w", err)
	}
	defer rows.Close()

	var out []domain.SequenceSettings
	for rows.Next() {
		var set domain.SequenceSettings
		if err := rows.Scan(&set.TypeCode, &set.StartingNumber); err != nil {
			return nil, fmt.Errorf("scanning sequence settings: %w", err)
		}
		out = append(out, set)
	}
	return out, rows.Err()
}
