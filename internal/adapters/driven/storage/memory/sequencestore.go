package memory

import (
	"context"
	"sync"

	"github.com/registo-labs/registo/internal/core/domain"
	"github.com/registo-labs/registo/internal/core/ports/driven"
)

// Ensure interfaces are implemented.
var (
	_ driven.SequenceStore = (*SequenceStore)(nil)
	_ driven.SettingsStore = (*SettingsStore)(nil)
)

// SettingsStore is an in-memory implementation of driven.SettingsStore.
type SettingsStore struct {
	mu        sync.RWMutex
	overrides map[string]int
}

// NewSettingsStore creates an empty in-memory settings store.
func NewSettingsStore() *SettingsStore {
	return &SettingsStore{overrides: make(map[string]int)}
}

// StartingNumber returns the override for a type, or false if none.
func (s *SettingsStore) StartingNumber(_ context.Context, typeCode string) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.overrides[typeCode]
	return n, ok, nil
}

// SetStartingNumber configures the override for a type.
func (s *SettingsStore) SetStartingNumber(_ context.Context, typeCode string, n int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.overrides[typeCode] = n
	return nil
}

// List returns all configured overrides.
func (s *SettingsStore) List(_ context.Context) ([]domain.SequenceSettings, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SequenceSettings, 0, len(s.overrides))
	for code, n := range s.overrides {
		out = append(out, domain.SequenceSettings{TypeCode: code, StartingNumber: n})
	}
	return out, nil
}

// SequenceStore is an in-memory implementation of driven.SequenceStore.
// A single mutex stands in for the database's row-level atomic upsert:
// the read of the override and the create-or-increment happen under one
// critical section, so concurrent callers observe a gapless sequence.
type SequenceStore struct {
	mu       sync.Mutex
	counters map[domain.SequenceKey]int
	settings *SettingsStore
}

// NewSequenceStore creates an in-memory sequence store. The settings
// store supplies starting-number overrides; it may be nil.
func NewSequenceStore(settings *SettingsStore) *SequenceStore {
	return &SequenceStore{
		counters: make(map[domain.SequenceKey]int),
		settings: settings,
	}
}

// Next issues the next number for the bucket.
func (s *SequenceStore) Next(ctx context.Context, key domain.SequenceKey) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.counters[key]
	if !ok {
		start := domain.DefaultStartingNumber
		if s.settings != nil {
			if n, found, err := s.settings.StartingNumber(ctx, key.TypeCode); err == nil && found {
				start = n
			}
		}
		s.counters[key] = start
		return start, nil
	}

	current++
	s.counters[key] = current
	return current, nil
}

// Current returns the highest issued number for the bucket.
func (s *SequenceStore) Current(_ context.Context, key domain.SequenceKey) (int, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.counters[key]
	return n, ok, nil
}
