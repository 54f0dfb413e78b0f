package driven

import (
	"context"

	"github.com/registo-labs/registo/internal/core/domain"
)

// SequenceStore issues gapless sequence numbers.
//
// Next must be a single indivisible create-if-absent-else-increment against
// the store: under N concurrent calls for the same key it issues exactly N
// distinct, contiguous numbers. Implementations must not read then write in
// two steps without a row lock or equivalent atomic primitive. Counters are
// never cached in memory; they live only in the store so they survive
// multi-instance deployment and reflect rolled-back transactions.
type SequenceStore interface {
	// Next issues the next number for the bucket. A fresh bucket starts at
	// the type's configured starting number (default 1), read in the same
	// transaction; an existing bucket increments by exactly one.
	Next(ctx context.Context, key domain.SequenceKey) (int, error)

	// Current returns the highest issued number for the bucket, or false
	// if the bucket has never allocated.
	Current(ctx context.Context, key domain.SequenceKey) (int, bool, error)
}

// SettingsStore holds the administrator-configured starting numbers.
// Mutated only by the settings surface; the allocator reads it exactly once
// per bucket, inside the transaction that creates the counter row.
type SettingsStore interface {
	// StartingNumber returns the override for a type, or false if none is
	// configured.
	StartingNumber(ctx context.Context, typeCode string) (int, bool, error)

	// SetStartingNumber configures the override for a type. It affects only
	// buckets created after the call.
	SetStartingNumber(ctx context.Context, typeCode string, n int) error

	// List returns all configured overrides.
	List(ctx context.Context) ([]domain.SequenceSettings, error)
}
