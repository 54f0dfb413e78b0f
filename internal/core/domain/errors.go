package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument indicates malformed or invalid input.
	// Requests failing with this error were rejected before any store access.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnknownRecordType indicates a document or meeting type that is not
	// registered for numbering.
	ErrUnknownRecordType = fmt.Errorf("%w: unknown record type", ErrInvalidArgument)

	// ErrMalformedDateRange indicates a date filter that could not be parsed
	// or a range whose lower bound follows its upper bound.
	ErrMalformedDateRange = fmt.Errorf("%w: malformed date range", ErrInvalidArgument)

	// ErrStoreUnavailable indicates a transaction could not be started or
	// committed. Nothing was persisted.
	ErrStoreUnavailable = errors.New("record store unavailable")

	// ErrConsistency indicates a duplicate issued sequence number.
	// This should be unreachable while allocation goes through the store's
	// atomic upsert; observing it means the atomicity guarantee is broken
	// and the creation must fail loudly rather than self-correct.
	ErrConsistency = errors.New("sequence consistency violation")
)
