package domain

import (
	"fmt"
	"time"
)

// ContinuousYear is the sentinel bucket year for record types whose
// numbering never resets annually. It sits outside the valid calendar
// range, so a continuous type keeps one global counter row forever.
const ContinuousYear = 0

// NumberingRule describes how a record type is numbered.
type NumberingRule struct {
	// TypeCode is the registered code of the record type (e.g. "OFICIO", "CA").
	TypeCode string

	// Prefix is the human-readable identifier prefix (e.g. "OF").
	Prefix string

	// Annual indicates the counter resets each calendar year.
	// Continuous types keep a single global sequence under ContinuousYear.
	Annual bool
}

// SequenceKey identifies one counter bucket: a record type plus either a
// calendar year or the ContinuousYear sentinel.
type SequenceKey struct {
	TypeCode string
	Year     int
}

// BucketYear returns the counter bucket for a record created at the given
// time under this rule.
func (r NumberingRule) BucketYear(createdAt time.Time) int {
	if !r.Annual {
		return ContinuousYear
	}
	return createdAt.Year()
}

// Key returns the sequence key for a record created at the given time.
func (r NumberingRule) Key(createdAt time.Time) SequenceKey {
	return SequenceKey{TypeCode: r.TypeCode, Year: r.BucketYear(createdAt)}
}

// Identifier is an allocated, formatted record identifier.
type Identifier struct {
	// Number is the issued sequence number, unique and gapless within
	// its (type, bucket year) counter.
	Number int

	// BucketYear is the counter bucket the number was issued under.
	// ContinuousYear for non-annual types.
	BucketYear int

	// Formatted is the human-readable identifier, e.g. "OF-003/2025".
	Formatted string
}

// FormatIdentifier renders the human-readable identifier for an allocated
// number. Annual types carry a "/year" suffix; continuous types do not.
// The function is pure and side-effect free.
func FormatIdentifier(rule NumberingRule, number, bucketYear int) string {
	if !rule.Annual || bucketYear == ContinuousYear {
		return fmt.Sprintf("%s-%03d", rule.Prefix, number)
	}
	return fmt.Sprintf("%s-%03d/%d", rule.Prefix, number, bucketYear)
}
