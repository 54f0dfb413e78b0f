package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatIdentifier(t *testing.T) {
	tests := []struct {
		name       string
		rule       NumberingRule
		number     int
		bucketYear int
		want       string
	}{
		{
			name:       "annual type with year suffix",
			rule:       DocumentOficio.Rule(),
			number:     3,
			bucketYear: 2025,
			want:       "OF-003/2025",
		},
		{
			name:       "continuous type has no year suffix",
			rule:       DocumentOrdemServico.Rule(),
			number:     3,
			bucketYear: ContinuousYear,
			want:       "OS-003",
		},
		{
			name:       "zero padding stops at three digits",
			rule:       DocumentCircular.Rule(),
			number:     1234,
			bucketYear: 2025,
			want:       "CI-1234/2025",
		},
		{
			name:       "meeting type uses code as prefix",
			rule:       MeetingType{Code: "CA"}.Rule(),
			number:     7,
			bucketYear: 2026,
			want:       "CA-007/2026",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatIdentifier(tt.rule, tt.number, tt.bucketYear)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatIdentifier_Idempotent(t *testing.T) {
	rule := DocumentOficio.Rule()
	first := FormatIdentifier(rule, 12, 2025)
	second := FormatIdentifier(rule, 12, 2025)
	assert.Equal(t, first, second)
}

func TestNumberingRule_BucketYear(t *testing.T) {
	createdAt := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

	annual := DocumentOficio.Rule()
	assert.Equal(t, 2025, annual.BucketYear(createdAt))

	continuous := DocumentOrdemServico.Rule()
	assert.Equal(t, ContinuousYear, continuous.BucketYear(createdAt))

	// The same continuous type in a different year maps to the same bucket.
	later := createdAt.AddDate(1, 0, 0)
	assert.Equal(t, continuous.Key(createdAt), continuous.Key(later))

	// Annual buckets are isolated by year.
	assert.NotEqual(t, annual.Key(createdAt), annual.Key(later))
}

func TestNumberingRule_Key(t *testing.T) {
	createdAt := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	key := DocumentCircular.Rule().Key(createdAt)
	assert.Equal(t, SequenceKey{TypeCode: "CIRCULAR", Year: 2026}, key)

	key = DocumentOrdemServico.Rule().Key(createdAt)
	assert.Equal(t, SequenceKey{TypeCode: "ORDEM_SERVICO", Year: ContinuousYear}, key)
}
