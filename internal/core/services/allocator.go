package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/registo-labs/registo/internal/core/domain"
	"github.com/registo-labs/registo/internal/core/ports/driven"
	"github.com/registo-labs/registo/internal/core/ports/driving"
	"github.com/registo-labs/registo/internal/logger"
)

// Ensure AllocatorService implements the interface.
var _ driving.Allocator = (*AllocatorService)(nil)

// AllocatorService issues record identifiers. Numbering rules come from
// three registries: the built-in document types, the meeting type table,
// and optional custom types from configuration. The counters themselves
// live in the store; the service never caches a number.
type AllocatorService struct {
	sequences    driven.SequenceStore
	meetingTypes driven.MeetingTypeStore
	config       driven.ConfigStore
}

// NewAllocatorService creates a new allocator service.
// The config parameter is optional (can be nil).
func NewAllocatorService(
	sequences driven.SequenceStore,
	meetingTypes driven.MeetingTypeStore,
	config driven.ConfigStore,
) *AllocatorService {
	return &AllocatorService{
		sequences:    sequences,
		meetingTypes: meetingTypes,
		config:       config,
	}
}

// Rule resolves the numbering rule for a type code. Built-in document
// types win, then registered meeting types, then custom configured types.
// Unknown codes fail with domain.ErrUnknownRecordType.
func (s *AllocatorService) Rule(ctx context.Context, typeCode string) (domain.NumberingRule, error) {
	typeCode = strings.TrimSpace(typeCode)
	if typeCode == "" {
		return domain.NumberingRule{}, domain.ErrUnknownRecordType
	}

	if typ := domain.DocumentType(typeCode); typ.IsValid() {
		return typ.Rule(), nil
	}

	if s.meetingTypes != nil {
		mt, err := s.meetingTypes.GetByCode(ctx, typeCode)
		if err == nil {
			return mt.Rule(), nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return domain.NumberingRule{}, fmt.Errorf("resolving meeting type: %w", err)
		}
	}

	if rule, ok := s.configuredRule(typeCode); ok {
		return rule, nil
	}

	return domain.NumberingRule{}, fmt.Errorf("%w: %q", domain.ErrUnknownRecordType, typeCode)
}

// configuredRule looks up a custom type from configuration, keyed as
// types.<CODE>.prefix and types.<CODE>.annual.
func (s *AllocatorService) configuredRule(typeCode string) (domain.NumberingRule, bool) {
	if s.config == nil {
		return domain.NumberingRule{}, false
	}
	prefix := s.config.GetString("types." + typeCode + ".prefix")
	if prefix == "" {
		return domain.NumberingRule{}, false
	}
	return domain.NumberingRule{
		TypeCode: typeCode,
		Prefix:   prefix,
		Annual:   s.config.GetBool("types." + typeCode + ".annual"),
	}, true
}

// Allocate issues the next identifier for a record type.
func (s *AllocatorService) Allocate(ctx context.Context, typeCode string, createdAt time.Time) (domain.Identifier, error) {
	rule, err := s.Rule(ctx, typeCode)
	if err != nil {
		return domain.Identifier{}, err
	}

	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	key := rule.Key(createdAt)
	number, err := s.sequences.Next(ctx, key)
	if err != nil {
		return domain.Identifier{}, fmt.Errorf("allocating number for %s: %w", typeCode, err)
	}

	id := domain.Identifier{
		Number:     number,
		BucketYear: key.Year,
		Formatted:  domain.FormatIdentifier(rule, number, key.Year),
	}
	logger.Debug("Allocated %s (bucket %s/%d)", id.Formatted, key.TypeCode, key.Year)
	return id, nil
}
