package services

import (
	"context"
	"fmt"

	"github.com/registo-labs/registo/internal/core/domain"
	"github.com/registo-labs/registo/internal/core/ports/driven"
	"github.com/registo-labs/registo/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages the administrator numbering settings. Setting a
// starting number only affects counter buckets created afterwards; a
// bucket that has already issued numbers keeps counting from where it is.
type SettingsService struct {
	settings  driven.SettingsStore
	allocator *AllocatorService
}

// NewSettingsService creates a new settings service.
func NewSettingsService(settings driven.SettingsStore, allocator *AllocatorService) *SettingsService {
	return &SettingsService{
		settings:  settings,
		allocator: allocator,
	}
}

// StartingNumbers lists the configured overrides.
func (s *SettingsService) StartingNumbers(ctx context.Context) ([]domain.SequenceSettings, error) {
	list, err := s.settings.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing starting numbers: %w", err)
	}
	return list, nil
}

// SetStartingNumber configures the starting number for a record type.
func (s *SettingsService) SetStartingNumber(ctx context.Context, typeCode string, n int) error {
	if n < 1 {
		return fmt.Errorf("%w: starting number must be at least 1", domain.ErrInvalidArgument)
	}
	if _, err := s.allocator.Rule(ctx, typeCode); err != nil {
		return err
	}

	if err := s.settings.SetStartingNumber(ctx, typeCode, n); err != nil {
		return fmt.Errorf("setting starting number: %w", err)
	}
	return nil
}
