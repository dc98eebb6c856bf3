package service

import (
	"context"
	"strings"

	"github.com/spec-kit/msp-dashboard/internal/domain"
	"github.com/spec-kit/msp-dashboard/internal/repository"
	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

// PillarService manages the technology pillars work is grouped under.
type PillarService struct {
	pillars repository.PillarRepository
}

// PillarInput describes a pillar write. On update nil fields are left alone.
type PillarInput struct {
	Name      *string
	Color     *string
	SortOrder *int
	IsActive  *bool
}

func NewPillarService(pillars repository.PillarRepository) *PillarService {
	return &PillarService{pillars: pillars}
}

// ListPillars returns pillars in display order.
func (s *PillarService) ListPillars(ctx context.Context, includeInactive bool) ([]domain.Pillar, error) {
	return s.pillars.List(ctx, includeInactive)
}

func (s *PillarService) CreatePillar(ctx context.Context, input PillarInput) (*domain.Pillar, error) {
	pillar := &domain.Pillar{IsActive: true}
	if err := applyPillarInput(pillar, input); err != nil {
		return nil, err
	}
	if pillar.Name == "" {
		return nil, errorutil.NewValidationError("name is required", map[string]any{"name": "required"})
	}
	if err := s.pillars.Create(ctx, pillar); err != nil {
		return nil, err
	}
	return pillar, nil
}

func (s *PillarService) UpdatePillar(ctx context.Context, id string, input PillarInput) (*domain.Pillar, error) {
	pillar, err := s.pillars.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, "pillar")
	}
	if err := applyPillarInput(pillar, input); err != nil {
		return nil, err
	}
	if err := s.pillars.Update(ctx, pillar); err != nil {
		return nil, notFoundAs(err, "pillar")
	}
	return pillar, nil
}

func applyPillarInput(pillar *domain.Pillar, input PillarInput) error {
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return errorutil.NewValidationError("name is required", map[string]any{"name": "required"})
		}
		pillar.Name = name
	}
	if input.Color != nil {
		pillar.Color = trimmedOrNil(input.Color)
	}
	if input.SortOrder != nil {
		pillar.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		pillar.IsActive = *input.IsActive
	}
	return nil
}

// resolvePillars checks that every requested pillar exists. Duplicate ids
// collapse to one.
func resolvePillars(ctx context.Context, pillars repository.PillarRepository, ids []string) ([]domain.PillarRef, []string, error) {
	unique := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	if len(unique) == 0 {
		return []domain.PillarRef{}, unique, nil
	}
	refs, err := pillars.Resolve(ctx, unique)
	if err != nil {
		return nil, nil, err
	}
	if len(refs) != len(unique) {
		return nil, nil, errorutil.NewValidationError("unknown pillar", map[string]any{"pillarIds": "not found"})
	}
	return refs, unique, nil
}
