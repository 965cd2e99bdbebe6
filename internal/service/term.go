package service

import (
	"context"
	"fmt"

	"github.com/avogt/rxminder/internal/domain"
	"github.com/avogt/rxminder/internal/notify"
	"github.com/avogt/rxminder/internal/repo"
)

// TermService exposes the schedule-term lookup table.
// Terms are seeded once at startup and read-only afterwards.
type TermService struct {
	repo repo.TermRepo
	hub  *notify.Hub
}

// NewTermService constructs a TermService backed by the provided TermRepo.
func NewTermService(r repo.TermRepo, hub *notify.Hub) *TermService {
	return &TermService{repo: r, hub: hub}
}

// Seed inserts the canonical term set when the table is empty.
// Called on every store-open; a no-op when terms already exist.
func (s *TermService) Seed(ctx context.Context) error {
	if err := s.repo.SeedIfEmpty(ctx); err != nil {
		return fmt.Errorf("service.TermService.Seed: %w", err)
	}
	if s.hub != nil {
		s.hub.Publish(notify.TermsChanged)
	}
	return nil
}

// List returns all terms ordered by sort_order ascending.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TermService) List(ctx context.Context) ([]domain.ScheduleTerm, error) {
	terms, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.TermService.List: %w", err)
	}
	if terms == nil {
		return []domain.ScheduleTerm{}, nil
	}
	return terms, nil
}
