package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/avogt/rxminder/internal/domain"
	"github.com/avogt/rxminder/internal/notify"
	"github.com/avogt/rxminder/internal/repo"
)

// ActiveListService maintains the current active-prescription view.
// It is the subscriber side of the notify hub: whenever the prescription set
// or the term set changes, it rebuilds the projection wholesale and replaces
// the cached snapshot. Reads that arrive after the cached date has rolled
// over (past midnight, before any change event) rebuild on demand, so a
// consumer never sees a view older than the current date.
type ActiveListService struct {
	prescriptions repo.PrescriptionRepo
	terms         repo.TermRepo
	now           func() time.Time

	mu       sync.RWMutex
	snapshot []domain.Prescription
	asOf     string // date the snapshot was projected for; "" until first refresh
}

// NewActiveListService constructs an ActiveListService over the two repos the
// projection depends on.
func NewActiveListService(p repo.PrescriptionRepo, t repo.TermRepo) *ActiveListService {
	return &ActiveListService{prescriptions: p, terms: t, now: time.Now}
}

// Start subscribes to hub events and refreshes the view on each one until ctx
// is cancelled. Refresh failures are returned to nobody — the next event or
// the next Current call retries — so the goroutine only logs through the
// caller's error handling when refreshed synchronously.
func (s *ActiveListService) Start(ctx context.Context, hub *notify.Hub) {
	events := hub.Subscribe()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-events:
				// Any event means "rebuild from current state"; the
				// projection is pure, so a redundant rebuild is harmless.
				_ = s.Refresh(ctx)
			}
		}
	}()
}

// Refresh rebuilds the snapshot from current store state.
func (s *ActiveListService) Refresh(ctx context.Context) error {
	today := domain.FormatDate(s.now())

	prescriptions, err := s.prescriptions.List(ctx)
	if err != nil {
		return fmt.Errorf("service.ActiveListService.Refresh: %w", err)
	}
	terms, err := s.terms.List(ctx)
	if err != nil {
		return fmt.Errorf("service.ActiveListService.Refresh: %w", err)
	}

	view := ProjectActive(prescriptions, terms, today)

	s.mu.Lock()
	s.snapshot = view
	s.asOf = today
	s.mu.Unlock()
	return nil
}

// Current returns the active view for the current date, rebuilding first when
// the cached snapshot is missing or was projected for an earlier date.
// Always returns a non-nil slice.
func (s *ActiveListService) Current(ctx context.Context) ([]domain.Prescription, error) {
	today := domain.FormatDate(s.now())

	s.mu.RLock()
	fresh := s.asOf == today
	view := s.snapshot
	s.mu.RUnlock()

	if !fresh {
		if err := s.Refresh(ctx); err != nil {
			return nil, err
		}
		s.mu.RLock()
		view = s.snapshot
		s.mu.RUnlock()
	}

	if view == nil {
		return []domain.Prescription{}, nil
	}
	return view, nil
}
