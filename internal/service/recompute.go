package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avogt/rxminder/internal/domain"
	"github.com/avogt/rxminder/internal/notify"
	"github.com/avogt/rxminder/internal/repo"
)

// RecomputeService runs the daily refresh of derived prescription flags.
// Run is idempotent and safe to invoke from any number of triggers — server
// start, the background scheduler, and the HTTP recompute endpoint — and a
// failed run can simply be re-run from scratch: the underlying statement
// rewrites every derived flag from the stored dates, assuming nothing about
// prior state.
type RecomputeService struct {
	repo repo.PrescriptionRepo
	hub  *notify.Hub
	now  func() time.Time
}

// NewRecomputeService constructs a RecomputeService backed by the provided repo.
func NewRecomputeService(r repo.PrescriptionRepo, hub *notify.Hub) *RecomputeService {
	return &RecomputeService{repo: r, hub: hub, now: time.Now}
}

// Run refreshes every prescription's is_active and has_received_today flags
// against the given ISO date. The two effects are applied in one atomic
// statement, so a same-day "mark received" racing with this call is never
// erased (the conditional keeps has_received_today when last_date_received
// equals today).
func (s *RecomputeService) Run(ctx context.Context, today string) error {
	if !domain.ValidDate(today) {
		return fmt.Errorf("service.RecomputeService.Run: %w: today must be a YYYY-MM-DD date", domain.ErrValidation)
	}
	if err := s.repo.DailyRecompute(ctx, today); err != nil {
		return fmt.Errorf("service.RecomputeService.Run: %w", err)
	}
	if s.hub != nil {
		s.hub.Publish(notify.PrescriptionsChanged)
	}
	return nil
}

// RunNow runs the recompute for the current date and returns the date used.
func (s *RecomputeService) RunNow(ctx context.Context) (string, error) {
	today := domain.FormatDate(s.now())
	if err := s.Run(ctx, today); err != nil {
		return "", err
	}
	return today, nil
}
