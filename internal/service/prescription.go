// Package service contains the business logic for the medication reminder API.
// Services validate inputs, enforce business rules, and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/avogt/rxminder/internal/domain"
	"github.com/avogt/rxminder/internal/notify"
	"github.com/avogt/rxminder/internal/repo"
)

// PrescriptionService implements business logic for prescription operations.
// Every successful mutation publishes notify.PrescriptionsChanged so derived
// views (the active list) can refresh.
type PrescriptionService struct {
	repo repo.PrescriptionRepo
	hub  *notify.Hub
	now  func() time.Time
}

// NewPrescriptionService constructs a PrescriptionService backed by the
// provided repo. hub may be nil when no observer needs change events (tests).
func NewPrescriptionService(r repo.PrescriptionRepo, hub *notify.Hub) *PrescriptionService {
	return &PrescriptionService{repo: r, hub: hub, now: time.Now}
}

// Create validates and persists a new prescription.
// The stored record starts inactive; the recompute engine flips is_active on
// its next run, so callers must not assume a fresh record is already active.
func (s *PrescriptionService) Create(ctx context.Context, p domain.Prescription) (domain.Prescription, error) {
	p.Name = strings.TrimSpace(p.Name)
	p.Description = strings.TrimSpace(p.Description)
	p.DoctorName = strings.TrimSpace(p.DoctorName)
	p.DoctorLocation = strings.TrimSpace(p.DoctorLocation)

	if err := validatePrescription(p); err != nil {
		return domain.Prescription{}, err
	}

	result, err := s.repo.Create(ctx, p)
	if err != nil {
		return domain.Prescription{}, fmt.Errorf("service.PrescriptionService.Create: %w", err)
	}
	s.publish()
	return result, nil
}

// GetByID returns a single prescription by ID.
// Returns domain.ErrNotFound if no prescription with that ID exists.
func (s *PrescriptionService) GetByID(ctx context.Context, id int64) (domain.Prescription, error) {
	result, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Prescription{}, fmt.Errorf("service.PrescriptionService.GetByID: %w", err)
	}
	return result, nil
}

// List returns all prescriptions, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PrescriptionService) List(ctx context.Context) ([]domain.Prescription, error) {
	prescriptions, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PrescriptionService.List: %w", err)
	}
	if prescriptions == nil {
		return []domain.Prescription{}, nil
	}
	return prescriptions, nil
}

// Update applies the non-nil fields of patch to an existing prescription and
// returns the number of rows affected (0 when the id does not exist).
// Patched dates are validated as a pair against the stored record so an
// update can never leave end_date before start_date.
func (s *PrescriptionService) Update(ctx context.Context, id int64, patch domain.PrescriptionPatch) (int64, error) {
	if patch.Empty() {
		return 0, fmt.Errorf("service.PrescriptionService.Update: %w: no fields to update", domain.ErrValidation)
	}
	if err := s.validatePatch(ctx, id, patch); err != nil {
		return 0, err
	}

	rows, err := s.repo.UpdateFields(ctx, id, patch)
	if err != nil {
		return 0, fmt.Errorf("service.PrescriptionService.Update: %w", err)
	}
	if rows > 0 {
		s.publish()
	}
	return rows, nil
}

// Delete removes a prescription by ID and returns the number of rows affected.
// Deleting a missing id affects 0 rows and is not an error.
func (s *PrescriptionService) Delete(ctx context.Context, id int64) (int64, error) {
	rows, err := s.repo.Delete(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("service.PrescriptionService.Delete: %w", err)
	}
	if rows > 0 {
		s.publish()
	}
	return rows, nil
}

// MarkReceivedToday records that the medication was taken today and returns
// the number of rows affected (0 when the id does not exist).
func (s *PrescriptionService) MarkReceivedToday(ctx context.Context, id int64) (int64, error) {
	today := domain.FormatDate(s.now())
	rows, err := s.repo.MarkReceivedToday(ctx, id, today)
	if err != nil {
		return 0, fmt.Errorf("service.PrescriptionService.MarkReceivedToday: %w", err)
	}
	if rows > 0 {
		s.publish()
	}
	return rows, nil
}

func (s *PrescriptionService) publish() {
	if s.hub != nil {
		s.hub.Publish(notify.PrescriptionsChanged)
	}
}

// validatePrescription enforces the creation rules:
//   - Name must be non-empty after trimming.
//   - Both dates must be well-formed ISO dates.
//   - EndDate must not be before StartDate.
//
// Fails fast, before any mutation is attempted.
func validatePrescription(p domain.Prescription) error {
	if p.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if !domain.ValidDate(p.StartDate) {
		return fmt.Errorf("%w: start_date must be a YYYY-MM-DD date", domain.ErrValidation)
	}
	if !domain.ValidDate(p.EndDate) {
		return fmt.Errorf("%w: end_date must be a YYYY-MM-DD date", domain.ErrValidation)
	}
	if p.EndDate < p.StartDate {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}

// validatePatch checks the fields a patch does carry. When only one date is
// patched, the other is read from the stored record so the pair invariant
// still holds. A patch against a missing id passes validation and falls
// through to the repo, which reports 0 rows affected.
func (s *PrescriptionService) validatePatch(ctx context.Context, id int64, patch domain.PrescriptionPatch) error {
	if patch.Name != nil && strings.TrimSpace(*patch.Name) == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if patch.StartDate != nil && !domain.ValidDate(*patch.StartDate) {
		return fmt.Errorf("%w: start_date must be a YYYY-MM-DD date", domain.ErrValidation)
	}
	if patch.EndDate != nil && !domain.ValidDate(*patch.EndDate) {
		return fmt.Errorf("%w: end_date must be a YYYY-MM-DD date", domain.ErrValidation)
	}

	if patch.StartDate == nil && patch.EndDate == nil {
		return nil
	}

	start, end := patch.StartDate, patch.EndDate
	if start == nil || end == nil {
		stored, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				// Missing id: let the repo report 0 rows affected.
				return nil
			}
			return fmt.Errorf("service.PrescriptionService.Update: %w", err)
		}
		if start == nil {
			start = &stored.StartDate
		}
		if end == nil {
			end = &stored.EndDate
		}
	}
	if *end < *start {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	return nil
}
