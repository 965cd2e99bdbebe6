package service

import (
	"context"
	"fmt"
	"time"

	"github.com/avogt/rxminder/internal/domain"
	"github.com/avogt/rxminder/internal/repo"
)

// ExportService assembles the active-prescription report: the projector's
// output for the current date, joined with the schedule-term label lookup.
type ExportService struct {
	prescriptions repo.PrescriptionRepo
	terms         repo.TermRepo
	now           func() time.Time
}

// NewExportService constructs an ExportService backed by the provided repos.
func NewExportService(p repo.PrescriptionRepo, t repo.TermRepo) *ExportService {
	return &ExportService{prescriptions: p, terms: t, now: time.Now}
}

// Export returns one row per currently active prescription, in administration
// order. The view is projected fresh from store state, so the report is
// correct even when the daily recompute has not run yet today.
func (s *ExportService) Export(ctx context.Context) ([]domain.ExportRow, error) {
	prescriptions, err := s.prescriptions.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}
	terms, err := s.terms.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	today := domain.FormatDate(s.now())
	active := ProjectActive(prescriptions, terms, today)

	labels := make(map[int]string, len(terms))
	for _, t := range terms {
		labels[t.ID] = t.Label
	}

	rows := make([]domain.ExportRow, 0, len(active))
	for _, p := range active {
		row := domain.ExportRow{
			ID:             p.ID,
			Name:           p.Name,
			Description:    p.Description,
			StartDate:      p.StartDate,
			EndDate:        p.EndDate,
			TermLabel:      labelFor(labels, p.TermID),
			DoctorName:     p.DoctorName,
			DoctorLocation: p.DoctorLocation,
			ReceivedToday:  p.ReceivedToday,
		}
		if p.LastReceived != nil {
			row.LastReceived = *p.LastReceived
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// labelFor returns the stored label for a term id, falling back to the
// canonical enumeration (and its "Unknown" default) for dangling references.
func labelFor(labels map[int]string, id int) string {
	if label, ok := labels[id]; ok {
		return label
	}
	return domain.TermLabel(id)
}
