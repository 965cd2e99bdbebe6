// Package handler implements the HTTP handlers for the medication reminder API.
// All handlers are methods on Server. Methods are split into resource-specific
// files (health.go, prescription.go, etc.) but all share the same Server
// struct so they can access its dependencies.
package handler

import (
	"context"

	"github.com/go-chi/chi/v5"

	"github.com/avogt/rxminder/internal/domain"
)

// PrescriptionServicer defines the business operations the prescription
// handlers depend on. Defining the interface here (in the consumer package)
// follows the Go convention: "accept interfaces, return concrete types". It
// lets handler tests inject a mock without touching the database or service
// layer.
type PrescriptionServicer interface {
	Create(ctx context.Context, p domain.Prescription) (domain.Prescription, error)
	GetByID(ctx context.Context, id int64) (domain.Prescription, error)
	List(ctx context.Context) ([]domain.Prescription, error)
	Update(ctx context.Context, id int64, patch domain.PrescriptionPatch) (int64, error)
	Delete(ctx context.Context, id int64) (int64, error)
	MarkReceivedToday(ctx context.Context, id int64) (int64, error)
}

// TermServicer defines the schedule-term operations the handlers depend on.
type TermServicer interface {
	List(ctx context.Context) ([]domain.ScheduleTerm, error)
}

// ActiveLister supplies the projected active-prescription view.
type ActiveLister interface {
	Current(ctx context.Context) ([]domain.Prescription, error)
}

// Exporter supplies the flat active-prescription report rows.
type Exporter interface {
	Export(ctx context.Context) ([]domain.ExportRow, error)
}

// Recomputer triggers a synchronous daily-recompute run.
type Recomputer interface {
	RunNow(ctx context.Context) (string, error)
}

// Server holds the service dependencies for all API endpoints.
// Wire it in main.go via NewServer(...).Routes().
type Server struct {
	prescriptions PrescriptionServicer
	terms         TermServicer
	active        ActiveLister
	export        Exporter
	recompute     Recomputer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(p PrescriptionServicer, t TermServicer, a ActiveLister, e Exporter, r Recomputer) *Server {
	return &Server{prescriptions: p, terms: t, active: a, export: e, recompute: r}
}

// Routes returns the chi router for the full API surface.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/prescriptions", func(r chi.Router) {
		r.Get("/", s.ListPrescriptions)
		r.Post("/", s.CreatePrescription)
		r.Get("/active", s.ListActivePrescriptions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetPrescription)
			r.Put("/", s.UpdatePrescription)
			r.Delete("/", s.DeletePrescription)
			r.Post("/received", s.MarkReceived)
		})
	})

	r.Get("/terms", s.ListTerms)
	r.Get("/export", s.GetExport)
	r.Post("/recompute", s.Recompute)

	return r
}
