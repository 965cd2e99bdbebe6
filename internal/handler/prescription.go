package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/avogt/rxminder/internal/domain"
)

// createPrescriptionRequest is the POST /prescriptions body.
type createPrescriptionRequest struct {
	Name           string `json:"name"`
	Description    string `json:"description"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	TermID         int    `json:"term_id"`
	DoctorName     string `json:"doctor_name"`
	DoctorLocation string `json:"doctor_location"`
}

// rowsAffectedResponse reports mutation outcomes for update, delete, and
// mark-received. rows_affected is 0 when the id matched nothing — the
// operations are idempotent, so that is a success, not an error.
type rowsAffectedResponse struct {
	RowsAffected int64 `json:"rows_affected"`
}

// activePrescription is one row of the GET /prescriptions/active response:
// the prescription plus its resolved schedule-term label.
type activePrescription struct {
	domain.Prescription
	TermLabel string `json:"term_label"`
}

// CreatePrescription handles POST /prescriptions.
func (s *Server) CreatePrescription(w http.ResponseWriter, r *http.Request) {
	var req createPrescriptionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	created, err := s.prescriptions.Create(r.Context(), domain.Prescription{
		Name:           req.Name,
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		TermID:         req.TermID,
		DoctorName:     req.DoctorName,
		DoctorLocation: req.DoctorLocation,
	})
	if err != nil {
		respondError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// ListPrescriptions handles GET /prescriptions.
// Returns the unfiltered store contents, newest first; the active view lives
// at /prescriptions/active.
func (s *Server) ListPrescriptions(w http.ResponseWriter, r *http.Request) {
	prescriptions, err := s.prescriptions.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, prescriptions)
}

// GetPrescription handles GET /prescriptions/{id}.
func (s *Server) GetPrescription(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		respondNotFound(w, "prescription not found")
		return
	}

	p, err := s.prescriptions.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondNotFound(w, "prescription not found")
			return
		}
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdatePrescription handles PUT /prescriptions/{id}.
// The body is a partial update: absent fields are left unchanged. An id that
// matches nothing yields rows_affected 0, not a 404 — the gateway treats
// partial updates as idempotent no-ops on missing records.
func (s *Server) UpdatePrescription(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeJSON(w, http.StatusOK, rowsAffectedResponse{RowsAffected: 0})
		return
	}

	var patch domain.PrescriptionPatch
	if err := decodeJSON(r, &patch); err != nil && !errors.Is(err, io.EOF) {
		respondBadRequest(w, "invalid request body: "+err.Error())
		return
	}

	rows, err := s.prescriptions.Update(r.Context(), id, patch)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rowsAffectedResponse{RowsAffected: rows})
}

// DeletePrescription handles DELETE /prescriptions/{id}.
// Idempotent: deleting a missing id reports rows_affected 0 with status 200.
func (s *Server) DeletePrescription(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeJSON(w, http.StatusOK, rowsAffectedResponse{RowsAffected: 0})
		return
	}

	rows, err := s.prescriptions.Delete(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rowsAffectedResponse{RowsAffected: rows})
}

// MarkReceived handles POST /prescriptions/{id}/received.
// Records that the medication was taken today.
func (s *Server) MarkReceived(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(r)
	if !ok {
		writeJSON(w, http.StatusOK, rowsAffectedResponse{RowsAffected: 0})
		return
	}

	rows, err := s.prescriptions.MarkReceivedToday(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rowsAffectedResponse{RowsAffected: rows})
}

// ListActivePrescriptions handles GET /prescriptions/active.
// Returns the projected view: prescriptions whose date range contains today,
// ordered by schedule-term sort order, each with its term label resolved.
func (s *Server) ListActivePrescriptions(w http.ResponseWriter, r *http.Request) {
	view, err := s.active.Current(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	out := make([]activePrescription, 0, len(view))
	for _, p := range view {
		out = append(out, activePrescription{
			Prescription: p,
			TermLabel:    domain.TermLabel(p.TermID),
		})
	}
	writeJSON(w, http.StatusOK, out)
}
