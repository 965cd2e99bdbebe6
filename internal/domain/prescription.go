// Package domain contains the core data types for the medication reminder API.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler).
package domain

import "time"

// Prescription is a single medication prescription with its dosing window.
// StartDate, EndDate, and LastReceived are ISO "2006-01-02" date strings;
// the zero-padded format makes lexicographic comparison equivalent to date
// comparison, which the recompute engine and projector rely on.
//
// Active and ReceivedToday are derived flags owned by the daily recompute:
// Active means today falls inside [StartDate, EndDate] (both ends inclusive),
// ReceivedToday means the "mark received" action ran today. Neither is set
// directly by callers; a freshly created prescription is inactive until the
// next recompute run.
type Prescription struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description,omitempty"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	TermID         int       `json:"term_id"`
	DoctorName     string    `json:"doctor_name,omitempty"`
	DoctorLocation string    `json:"doctor_location,omitempty"` // free text, usable as a geocoding query
	Active         bool      `json:"active"`
	ReceivedToday  bool      `json:"received_today"`
	LastReceived   *string   `json:"last_received,omitempty"` // nil until first "mark received"
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// PrescriptionPatch is a partial update to a prescription.
// A nil field means "leave unchanged". The JSON layer cannot distinguish an
// absent field from an explicit null, so both mean no change; clearing an
// optional text field is done by sending an empty string.
type PrescriptionPatch struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	TermID         *int    `json:"term_id"`
	DoctorName     *string `json:"doctor_name"`
	DoctorLocation *string `json:"doctor_location"`
}

// Empty reports whether the patch changes nothing.
func (p PrescriptionPatch) Empty() bool {
	return p.Name == nil && p.Description == nil && p.StartDate == nil &&
		p.EndDate == nil && p.TermID == nil && p.DoctorName == nil &&
		p.DoctorLocation == nil
}
