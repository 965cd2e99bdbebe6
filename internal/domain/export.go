package domain

// ExportRow is a single entry in the active-prescription report.
// It is the projector's output joined with the schedule-term label lookup:
// one row per active prescription, already in administration order.
// Optional fields are empty strings; renderers substitute "-" for display.
type ExportRow struct {
	ID             int64
	Name           string
	Description    string
	StartDate      string
	EndDate        string
	TermLabel      string
	DoctorName     string
	DoctorLocation string
	LastReceived   string // empty when the medication was never marked received
	ReceivedToday  bool
}
