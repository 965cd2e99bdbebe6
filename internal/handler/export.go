// Package handler — export.go implements GET /export.
// Renders the active-prescription report as plain text (default), HTML, or
// JSON via ?format=html / ?format=json.
package handler

import (
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/avogt/rxminder/internal/domain"
)

// GetExport implements GET /export.
func (s *Server) GetExport(w http.ResponseWriter, r *http.Request) {
	rows, err := s.export.Export(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}

	stamp := time.Now().Format("20060102_150405")
	switch r.URL.Query().Get("format") {
	case "json":
		writeJSON(w, http.StatusOK, exportRowsToJSON(rows))
	case "html":
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, buildHTMLReport(rows, stamp))
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, buildTextReport(rows, stamp))
	}
}

// exportRowJSON is the JSON shape of one report row.
type exportRowJSON struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description,omitempty"`
	StartDate      string `json:"start_date"`
	EndDate        string `json:"end_date"`
	TermLabel      string `json:"term_label"`
	DoctorName     string `json:"doctor_name,omitempty"`
	DoctorLocation string `json:"doctor_location,omitempty"`
	LastReceived   string `json:"last_received,omitempty"`
	ReceivedToday  bool   `json:"received_today"`
}

func exportRowsToJSON(rows []domain.ExportRow) []exportRowJSON {
	out := make([]exportRowJSON, 0, len(rows))
	for _, r := range rows {
		out = append(out, exportRowJSON(r))
	}
	return out
}

// buildTextReport renders the report as indented plain text, one block per
// prescription.
func buildTextReport(rows []domain.ExportRow, stamp string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Active Prescriptions (%s)\n\n", stamp)

	for _, r := range rows {
		fmt.Fprintf(&sb, "#%d · %s\n", r.ID, orDash(r.Name))
		fmt.Fprintf(&sb, "  Description : %s\n", orDash(r.Description))
		fmt.Fprintf(&sb, "  Dates       : %s → %s\n", orDash(r.StartDate), orDash(r.EndDate))
		fmt.Fprintf(&sb, "  Time term   : %s\n", r.TermLabel)
		fmt.Fprintf(&sb, "  Doctor      : %s\n", orDash(r.DoctorName))
		fmt.Fprintf(&sb, "  Location    : %s\n", orDash(r.DoctorLocation))
		fmt.Fprintf(&sb, "  Last taken  : %s\n", orDash(r.LastReceived))
		fmt.Fprintf(&sb, "  Today?      : %s\n\n", yesNo(r.ReceivedToday))
	}

	return sb.String()
}

// buildHTMLReport renders the report as a standalone mobile-friendly HTML
// page, one card per prescription.
func buildHTMLReport(rows []domain.ExportRow, stamp string) string {
	var sb strings.Builder

	sb.WriteString("<!doctype html><html><head><meta charset='utf-8'>")
	sb.WriteString("<title>Active Prescriptions</title>")
	sb.WriteString("<meta name='viewport' content='width=device-width, initial-scale=1'>")
	sb.WriteString("<style>")
	sb.WriteString("body{font-family:sans-serif;padding:16px;background:#fafafa;color:#333;font-size:16px;line-height:1.6}")
	sb.WriteString("h1{color:#444;font-size:20px;margin-bottom:20px}")
	sb.WriteString(".card{background:#fff;border:1px solid #ddd;border-radius:12px;padding:16px;margin:16px 0;box-shadow:0 2px 6px rgba(0,0,0,0.05)}")
	sb.WriteString(".k{display:inline-block;background:#eee;color:#555;padding:6px 12px;border-radius:999px;margin-right:8px;font-weight:600;font-size:14px}")
	sb.WriteString("strong{color:#222;font-size:17px}")
	sb.WriteString("div{margin:4px 0}")
	sb.WriteString("</style></head><body>")

	fmt.Fprintf(&sb, "<h1>Active Prescriptions (%s)</h1>", stamp)

	for _, r := range rows {
		sb.WriteString("<div class='card'>")
		fmt.Fprintf(&sb, "<div><span class='k'>ID: %d</span><strong>%s</strong></div>",
			r.ID, html.EscapeString(orDash(r.Name)))
		fmt.Fprintf(&sb, "<div><span class='k'>Dates</span>%s → %s</div>",
			html.EscapeString(orDash(r.StartDate)), html.EscapeString(orDash(r.EndDate)))
		fmt.Fprintf(&sb, "<div><span class='k'>Schedule</span>%s</div>",
			html.EscapeString(r.TermLabel))
		fmt.Fprintf(&sb, "<div><span class='k'>Description</span>%s</div>",
			html.EscapeString(orDash(r.Description)))
		fmt.Fprintf(&sb, "<div><span class='k'>Doctor</span>%s</div>",
			html.EscapeString(orDash(r.DoctorName)))
		fmt.Fprintf(&sb, "<div><span class='k'>Location</span>%s</div>",
			html.EscapeString(orDash(r.DoctorLocation)))
		fmt.Fprintf(&sb, "<div><span class='k'>Last received</span>%s</div>",
			html.EscapeString(orDash(r.LastReceived)))
		fmt.Fprintf(&sb, "<div><span class='k'>Received today</span>%s</div>",
			yesNo(r.ReceivedToday))
		sb.WriteString("</div>")
	}

	sb.WriteString("</body></html>")
	return sb.String()
}

// orDash returns "-" for empty values so report columns always line up.
func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
