package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avogt/rxminder/internal/domain"
)

func exportRowFixture() domain.ExportRow {
	return domain.ExportRow{
		ID:             1,
		Name:           "Amoxicillin",
		Description:    "250mg after meals",
		StartDate:      "2025-06-01",
		EndDate:        "2025-06-14",
		TermLabel:      "At breakfast",
		DoctorName:     "Dr. Lang",
		DoctorLocation: "Room 12",
		LastReceived:   "2025-06-10",
		ReceivedToday:  true,
	}
}

func TestGetExport_DefaultText(t *testing.T) {
	exp := &mockExporter{
		export: func(_ context.Context) ([]domain.ExportRow, error) {
			return []domain.ExportRow{exportRowFixture()}, nil
		},
	}
	h := newHTTPHandler(nil, nil, nil, exp, nil)

	rec := doRequest(h, http.MethodGet, "/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/plain")
	body := rec.Body.String()
	assert.Contains(t, body, "Active Prescriptions (")
	assert.Contains(t, body, "#1 · Amoxicillin")
	assert.Contains(t, body, "Dates       : 2025-06-01 → 2025-06-14")
	assert.Contains(t, body, "Time term   : At breakfast")
	assert.Contains(t, body, "Last taken  : 2025-06-10")
	assert.Contains(t, body, "Today?      : Yes")
}

func TestGetExport_TextDashesForEmptyFields(t *testing.T) {
	row := exportRowFixture()
	row.Description = ""
	row.DoctorName = ""
	row.DoctorLocation = ""
	row.LastReceived = ""
	row.ReceivedToday = false

	exp := &mockExporter{
		export: func(_ context.Context) ([]domain.ExportRow, error) {
			return []domain.ExportRow{row}, nil
		},
	}
	h := newHTTPHandler(nil, nil, nil, exp, nil)

	rec := doRequest(h, http.MethodGet, "/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Description : -")
	assert.Contains(t, body, "Doctor      : -")
	assert.Contains(t, body, "Last taken  : -")
	assert.Contains(t, body, "Today?      : No")
}

func TestGetExport_HTML(t *testing.T) {
	row := exportRowFixture()
	row.Name = "Co<dex>" // must be escaped

	exp := &mockExporter{
		export: func(_ context.Context) ([]domain.ExportRow, error) {
			return []domain.ExportRow{row}, nil
		},
	}
	h := newHTTPHandler(nil, nil, nil, exp, nil)

	rec := doRequest(h, http.MethodGet, "/export?format=html", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	body := rec.Body.String()
	assert.Contains(t, body, "<div class='card'>")
	assert.Contains(t, body, "Co&lt;dex&gt;")
	assert.NotContains(t, body, "Co<dex>")
	assert.Contains(t, body, "<span class='k'>Received today</span>Yes")
}

func TestGetExport_JSON(t *testing.T) {
	exp := &mockExporter{
		export: func(_ context.Context) ([]domain.ExportRow, error) {
			return []domain.ExportRow{exportRowFixture()}, nil
		},
	}
	h := newHTTPHandler(nil, nil, nil, exp, nil)

	rec := doRequest(h, http.MethodGet, "/export?format=json", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.JSONEq(t, `[{
		"id": 1,
		"name": "Amoxicillin",
		"description": "250mg after meals",
		"start_date": "2025-06-01",
		"end_date": "2025-06-14",
		"term_label": "At breakfast",
		"doctor_name": "Dr. Lang",
		"doctor_location": "Room 12",
		"last_received": "2025-06-10",
		"received_today": true
	}]`, rec.Body.String())
}

func TestGetExport_EmptyReport(t *testing.T) {
	exp := &mockExporter{
		export: func(_ context.Context) ([]domain.ExportRow, error) {
			return []domain.ExportRow{}, nil
		},
	}
	h := newHTTPHandler(nil, nil, nil, exp, nil)

	rec := doRequest(h, http.MethodGet, "/export", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Active Prescriptions (")
}
