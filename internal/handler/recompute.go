package handler

import "net/http"

// recomputeResponse is the POST /recompute body: the date the run used.
type recomputeResponse struct {
	Date string `json:"date"`
}

// Recompute handles POST /recompute.
// It runs the daily recompute synchronously for the current date. The
// operation is idempotent, so clients (e.g. an app coming to the foreground)
// may call it freely; repeated same-day runs leave the store unchanged.
func (s *Server) Recompute(w http.ResponseWriter, r *http.Request) {
	date, err := s.recompute.RunNow(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, recomputeResponse{Date: date})
}
