package handler

import "net/http"

// ListTerms handles GET /terms.
// Returns the fixed schedule-term lookup table, ascending by sort order.
func (s *Server) ListTerms(w http.ResponseWriter, r *http.Request) {
	terms, err := s.terms.List(r.Context())
	if err != nil {
		respondError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, terms)
}
