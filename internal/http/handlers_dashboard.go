package http

import (
	"net/http"
)

// handleDashboard summarizes the transactions dated within startDate and
// endDate, both inclusive.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dr, err := parseDateRange(r.URL.Query(), true)
	if err != nil {
		writeError(w, r, err)
		return
	}

	summary, err := s.transactions.Dashboard(r.Context(), *dr)
	if err != nil {
		writeError(w, r, err)
		return
	}
	OK(toDashboardResponse(summary)).Write(w)
}
