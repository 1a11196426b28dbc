// stats.go — dashboard aggregates and the audit log listing.
package handlers

import (
	"net/http"

	"github.com/marqueetv/marquee/internal/audit"
)

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.catalog.GetStats(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "stats")
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleLogs(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	limit := queryInt(r, "limit", 20)
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	action := r.URL.Query().Get("action")

	entries, total, err := audit.Query(r.Context(), s.db, action, limit, (page-1)*limit)
	if err != nil {
		s.writeServiceError(w, err, "logs")
		return
	}
	writeJSON(w, http.StatusOK, listEnvelope(entries, total, page, limit))
}
