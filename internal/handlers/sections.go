// sections.go — admin section CRUD and reorder.
package handlers

import (
	"net/http"
	"net/url"

	"github.com/marqueetv/marquee/internal/auth"
	"github.com/marqueetv/marquee/internal/catalog"
	"github.com/marqueetv/marquee/internal/metrics"
)

func (s *Server) handleListSections(w http.ResponseWriter, r *http.Request) {
	sections, err := s.catalog.ListSections(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "list sections")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": sections})
}

func (s *Server) handleCreateSection(w http.ResponseWriter, r *http.Request) {
	var in catalog.SectionInput
	if !decodeJSON(w, r, &in) {
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	sec, err := s.catalog.CreateSection(r.Context(), claims.Email, in)
	if err != nil {
		s.writeServiceError(w, err, "create section")
		return
	}
	metrics.AdminActions.WithLabelValues("CREATE_SECTION").Inc()
	writeJSON(w, http.StatusCreated, sec)
}

// sectionName extracts the {name} path segment. Names may contain
// spaces, so the segment is URL-decoded.
func sectionName(w http.ResponseWriter, r *http.Request) (string, bool) {
	raw := pathSegment(r.URL.Path, 2)
	name, err := url.PathUnescape(raw)
	if err != nil || name == "" {
		writeError(w, http.StatusBadRequest, "validation", "section name is required")
		return "", false
	}
	return name, true
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	name, ok := sectionName(w, r)
	if !ok {
		return
	}
	var patch catalog.SectionPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	sec, err := s.catalog.UpdateSection(r.Context(), claims.Email, name, patch)
	if err != nil {
		s.writeServiceError(w, err, "update section")
		return
	}
	metrics.AdminActions.WithLabelValues("UPDATE_SECTION").Inc()
	writeJSON(w, http.StatusOK, sec)
}

func (s *Server) handleDeleteSection(w http.ResponseWriter, r *http.Request) {
	name, ok := sectionName(w, r)
	if !ok {
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	if err := s.catalog.DeleteSection(r.Context(), claims.Email, name); err != nil {
		s.writeServiceError(w, err, "delete section")
		return
	}
	metrics.AdminActions.WithLabelValues("DELETE_SECTION").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleReorderSections(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Orders []catalog.SectionOrder `json:"orders"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	sections, err := s.catalog.ReorderSections(r.Context(), claims.Email, req.Orders)
	if err != nil {
		s.writeServiceError(w, err, "reorder sections")
		return
	}
	metrics.AdminActions.WithLabelValues("REORDER_SECTIONS").Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": sections})
}
