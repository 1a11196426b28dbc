// menu.go — admin menu item CRUD and reorder.
package handlers

import (
	"net/http"

	"github.com/marqueetv/marquee/internal/auth"
	"github.com/marqueetv/marquee/internal/catalog"
	"github.com/marqueetv/marquee/internal/metrics"
)

func (s *Server) handleListMenuItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.ListMenuItems(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "list menu")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) handleCreateMenuItem(w http.ResponseWriter, r *http.Request) {
	var in catalog.MenuItemInput
	if !decodeJSON(w, r, &in) {
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	item, err := s.catalog.CreateMenuItem(r.Context(), claims.Email, in)
	if err != nil {
		s.writeServiceError(w, err, "create menu item")
		return
	}
	metrics.AdminActions.WithLabelValues("CREATE_MENU_ITEM").Inc()
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) handleUpdateMenuItem(w http.ResponseWriter, r *http.Request) {
	id := pathSegment(r.URL.Path, 2)
	var patch catalog.MenuItemPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	item, err := s.catalog.UpdateMenuItem(r.Context(), claims.Email, id, patch)
	if err != nil {
		s.writeServiceError(w, err, "update menu item")
		return
	}
	metrics.AdminActions.WithLabelValues("UPDATE_MENU_ITEM").Inc()
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteMenuItem(w http.ResponseWriter, r *http.Request) {
	id := pathSegment(r.URL.Path, 2)
	claims := auth.ClaimsFromContext(r.Context())
	if err := s.catalog.DeleteMenuItem(r.Context(), claims.Email, id); err != nil {
		s.writeServiceError(w, err, "delete menu item")
		return
	}
	metrics.AdminActions.WithLabelValues("DELETE_MENU_ITEM").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleReorderMenu(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Orders []catalog.MenuItemOrder `json:"orders"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	items, err := s.catalog.ReorderMenuItems(r.Context(), claims.Email, req.Orders)
	if err != nil {
		s.writeServiceError(w, err, "reorder menu")
		return
	}
	metrics.AdminActions.WithLabelValues("REORDER_MENU").Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}
