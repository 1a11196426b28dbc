// hero.go — admin hero settings endpoints.
package handlers

import (
	"net/http"

	"github.com/marqueetv/marquee/internal/auth"
	"github.com/marqueetv/marquee/internal/catalog"
	"github.com/marqueetv/marquee/internal/metrics"
)

func (s *Server) handleGetHero(w http.ResponseWriter, r *http.Request) {
	hero, err := s.catalog.GetHero(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "get hero")
		return
	}
	// No hero configured is a valid state, not an error.
	writeJSON(w, http.StatusOK, map[string]interface{}{"hero": hero})
}

func (s *Server) handleUpdateHero(w http.ResponseWriter, r *http.Request) {
	var in catalog.HeroInput
	if !decodeJSON(w, r, &in) {
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	hero, err := s.catalog.UpdateHero(r.Context(), claims.Email, in)
	if err != nil {
		s.writeServiceError(w, err, "update hero")
		return
	}
	metrics.AdminActions.WithLabelValues("UPDATE_HERO").Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{"hero": hero})
}
