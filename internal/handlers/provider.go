// provider.go — admin-facing provider search proxy.
package handlers

import (
	"net/http"
	"strings"

	"github.com/marqueetv/marquee/internal/metrics"
	"github.com/marqueetv/marquee/internal/validate"
)

// handleProviderSearch proxies a title search to the metadata provider
// so the admin panel can import without holding its own API key.
func (s *Server) handleProviderSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "validation", "query is required")
		return
	}
	mediaType := r.URL.Query().Get("type")
	if mediaType == "" {
		mediaType = "multi"
	}
	if mediaType != "multi" {
		if err := validate.IsMediaType("type", mediaType); err != nil {
			s.writeServiceError(w, err, "provider search")
			return
		}
	}

	results, err := s.provider.Search(r.Context(), query, mediaType)
	if err != nil {
		metrics.TMDBRequests.WithLabelValues("error").Inc()
		s.log.Warn("provider search failed", "query", query, "error", err)
		writeError(w, http.StatusBadGateway, "upstream", "Metadata provider unavailable")
		return
	}
	metrics.TMDBRequests.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}
