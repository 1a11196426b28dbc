// contents.go — admin content CRUD with provider enrichment.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/marqueetv/marquee/internal/auth"
	"github.com/marqueetv/marquee/internal/catalog"
	"github.com/marqueetv/marquee/internal/metrics"
	"github.com/marqueetv/marquee/internal/validate"
)

// EnrichedContent is a catalog row joined with live provider metadata.
// When the provider lookup fails the display fields stay zero-valued and
// the row is still returned.
type EnrichedContent struct {
	catalog.Content
	Title        string  `json:"title"`
	Overview     string  `json:"overview"`
	PosterPath   string  `json:"poster_path"`
	BackdropPath string  `json:"backdrop_path"`
	VoteAverage  float64 `json:"vote_average"`
	ReleaseDate  string  `json:"release_date"`
}

// enrich looks up provider metadata for each row. A failed lookup
// degrades that row to its stored fields rather than failing the list.
func (s *Server) enrich(ctx context.Context, contents []catalog.Content) []EnrichedContent {
	out := make([]EnrichedContent, len(contents))
	for i, c := range contents {
		out[i] = EnrichedContent{Content: c}
		d, err := s.provider.Details(ctx, c.ExternalID, c.MediaType)
		if err != nil {
			metrics.TMDBRequests.WithLabelValues("error").Inc()
			s.log.Warn("provider lookup failed",
				"external_id", c.ExternalID, "media_type", c.MediaType, "error", err)
			continue
		}
		metrics.TMDBRequests.WithLabelValues("success").Inc()
		out[i].Title = d.Title
		out[i].Overview = d.Overview
		out[i].PosterPath = d.PosterPath
		out[i].BackdropPath = d.BackdropPath
		out[i].VoteAverage = d.VoteAverage
		out[i].ReleaseDate = d.ReleaseDate
	}
	return out
}

func (s *Server) handleListContents(w http.ResponseWriter, r *http.Request) {
	f := catalog.ContentFilter{
		MediaType: r.URL.Query().Get("media_type"),
		Page:      queryInt(r, "page", 1),
		Limit:     queryInt(r, "limit", 50),
	}
	if v := r.URL.Query().Get("available"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation", "available must be true or false")
			return
		}
		f.Available = &b
	}
	if f.MediaType != "" {
		if err := validate.IsMediaType("media_type", f.MediaType); err != nil {
			s.writeServiceError(w, err, "list contents")
			return
		}
	}

	contents, total, err := s.catalog.ListContent(r.Context(), f)
	if err != nil {
		s.writeServiceError(w, err, "list contents")
		return
	}
	writeJSON(w, http.StatusOK, listEnvelope(s.enrich(r.Context(), contents), total, f.Page, f.Limit))
}

func (s *Server) handleCreateContent(w http.ResponseWriter, r *http.Request) {
	var in catalog.CreateContentInput
	if !decodeJSON(w, r, &in) {
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	c, err := s.catalog.CreateContent(r.Context(), claims.Email, in)
	if err != nil {
		s.writeServiceError(w, err, "create content")
		return
	}
	metrics.AdminActions.WithLabelValues("CREATE_CONTENT").Inc()
	writeJSON(w, http.StatusCreated, c)
}

// contentKey resolves {externalId} plus the optional ?type query into a
// concrete (id, media_type) pair. When type is omitted the id must match
// exactly one stored row.
func (s *Server) contentKey(w http.ResponseWriter, r *http.Request) (int, string, bool) {
	id, err := strconv.Atoi(pathSegment(r.URL.Path, 2))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "validation", "external id must be a positive integer")
		return 0, "", false
	}
	mt := r.URL.Query().Get("type")
	if mt == "" {
		mt, err = s.catalog.ResolveMediaType(r.Context(), id)
		if err != nil {
			s.writeServiceError(w, err, "resolve content")
			return 0, "", false
		}
	} else if err := validate.IsMediaType("type", mt); err != nil {
		s.writeServiceError(w, err, "resolve content")
		return 0, "", false
	}
	return id, mt, true
}

func (s *Server) handleUpdateContent(w http.ResponseWriter, r *http.Request) {
	id, mt, ok := s.contentKey(w, r)
	if !ok {
		return
	}
	var patch catalog.ContentPatch
	if !decodeJSON(w, r, &patch) {
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	c, err := s.catalog.UpdateContent(r.Context(), claims.Email, id, mt, patch)
	if err != nil {
		s.writeServiceError(w, err, "update content")
		return
	}
	metrics.AdminActions.WithLabelValues("UPDATE_CONTENT").Inc()
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteContent(w http.ResponseWriter, r *http.Request) {
	id, mt, ok := s.contentKey(w, r)
	if !ok {
		return
	}
	claims := auth.ClaimsFromContext(r.Context())
	if err := s.catalog.DeleteContent(r.Context(), claims.Email, id, mt); err != nil {
		s.writeServiceError(w, err, "delete content")
		return
	}
	metrics.AdminActions.WithLabelValues("DELETE_CONTENT").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
