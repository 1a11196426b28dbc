// public.go — unauthenticated read-only projections for the browse UI.
package handlers

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/marqueetv/marquee/internal/catalog"
	"github.com/marqueetv/marquee/internal/metrics"
	"github.com/marqueetv/marquee/internal/tmdb"
)

// PublicHero is the resolved hero spotlight. Custom overrides win over
// provider data; SeasonLabel has no provider fallback.
type PublicHero struct {
	ContentID   string  `json:"content_id"`
	MediaType   string  `json:"media_type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Backdrop    string  `json:"backdrop"`
	PosterPath  string  `json:"poster_path"`
	SeasonLabel *string `json:"season_label"`
	VoteAverage float64 `json:"vote_average"`
	ReleaseDate string  `json:"release_date"`
}

// resolveHero turns stored hero settings into the public shape.
// Returns nil when no hero is set, the target content is gone or
// hidden, or the provider lookup fails. The public page renders without
// a spotlight in all of those cases.
func (s *Server) resolveHero(ctx context.Context) (*PublicHero, error) {
	h, err := s.catalog.GetHero(ctx)
	if err != nil {
		return nil, err
	}
	if h == nil {
		return nil, nil
	}

	id, err := strconv.Atoi(h.ContentID)
	if err != nil {
		return nil, nil
	}
	c, err := s.catalog.GetContent(ctx, id, h.MediaType)
	if err == catalog.ErrNotFound {
		// Dangling target: the content was deleted after the hero was set.
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !c.Available {
		return nil, nil
	}

	hero := &PublicHero{
		ContentID:   h.ContentID,
		MediaType:   h.MediaType,
		SeasonLabel: h.SeasonLabel,
	}
	if h.CustomTitle != nil {
		hero.Title = *h.CustomTitle
	}
	if h.CustomDescription != nil {
		hero.Description = *h.CustomDescription
	}
	if h.CustomBackdrop != nil {
		hero.Backdrop = *h.CustomBackdrop
	}

	// Fail soft: a dead provider lookup means no spotlight, not a 5xx.
	d, err := s.provider.Details(ctx, id, h.MediaType)
	if err != nil {
		metrics.TMDBRequests.WithLabelValues("error").Inc()
		s.log.Warn("hero provider lookup failed", "content_id", h.ContentID, "error", err)
		return nil, nil
	}
	metrics.TMDBRequests.WithLabelValues("success").Inc()

	if hero.Title == "" {
		hero.Title = d.Title
	}
	if hero.Description == "" {
		hero.Description = d.Overview
	}
	if hero.Backdrop == "" {
		hero.Backdrop = tmdb.ImageURL(d.BackdropPath, "original")
	}
	hero.PosterPath = d.PosterPath
	hero.VoteAverage = d.VoteAverage
	hero.ReleaseDate = d.ReleaseDate
	return hero, nil
}

func (s *Server) handlePublicHero(w http.ResponseWriter, r *http.Request) {
	hero, err := s.resolveHero(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "public hero")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"hero": hero})
}

func (s *Server) handlePublicSections(w http.ResponseWriter, r *http.Request) {
	sections, err := s.catalog.ActiveSections(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "public sections")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": sections})
}

// sectionData is one homepage row with its provider listing attached.
type sectionData struct {
	catalog.Section
	Items []tmdb.Details `json:"items"`
}

const sectionItemLimit = 12

// handlePublicSectionsData returns every active section joined with its
// provider category listing. A provider failure for one section leaves
// that section with empty items rather than failing the whole page.
func (s *Server) handlePublicSectionsData(w http.ResponseWriter, r *http.Request) {
	sections, err := s.catalog.ActiveSections(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "public sections data")
		return
	}

	out := make([]sectionData, len(sections))
	for i, sec := range sections {
		out[i] = sectionData{Section: sec, Items: []tmdb.Details{}}
		items, err := s.provider.List(r.Context(), sec.APIString, sec.MediaType, 1)
		if err != nil {
			metrics.TMDBRequests.WithLabelValues("error").Inc()
			s.log.Warn("section listing failed", "section", sec.Name, "error", err)
			continue
		}
		metrics.TMDBRequests.WithLabelValues("success").Inc()
		if len(items) > sectionItemLimit {
			items = items[:sectionItemLimit]
		}
		out[i].Items = items
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": out})
}

func (s *Server) handlePublicMenu(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.ActiveMenuItems(r.Context())
	if err != nil {
		s.writeServiceError(w, err, "public menu")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"items": items})
}

func (s *Server) handlePublicSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, http.StatusBadRequest, "validation", "query is required")
		return
	}
	results, err := s.provider.Search(r.Context(), query, "multi")
	if err != nil {
		metrics.TMDBRequests.WithLabelValues("error").Inc()
		s.log.Warn("public search failed", "query", query, "error", err)
		writeJSON(w, http.StatusOK, map[string]interface{}{"results": []tmdb.Details{}})
		return
	}
	metrics.TMDBRequests.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{"results": results})
}

// handlePublicSeasons serves GET /api/public/tv/{id}/seasons.
func (s *Server) handlePublicSeasons(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(pathSegment(r.URL.Path, 3))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "validation", "tv id must be a positive integer")
		return
	}
	seasons, err := s.provider.Seasons(r.Context(), id)
	if err != nil {
		metrics.TMDBRequests.WithLabelValues("error").Inc()
		s.log.Warn("seasons lookup failed", "id", id, "error", err)
		writeJSON(w, http.StatusOK, map[string]interface{}{"seasons": []tmdb.Season{}})
		return
	}
	metrics.TMDBRequests.WithLabelValues("success").Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{"seasons": seasons})
}
