// routes.go — route wiring.
package handlers

import (
	"net/http"

	"github.com/marqueetv/marquee/internal/auth"
	"github.com/marqueetv/marquee/internal/metrics"
	"github.com/marqueetv/marquee/pkg/telemetry"
)

// Routes builds the full handler tree: public projections, the
// login endpoint, and the bearer-protected admin API.
func (s *Server) Routes() http.Handler {
	admin := http.NewServeMux()

	admin.HandleFunc("/admin/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleMe(w, r)
	})

	admin.HandleFunc("/admin/contents", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleListContents(w, r)
		case http.MethodPost:
			s.handleCreateContent(w, r)
		default:
			methodNotAllowed(w)
		}
	})
	admin.HandleFunc("/admin/contents/", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodPut:
			s.handleUpdateContent(w, r)
		case http.MethodDelete:
			s.handleDeleteContent(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	admin.HandleFunc("/admin/hero", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleGetHero(w, r)
		case http.MethodPut:
			s.handleUpdateHero(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	admin.HandleFunc("/admin/sections", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleListSections(w, r)
		case http.MethodPost:
			s.handleCreateSection(w, r)
		default:
			methodNotAllowed(w)
		}
	})
	admin.HandleFunc("/admin/sections/", func(w http.ResponseWriter, r *http.Request) {
		if pathSegment(r.URL.Path, 2) == "reorder" {
			if r.Method != http.MethodPut {
				methodNotAllowed(w)
				return
			}
			s.handleReorderSections(w, r)
			return
		}
		switch r.Method {
		case http.MethodPut:
			s.handleUpdateSection(w, r)
		case http.MethodDelete:
			s.handleDeleteSection(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	admin.HandleFunc("/admin/menu", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			s.handleListMenuItems(w, r)
		case http.MethodPost:
			s.handleCreateMenuItem(w, r)
		default:
			methodNotAllowed(w)
		}
	})
	admin.HandleFunc("/admin/menu/", func(w http.ResponseWriter, r *http.Request) {
		if pathSegment(r.URL.Path, 2) == "reorder" {
			if r.Method != http.MethodPut {
				methodNotAllowed(w)
				return
			}
			s.handleReorderMenu(w, r)
			return
		}
		switch r.Method {
		case http.MethodPut:
			s.handleUpdateMenuItem(w, r)
		case http.MethodDelete:
			s.handleDeleteMenuItem(w, r)
		default:
			methodNotAllowed(w)
		}
	})

	admin.HandleFunc("/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleStats(w, r)
	})

	admin.HandleFunc("/admin/logs", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleLogs(w, r)
	})

	admin.HandleFunc("/admin/tmdb/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handleProviderSearch(w, r)
	})

	mux := http.NewServeMux()

	// Login is the one /admin route outside the bearer wall.
	mux.HandleFunc("/admin/login", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			methodNotAllowed(w)
			return
		}
		s.handleLogin(w, r)
	})
	mux.Handle("/admin/", auth.RequireAdmin(s.jwtSecret, admin))

	mux.HandleFunc("/api/public/hero", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handlePublicHero(w, r)
	})
	mux.HandleFunc("/api/public/sections", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handlePublicSections(w, r)
	})
	mux.HandleFunc("/api/public/sections/data", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handlePublicSectionsData(w, r)
	})
	mux.HandleFunc("/api/public/menu", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handlePublicMenu(w, r)
	})
	mux.HandleFunc("/api/public/search", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			methodNotAllowed(w)
			return
		}
		s.handlePublicSearch(w, r)
	})
	mux.HandleFunc("/api/public/tv/", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || pathSegment(r.URL.Path, 4) != "seasons" {
			writeError(w, http.StatusNotFound, "not_found", "Resource not found")
			return
		}
		s.handlePublicSeasons(w, r)
	})

	mux.HandleFunc("/healthz", s.handleHealth)
	mux.Handle("/metrics", metrics.Handler())

	recovery := telemetry.PanicRecoveryMiddleware("marquee")
	return metrics.Middleware(recovery(mux))
}
