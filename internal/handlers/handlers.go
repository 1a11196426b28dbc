// Package handlers is the HTTP surface: admin CRUD endpoints plus the
// read-only public projections consumed by the browse UI.
package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/marqueetv/marquee/internal/catalog"
	"github.com/marqueetv/marquee/internal/ratelimit"
	"github.com/marqueetv/marquee/internal/tmdb"
	"github.com/marqueetv/marquee/internal/validate"
	"github.com/marqueetv/marquee/pkg/telemetry"
)

// Provider is the metadata lookup contract the handlers need.
// *tmdb.Client satisfies it; tests substitute fakes.
type Provider interface {
	Details(ctx context.Context, id int, mediaType string) (*tmdb.Details, error)
	Search(ctx context.Context, query, mediaType string) ([]tmdb.Details, error)
	List(ctx context.Context, category, mediaType string, page int) ([]tmdb.Details, error)
	Seasons(ctx context.Context, id int) ([]tmdb.Season, error)
}

// Server holds handler dependencies.
type Server struct {
	db        *sql.DB
	catalog   *catalog.Service
	provider  Provider
	jwtSecret []byte
	jwtExpiry time.Duration
	limiter   *ratelimit.Limiter
	log       *slog.Logger
}

// New creates a Server. limiter may be built over a nil store (no-op)
// and log may be nil.
func New(db *sql.DB, svc *catalog.Service, provider Provider, jwtSecret []byte, jwtExpiry time.Duration, limiter *ratelimit.Limiter, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	if limiter == nil {
		limiter = ratelimit.New(nil)
	}
	return &Server{
		db:        db,
		catalog:   svc,
		provider:  provider,
		jwtSecret: jwtSecret,
		jwtExpiry: jwtExpiry,
		limiter:   limiter,
		log:       log,
	}
}

// ── response helpers ──────────────────────────────────────────────────────────

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{"code": code, "message": msg},
	})
}

// listEnvelope is the shape of every list response.
func listEnvelope(items interface{}, total, page, limit int) map[string]interface{} {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return map[string]interface{}{
		"items":       items,
		"total":       total,
		"page":        page,
		"total_pages": totalPages,
	}
}

// writeServiceError maps the error taxonomy onto HTTP statuses.
func (s *Server) writeServiceError(w http.ResponseWriter, err error, op string) {
	var me *validate.MultiError
	var ve *validate.ValidationError
	var ce *catalog.ConflictError

	switch {
	case errors.Is(err, catalog.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Resource not found")
	case errors.As(err, &ce):
		writeError(w, http.StatusConflict, "conflict", ce.Error())
	case errors.As(err, &me):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": map[string]interface{}{
				"code":    "validation",
				"message": me.Error(),
				"fields":  me.Errors,
			},
		})
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, map[string]interface{}{
			"error": map[string]interface{}{
				"code":    "validation",
				"message": ve.Error(),
				"fields":  []validate.ValidationError{*ve},
			},
		})
	default:
		s.log.Error(op+" failed", "error", err)
		telemetry.CaptureError(err, map[string]string{"operation": op})
		writeError(w, http.StatusInternalServerError, "internal", "Internal server error")
	}
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "bad_json", "Invalid JSON body")
		return false
	}
	return true
}

func methodNotAllowed(w http.ResponseWriter) {
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "Method not allowed")
}

// pathSegment returns the n-th path segment (0-based), or "".
// pathSegment("/admin/sections/reorder", 2) == "reorder".
func pathSegment(path string, n int) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if n < 0 || n >= len(parts) {
		return ""
	}
	return parts[n]
}

// queryInt parses an integer query parameter with a default.
func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
