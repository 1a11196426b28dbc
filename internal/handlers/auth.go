// auth.go — admin login and identity endpoints.
package handlers

import (
	"database/sql"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/marqueetv/marquee/internal/audit"
	"github.com/marqueetv/marquee/internal/auth"
	"github.com/marqueetv/marquee/internal/metrics"
	"github.com/marqueetv/marquee/internal/ratelimit"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin verifies credentials and issues a bearer token.
// Rate limited per IP and locked per email after repeated failures.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	ip := ratelimit.ClientIP(r)
	if allowed, retry := s.limiter.CheckLogin(r.Context(), ip); !allowed {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retry))
		writeError(w, http.StatusTooManyRequests, "rate_limited", "Too many login attempts, try again later")
		return
	}

	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "validation", "email and password are required")
		return
	}

	if locked, retry := s.limiter.CheckEmailLockout(r.Context(), req.Email); locked {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", retry))
		writeError(w, http.StatusTooManyRequests, "rate_limited", "Account temporarily locked, try again later")
		return
	}

	var (
		adminID uuid.UUID
		hash    string
	)
	err := s.db.QueryRowContext(r.Context(),
		`SELECT id, password_hash FROM admins WHERE email = $1`, req.Email,
	).Scan(&adminID, &hash)
	if err == sql.ErrNoRows {
		// Burn the same time as a real compare so unknown emails are
		// indistinguishable from wrong passwords.
		auth.DummyCompare(req.Password)
		s.rejectLogin(w, r, req.Email)
		return
	}
	if err != nil {
		s.writeServiceError(w, err, "login")
		return
	}

	if !auth.CheckPassword(hash, req.Password) {
		s.rejectLogin(w, r, req.Email)
		return
	}

	token, err := auth.GenerateToken(s.jwtSecret, adminID, req.Email, s.jwtExpiry)
	if err != nil {
		s.writeServiceError(w, err, "login")
		return
	}

	s.limiter.ResetLoginIP(r.Context(), ip)
	s.limiter.ResetLoginEmail(r.Context(), req.Email)
	metrics.AuthEvents.WithLabelValues("success").Inc()

	if err := audit.Record(r.Context(), s.db, req.Email, "LOGIN", "", nil); err != nil {
		s.log.Warn("login audit write failed", "error", err)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"admin": map[string]string{
			"id":    adminID.String(),
			"email": req.Email,
		},
	})
}

func (s *Server) rejectLogin(w http.ResponseWriter, r *http.Request, email string) {
	s.limiter.RecordLoginFailure(r.Context(), email)
	metrics.AuthEvents.WithLabelValues("failure").Inc()
	writeError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
}

// handleMe resolves the bearer token to the admin identity.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	writeJSON(w, http.StatusOK, map[string]string{
		"id":    claims.Subject,
		"email": claims.Email,
	})
}
