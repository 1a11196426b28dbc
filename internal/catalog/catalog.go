// Package catalog implements the curation domain model: contents,
// homepage sections, navigation menu items, and the hero spotlight.
//
// The Service is the single write path for all of them. It enforces the
// uniqueness and ordering invariants, and records one admin_logs entry
// inside the transaction of every successful mutation.
package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/marqueetv/marquee/internal/metrics"
)

// ErrNotFound is returned when the addressed entity does not exist.
var ErrNotFound = errors.New("not found")

// ConflictError is returned when a uniqueness invariant would be violated.
type ConflictError struct {
	Resource string
	Key      string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s %q already exists", e.Resource, e.Key)
}

// IsConflict reports whether err is a ConflictError.
func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

// Service is the façade over the catalog tables.
type Service struct {
	db  *sql.DB
	log *slog.Logger
}

// New creates a Service. log may be nil (falls back to slog.Default).
func New(db *sql.DB, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{db: db, log: log}
}

// isUniqueViolation detects Postgres unique-constraint failures.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate") || strings.Contains(msg, "unique")
}

// inTx runs fn inside a transaction, committing on nil error.
func (s *Service) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// updateContentGauge refreshes the catalog size metric. Failures are
// logged and ignored; metrics never fail a request.
func (s *Service) updateContentGauge(ctx context.Context) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM contents`).Scan(&n); err != nil {
		s.log.Warn("content gauge refresh failed", "error", err)
		return
	}
	metrics.CatalogContents.Set(float64(n))
}
