// Package audit writes and queries the append-only admin activity log.
//
// Every state-changing admin operation records exactly one entry. Writes
// go through the same transaction as the mutation they describe, so a
// rolled-back operation leaves no trace and a committed one always has
// its entry.
//
// Action vocabulary: LOGIN, CREATE_CONTENT, UPDATE_CONTENT,
// DELETE_CONTENT, UPDATE_HERO, CREATE_SECTION, UPDATE_SECTION,
// DELETE_SECTION, REORDER_SECTIONS, CREATE_MENU_ITEM, UPDATE_MENU_ITEM,
// DELETE_MENU_ITEM, REORDER_MENU.
package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
)

// Execer is satisfied by both *sql.DB and *sql.Tx.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// Record inserts one log entry. contentID may be empty (stored as NULL);
// details may be nil.
func Record(ctx context.Context, q Execer, adminEmail, action, contentID string, details map[string]interface{}) error {
	detailsJSON, err := json.Marshal(details)
	if err != nil || details == nil {
		detailsJSON = []byte("{}")
	}

	_, err = q.ExecContext(ctx, `
		INSERT INTO admin_logs (admin_email, action, content_id, details)
		VALUES ($1, $2, NULLIF($3, ''), $4)`,
		adminEmail, action, contentID, string(detailsJSON),
	)
	if err != nil {
		return fmt.Errorf("audit: record %s: %w", action, err)
	}
	return nil
}

// Entry is a row from the admin_logs table.
type Entry struct {
	ID         string                 `json:"id"`
	AdminEmail string                 `json:"admin_email"`
	Action     string                 `json:"action"`
	ContentID  *string                `json:"content_id"`
	Details    map[string]interface{} `json:"details"`
	CreatedAt  string                 `json:"created_at"`
}

// Query fetches paginated log entries in reverse-chronological order,
// optionally filtered to one action kind.
func Query(ctx context.Context, db *sql.DB, action string, limit, offset int) ([]Entry, int, error) {
	if limit <= 0 || limit > 200 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if action != "" {
		where += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, action)
		argIdx++
	}

	var total int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admin_logs "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offset)
	rows, err := db.QueryContext(ctx, `
		SELECT id, admin_email, action, content_id, details, created_at
		FROM admin_logs
		`+where+`
		ORDER BY created_at DESC
		LIMIT $`+fmt.Sprintf("%d", argIdx)+` OFFSET $`+fmt.Sprintf("%d", argIdx+1),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var detailsJSON string
		if err := rows.Scan(&e.ID, &e.AdminEmail, &e.Action, &e.ContentID, &detailsJSON, &e.CreatedAt); err != nil {
			return nil, 0, err
		}
		_ = json.Unmarshal([]byte(detailsJSON), &e.Details)
		entries = append(entries, e)
	}
	if entries == nil {
		entries = []Entry{}
	}
	return entries, total, rows.Err()
}
