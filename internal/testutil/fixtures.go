// fixtures.go — test data seed helpers.
// Canonical fixtures for admins, contents, sections, and menu items.
package testutil

import (
	"database/sql"
	"fmt"
	"testing"
	"time"
)

// Admin is a minimal test admin account.
type Admin struct {
	ID    string
	Email string
}

// SeedAdmin inserts a test admin with the given bcrypt hash and returns it.
func SeedAdmin(t *testing.T, db *sql.DB, hash string) *Admin {
	t.Helper()
	a := &Admin{
		Email: fmt.Sprintf("admin-%d@example.com", time.Now().UnixNano()),
	}
	err := db.QueryRow(`
		INSERT INTO admins (email, password_hash)
		VALUES ($1, $2)
		RETURNING id
	`, a.Email, hash).Scan(&a.ID)
	if err != nil {
		t.Fatalf("seed admin: %v", err)
	}
	return a
}

// SeedContent inserts a test content row.
func SeedContent(t *testing.T, db *sql.DB, externalID int, mediaType string, available bool) {
	t.Helper()
	_, err := db.Exec(`
		INSERT INTO contents (external_id, media_type, available)
		VALUES ($1, $2, $3)
	`, externalID, mediaType, available)
	if err != nil {
		t.Fatalf("seed content: %v", err)
	}
}

// SeedSection inserts a test section and returns its id.
func SeedSection(t *testing.T, db *sql.DB, name, apiString, mediaType string, order int) string {
	t.Helper()
	var id string
	err := db.QueryRow(`
		INSERT INTO sections (name, api_string, media_type, active, sort_order)
		VALUES ($1, $2, $3, TRUE, $4)
		RETURNING id
	`, name, apiString, mediaType, order).Scan(&id)
	if err != nil {
		t.Fatalf("seed section: %v", err)
	}
	return id
}

// SeedMenuItem inserts a test menu item and returns its id.
func SeedMenuItem(t *testing.T, db *sql.DB, name, path string, order int) string {
	t.Helper()
	var id string
	err := db.QueryRow(`
		INSERT INTO menu_items (name, path, active, sort_order)
		VALUES ($1, $2, TRUE, $3)
		RETURNING id
	`, name, path, order).Scan(&id)
	if err != nil {
		t.Fatalf("seed menu item: %v", err)
	}
	return id
}
