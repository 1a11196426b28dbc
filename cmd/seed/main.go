// cmd/seed/main.go — development seed script for Marquee.
//
// What it seeds:
//
//  1. The default admin account (ADMIN_EMAIL / ADMIN_PASSWORD, bcrypt)
//  2. The nine default homepage sections
//  3. A starter navigation menu
//  4. A handful of sample catalog entries (well-known TMDB ids)
//
// Usage:
//
//	go run ./cmd/seed                        # seed everything
//	go run ./cmd/seed --only=admin,sections  # seed specific categories
//	go run ./cmd/seed --dry-run              # print what would be inserted, no DB writes
//
// Environment:
//
//	DATABASE_URL    — database connection string (required)
//	ADMIN_EMAIL     — default admin email (default: admin@marquee.local)
//	ADMIN_PASSWORD  — default admin password (required unless --dry-run)
//
// Safety: all INSERTs use ON CONFLICT DO NOTHING so re-running is safe.
// Run in development only — never against production.
package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/marqueetv/marquee/internal/auth"
	"github.com/marqueetv/marquee/internal/database"
)

var (
	dryRun = flag.Bool("dry-run", false, "print what would be inserted without writing")
	only   = flag.String("only", "", "comma-separated categories: admin,sections,menu,contents")
)

type seeder struct {
	db  *sql.DB
	dry bool
}

func (s *seeder) exec(ctx context.Context, desc, query string, args ...interface{}) error {
	if s.dry {
		log.Printf("[dry-run] %s", desc)
		return nil
	}
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", desc, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		log.Printf("[skip] %s (already present)", desc)
	} else {
		log.Printf("[ok] %s", desc)
	}
	return nil
}

func (s *seeder) seedAdmin(ctx context.Context) error {
	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@marquee.local"
	}
	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		if s.dry {
			log.Printf("[dry-run] admin %s (password from ADMIN_PASSWORD)", email)
			return nil
		}
		return fmt.Errorf("ADMIN_PASSWORD not set")
	}
	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	return s.exec(ctx, "admin "+email,
		`INSERT INTO admins (email, password_hash) VALUES ($1, $2)
		 ON CONFLICT (email) DO NOTHING`, email, hash)
}

var sections = []struct {
	name, apiString, mediaType string
}{
	{"Trending Now", "trending", "movie"},
	{"Popular Movies", "popular", "movie"},
	{"Top Rated Movies", "top_rated", "movie"},
	{"Now Playing", "now_playing", "movie"},
	{"Upcoming", "upcoming", "movie"},
	{"Popular TV Shows", "popular", "tv"},
	{"Top Rated TV Shows", "top_rated", "tv"},
	{"Airing Today", "airing_today", "tv"},
	{"On The Air", "on_the_air", "tv"},
}

func (s *seeder) seedSections(ctx context.Context) error {
	for i, sec := range sections {
		err := s.exec(ctx, "section "+sec.name,
			`INSERT INTO sections (name, api_string, media_type, active, sort_order)
			 VALUES ($1, $2, $3, TRUE, $4)
			 ON CONFLICT (name) DO NOTHING`,
			sec.name, sec.apiString, sec.mediaType, i+1)
		if err != nil {
			return err
		}
	}
	return nil
}

var menuItems = []struct {
	name, path string
}{
	{"Home", "/"},
	{"Movies", "/movies"},
	{"TV Shows", "/tv"},
	{"My List", "/list"},
}

func (s *seeder) seedMenu(ctx context.Context) error {
	for i, item := range menuItems {
		err := s.exec(ctx, "menu item "+item.name,
			`INSERT INTO menu_items (name, path, active, sort_order)
			 SELECT $1, $2, TRUE, $3
			 WHERE NOT EXISTS (SELECT 1 FROM menu_items WHERE name = $1)`,
			item.name, item.path, i+1)
		if err != nil {
			return err
		}
	}
	return nil
}

// Sample catalog entries with stable, well-known TMDB ids.
var contents = []struct {
	externalID int
	mediaType  string
	desc       string
}{
	{603, "movie", "The Matrix"},
	{550, "movie", "Fight Club"},
	{27205, "movie", "Inception"},
	{1396, "tv", "Breaking Bad"},
	{1399, "tv", "Game of Thrones"},
}

func (s *seeder) seedContents(ctx context.Context) error {
	for _, c := range contents {
		err := s.exec(ctx, fmt.Sprintf("content %s (%d/%s)", c.desc, c.externalID, c.mediaType),
			`INSERT INTO contents (external_id, media_type, available)
			 VALUES ($1, $2, TRUE)
			 ON CONFLICT (external_id, media_type) DO NOTHING`,
			c.externalID, c.mediaType)
		if err != nil {
			return err
		}
	}
	return nil
}

func main() {
	flag.Parse()
	_ = godotenv.Load()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	var db *sql.DB
	if !*dryRun {
		var err error
		db, err = database.Connect(dsn)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer db.Close()
		if err := database.Migrate(db); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	s := &seeder{db: db, dry: *dryRun}

	wanted := map[string]bool{}
	if *only != "" {
		for _, c := range strings.Split(*only, ",") {
			wanted[strings.TrimSpace(c)] = true
		}
	}
	want := func(c string) bool { return len(wanted) == 0 || wanted[c] }

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"admin", s.seedAdmin},
		{"sections", s.seedSections},
		{"menu", s.seedMenu},
		{"contents", s.seedContents},
	}
	for _, step := range steps {
		if !want(step.name) {
			continue
		}
		if err := step.fn(ctx); err != nil {
			log.Fatalf("seed %s: %v", step.name, err)
		}
	}
	log.Println("seed complete")
}
