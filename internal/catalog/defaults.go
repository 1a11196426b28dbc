// defaults.go — default homepage sections installed on first run.
package catalog

import (
	"context"
	"database/sql"
)

// defaultSections is the stock homepage layout for a fresh install.
var defaultSections = []struct {
	Name      string
	APIString string
	MediaType string
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

// EnsureDefaultSections installs the default section set when the table
// is empty. Called at startup; a curated install is never touched.
func (s *Service) EnsureDefaultSections(ctx context.Context) error {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sections`).Scan(&n); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	err := s.inTx(ctx, func(tx *sql.Tx) error {
		for i, def := range defaultSections {
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO sections (name, api_string, media_type, active, sort_order)
				VALUES ($1, $2, $3, true, $4)
				ON CONFLICT (name) DO NOTHING`,
				def.Name, def.APIString, def.MediaType, i+1,
			); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.log.Info("default sections installed", "count", len(defaultSections))
	return nil
}
