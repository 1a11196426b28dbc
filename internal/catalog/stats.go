// stats.go — dashboard aggregates, computed from current state.
package catalog

import (
	"context"
	"database/sql"

	"github.com/marqueetv/marquee/internal/metrics"
)

// Stats is the admin dashboard aggregate.
type Stats struct {
	Total       int           `json:"total"`
	Movies      int           `json:"movies"`
	TVShows     int           `json:"tv_shows"`
	Visible     int           `json:"visible"`
	Hidden      int           `json:"hidden"`
	LastAdded   *Content      `json:"last_added"`
	CurrentHero *HeroSettings `json:"current_hero"`
}

// GetStats computes the aggregate in one pass over the contents table
// plus the hero singleton. Nothing is persisted.
func (s *Service) GetStats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE media_type = 'movie'),
		       COUNT(*) FILTER (WHERE media_type = 'tv'),
		       COUNT(*) FILTER (WHERE available),
		       COUNT(*) FILTER (WHERE NOT available)
		FROM contents`,
	).Scan(&st.Total, &st.Movies, &st.TVShows, &st.Visible, &st.Hidden)
	if err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+contentCols+`
		FROM contents
		ORDER BY created_at DESC
		LIMIT 1`,
	)
	last, err := scanContent(row)
	switch {
	case err == sql.ErrNoRows:
		// Empty catalog.
	case err != nil:
		return nil, err
	default:
		st.LastAdded = last
	}

	hero, err := s.GetHero(ctx)
	if err != nil {
		return nil, err
	}
	st.CurrentHero = hero

	metrics.CatalogContents.Set(float64(st.Total))
	return &st, nil
}
