// content.go — Content lifecycle: the unit of catalog curation.
//
// A content row marks one provider title (external_id + media_type) as
// part of the curated catalog. All display metadata stays at the
// provider; locally we store only visibility and season gating.
package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/marqueetv/marquee/internal/audit"
	"github.com/marqueetv/marquee/internal/validate"
)

// Content is one curated title.
// AvailableSeason is nil for "all seasons"; it is always nil for movies.
type Content struct {
	ExternalID      int       `json:"external_id"`
	MediaType       string    `json:"media_type"`
	Available       bool      `json:"available"`
	AvailableSeason *int      `json:"available_season"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

const contentCols = "external_id, media_type, available, available_season, created_at, updated_at"

func scanContent(row interface{ Scan(...interface{}) error }) (*Content, error) {
	var c Content
	err := row.Scan(&c.ExternalID, &c.MediaType, &c.Available, &c.AvailableSeason, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ContentFilter narrows ListContent. Zero values mean "no filter".
type ContentFilter struct {
	Available *bool
	MediaType string
	Page      int
	Limit     int
}

// ListContent returns matching contents newest-first, with the total
// count before pagination.
func (s *Service) ListContent(ctx context.Context, f ContentFilter) ([]Content, int, error) {
	if f.Limit <= 0 || f.Limit > 200 {
		f.Limit = 50
	}
	if f.Page < 1 {
		f.Page = 1
	}

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if f.Available != nil {
		where += fmt.Sprintf(" AND available = $%d", argIdx)
		args = append(args, *f.Available)
		argIdx++
	}
	if f.MediaType != "" {
		where += fmt.Sprintf(" AND media_type = $%d", argIdx)
		args = append(args, f.MediaType)
		argIdx++
	}

	var total int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contents "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, f.Limit, (f.Page-1)*f.Limit)
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+contentCols+`
		FROM contents
		`+where+`
		ORDER BY created_at DESC
		LIMIT $`+fmt.Sprintf("%d", argIdx)+` OFFSET $`+fmt.Sprintf("%d", argIdx+1),
		args...,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	items := []Content{}
	for rows.Next() {
		c, err := scanContent(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, *c)
	}
	return items, total, rows.Err()
}

// GetContent fetches one content by its composite key.
func (s *Service) GetContent(ctx context.Context, externalID int, mediaType string) (*Content, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+contentCols+`
		FROM contents
		WHERE external_id = $1 AND media_type = $2`,
		externalID, mediaType,
	)
	c, err := scanContent(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ResolveMediaType finds the media type for an external id when the
// caller did not supply one. Errors with ErrNotFound when absent and a
// validation error when the id exists as both a movie and a TV show.
func (s *Service) ResolveMediaType(ctx context.Context, externalID int) (string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT media_type FROM contents WHERE external_id = $1`, externalID)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var types []string
	for rows.Next() {
		var mt string
		if err := rows.Scan(&mt); err != nil {
			return "", err
		}
		types = append(types, mt)
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	switch len(types) {
	case 0:
		return "", ErrNotFound
	case 1:
		return types[0], nil
	default:
		return "", &validate.ValidationError{Field: "media_type", Message: "ambiguous external id, specify media_type"}
	}
}

// CreateContentInput is the payload for CreateContent.
// Available defaults to true when nil.
type CreateContentInput struct {
	ExternalID      int    `json:"external_id"`
	MediaType       string `json:"media_type"`
	Available       *bool  `json:"available"`
	AvailableSeason *int   `json:"available_season"`
}

// CreateContent imports one provider title into the catalog.
// Returns a ConflictError when the (external_id, media_type) pair
// already exists.
func (s *Service) CreateContent(ctx context.Context, actor string, in CreateContentInput) (*Content, error) {
	var me validate.MultiError
	if in.ExternalID <= 0 {
		me.Add(&validate.ValidationError{Field: "external_id", Message: "must be a positive integer"})
	}
	me.Add(validate.IsMediaType("media_type", in.MediaType))
	if me.HasErrors() {
		return nil, &me
	}

	available := true
	if in.Available != nil {
		available = *in.Available
	}
	season := in.AvailableSeason
	// Season gating only applies to TV.
	if in.MediaType == "movie" {
		season = nil
	}

	var created *Content
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `
			INSERT INTO contents (external_id, media_type, available, available_season)
			VALUES ($1, $2, $3, $4)
			RETURNING `+contentCols,
			in.ExternalID, in.MediaType, available, season,
		)
		c, err := scanContent(row)
		if err != nil {
			if isUniqueViolation(err) {
				return &ConflictError{Resource: "content", Key: fmt.Sprintf("%d/%s", in.ExternalID, in.MediaType)}
			}
			return err
		}
		created = c

		return audit.Record(ctx, tx, actor, "CREATE_CONTENT", fmt.Sprintf("%d", in.ExternalID), map[string]interface{}{
			"media_type": in.MediaType,
			"available":  available,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("content created", "external_id", created.ExternalID, "media_type", created.MediaType, "actor", actor)
	s.updateContentGauge(ctx)
	return created, nil
}

// ContentPatch is a partial update. Nil fields are left unchanged.
// An AvailableSeason of 0 clears the gate (all seasons available).
type ContentPatch struct {
	Available       *bool `json:"available"`
	AvailableSeason *int  `json:"available_season"`
}

// UpdateContent applies a partial update to one content.
func (s *Service) UpdateContent(ctx context.Context, actor string, externalID int, mediaType string, patch ContentPatch) (*Content, error) {
	if err := validate.IsMediaType("media_type", mediaType); err != nil {
		var me validate.MultiError
		me.Add(err)
		return nil, &me
	}

	set := "updated_at = now()"
	args := []interface{}{}
	argIdx := 1
	changes := map[string]interface{}{}

	if patch.Available != nil {
		set += fmt.Sprintf(", available = $%d", argIdx)
		args = append(args, *patch.Available)
		argIdx++
		changes["available"] = *patch.Available
	}
	if patch.AvailableSeason != nil && mediaType == "tv" {
		if *patch.AvailableSeason == 0 {
			set += ", available_season = NULL"
			changes["available_season"] = nil
		} else {
			set += fmt.Sprintf(", available_season = $%d", argIdx)
			args = append(args, *patch.AvailableSeason)
			argIdx++
			changes["available_season"] = *patch.AvailableSeason
		}
	}

	var updated *Content
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		args = append(args, externalID, mediaType)
		row := tx.QueryRowContext(ctx, fmt.Sprintf(`
			UPDATE contents SET %s
			WHERE external_id = $%d AND media_type = $%d
			RETURNING `+contentCols, set, argIdx, argIdx+1),
			args...,
		)
		c, err := scanContent(row)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		updated = c

		return audit.Record(ctx, tx, actor, "UPDATE_CONTENT", fmt.Sprintf("%d", externalID), changes)
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("content updated", "external_id", externalID, "media_type", mediaType, "actor", actor)
	return updated, nil
}

// DeleteContent removes one content. Hero settings referencing it are
// deliberately left alone; public hero resolution degrades to "no hero"
// when its target no longer resolves.
func (s *Service) DeleteContent(ctx context.Context, actor string, externalID int, mediaType string) error {
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx,
			`DELETE FROM contents WHERE external_id = $1 AND media_type = $2`,
			externalID, mediaType,
		)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}

		return audit.Record(ctx, tx, actor, "DELETE_CONTENT", fmt.Sprintf("%d", externalID), map[string]interface{}{
			"media_type": mediaType,
		})
	})
	if err != nil {
		return err
	}

	s.log.Info("content deleted", "external_id", externalID, "media_type", mediaType, "actor", actor)
	s.updateContentGauge(ctx)
	return nil
}
