// hero.go — the homepage hero spotlight.
//
// Hero settings are a single logical record, pinned to id 1 in a
// one-row table, and always replaced wholesale. content_id is not a
// foreign key: deleting the referenced content leaves the record
// dangling, and public resolution renders "no hero" instead.
package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/marqueetv/marquee/internal/audit"
	"github.com/marqueetv/marquee/internal/validate"
)

// HeroSettings describes which content is spotlighted and optional
// display overrides. Nil override fields fall back to provider data at
// resolution time; SeasonLabel has no fallback.
type HeroSettings struct {
	ContentID         string    `json:"content_id"`
	MediaType         string    `json:"media_type"`
	CustomTitle       *string   `json:"custom_title"`
	CustomDescription *string   `json:"custom_description"`
	CustomBackdrop    *string   `json:"custom_backdrop"`
	SeasonLabel       *string   `json:"season_label"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// GetHero returns the current hero settings, or nil when none are set.
func (s *Service) GetHero(ctx context.Context) (*HeroSettings, error) {
	var h HeroSettings
	err := s.db.QueryRowContext(ctx, `
		SELECT content_id, media_type, custom_title, custom_description,
		       custom_backdrop, season_label, updated_at
		FROM hero_settings WHERE id = 1`,
	).Scan(&h.ContentID, &h.MediaType, &h.CustomTitle, &h.CustomDescription,
		&h.CustomBackdrop, &h.SeasonLabel, &h.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}

// HeroInput is the payload for UpdateHero. ContentID and MediaType are
// required; everything else is optional.
type HeroInput struct {
	ContentID         string  `json:"content_id"`
	MediaType         string  `json:"media_type"`
	CustomTitle       *string `json:"custom_title"`
	CustomDescription *string `json:"custom_description"`
	CustomBackdrop    *string `json:"custom_backdrop"`
	SeasonLabel       *string `json:"season_label"`
}

// UpdateHero replaces the hero settings wholesale.
func (s *Service) UpdateHero(ctx context.Context, actor string, in HeroInput) (*HeroSettings, error) {
	var me validate.MultiError
	me.Add(validate.NonEmptyString("content_id", in.ContentID))
	me.Add(validate.IsMediaType("media_type", in.MediaType))
	if me.HasErrors() {
		return nil, &me
	}

	var updated HeroSettings
	err := s.inTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO hero_settings
			       (id, content_id, media_type, custom_title, custom_description, custom_backdrop, season_label, updated_at)
			VALUES (1, $1, $2, $3, $4, $5, $6, now())
			ON CONFLICT (id) DO UPDATE SET
				content_id         = EXCLUDED.content_id,
				media_type         = EXCLUDED.media_type,
				custom_title       = EXCLUDED.custom_title,
				custom_description = EXCLUDED.custom_description,
				custom_backdrop    = EXCLUDED.custom_backdrop,
				season_label       = EXCLUDED.season_label,
				updated_at         = now()
			RETURNING content_id, media_type, custom_title, custom_description,
			          custom_backdrop, season_label, updated_at`,
			in.ContentID, in.MediaType, in.CustomTitle, in.CustomDescription,
			in.CustomBackdrop, in.SeasonLabel,
		).Scan(&updated.ContentID, &updated.MediaType, &updated.CustomTitle,
			&updated.CustomDescription, &updated.CustomBackdrop,
			&updated.SeasonLabel, &updated.UpdatedAt)
		if err != nil {
			return err
		}

		return audit.Record(ctx, tx, actor, "UPDATE_HERO", in.ContentID, map[string]interface{}{
			"media_type": in.MediaType,
		})
	})
	if err != nil {
		return nil, err
	}

	s.log.Info("hero updated", "content_id", updated.ContentID, "media_type", updated.MediaType, "actor", actor)
	return &updated, nil
}
