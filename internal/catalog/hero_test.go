package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marqueetv/marquee/internal/validate"
)

func heroRow(contentID, mediaType string, customTitle *string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"content_id", "media_type", "custom_title", "custom_description", "custom_backdrop", "season_label", "updated_at"}).
		AddRow(contentID, mediaType, customTitle, nil, nil, nil, time.Now())
}

func TestGetHeroUnset(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery("SELECT (.+) FROM hero_settings").
		WillReturnRows(sqlmock.NewRows([]string{"content_id", "media_type", "custom_title", "custom_description", "custom_backdrop", "season_label", "updated_at"}))

	hero, err := svc.GetHero(context.Background())
	require.NoError(t, err)
	assert.Nil(t, hero)
}

func TestUpdateHeroUpsert(t *testing.T) {
	svc, mock := newMockService(t)
	title := "Custom Title"

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO hero_settings").
		WillReturnRows(heroRow("603", "movie", &title))
	mock.ExpectExec("INSERT INTO admin_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	hero, err := svc.UpdateHero(context.Background(), "admin@example.com", HeroInput{
		ContentID:   "603",
		MediaType:   "movie",
		CustomTitle: &title,
	})
	require.NoError(t, err)
	assert.Equal(t, "603", hero.ContentID)
	require.NotNil(t, hero.CustomTitle)
	assert.Equal(t, title, *hero.CustomTitle)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateHeroValidation(t *testing.T) {
	svc, _ := newMockService(t)

	_, err := svc.UpdateHero(context.Background(), "admin@example.com", HeroInput{
		ContentID: "",
		MediaType: "radio",
	})
	var me *validate.MultiError
	require.ErrorAs(t, err, &me)
	assert.Len(t, me.Errors, 2)
}
