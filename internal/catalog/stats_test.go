package catalog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetStats(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "movies", "tv", "visible", "hidden"}).
			AddRow(5, 3, 2, 4, 1))
	mock.ExpectQuery("SELECT (.+) FROM contents").
		WillReturnRows(contentRows(603))
	mock.ExpectQuery("SELECT (.+) FROM hero_settings").
		WillReturnRows(heroRow("603", "movie", nil))

	st, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 5, st.Total)
	assert.Equal(t, 3, st.Movies)
	assert.Equal(t, 2, st.TVShows)
	assert.Equal(t, 4, st.Visible)
	assert.Equal(t, 1, st.Hidden)
	require.NotNil(t, st.LastAdded)
	assert.Equal(t, 603, st.LastAdded.ExternalID)
	require.NotNil(t, st.CurrentHero)
	assert.Equal(t, "603", st.CurrentHero.ContentID)
}

func TestGetStatsEmptyCatalog(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WillReturnRows(sqlmock.NewRows([]string{"total", "movies", "tv", "visible", "hidden"}).
			AddRow(0, 0, 0, 0, 0))
	mock.ExpectQuery("SELECT (.+) FROM contents").
		WillReturnRows(contentRows())
	mock.ExpectQuery("SELECT (.+) FROM hero_settings").
		WillReturnRows(sqlmock.NewRows([]string{"content_id", "media_type", "custom_title", "custom_description", "custom_backdrop", "season_label", "updated_at"}))

	st, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, st.Total)
	assert.Nil(t, st.LastAdded)
	assert.Nil(t, st.CurrentHero)
}
