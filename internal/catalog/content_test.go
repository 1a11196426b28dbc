package catalog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marqueetv/marquee/internal/validate"
)

var errPQDuplicate = errors.New(`pq: duplicate key value violates unique constraint`)

func newMockService(t *testing.T) (*Service, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, nil), mock
}

func contentRows(ids ...int) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"external_id", "media_type", "available", "available_season", "created_at", "updated_at"})
	now := time.Now()
	for _, id := range ids {
		rows.AddRow(id, "movie", true, nil, now, now)
	}
	return rows
}

func TestCreateContent(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO contents").
		WithArgs(603, "movie", true, nil).
		WillReturnRows(contentRows(603))
	mock.ExpectExec("INSERT INTO admin_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM contents`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	c, err := svc.CreateContent(context.Background(), "admin@example.com", CreateContentInput{
		ExternalID: 603,
		MediaType:  "movie",
	})
	require.NoError(t, err)
	assert.Equal(t, 603, c.ExternalID)
	assert.True(t, c.Available)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateContentConflictRollsBack(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO contents").
		WillReturnError(errPQDuplicate)
	mock.ExpectRollback()

	_, err := svc.CreateContent(context.Background(), "admin@example.com", CreateContentInput{
		ExternalID: 603,
		MediaType:  "movie",
	})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	// No admin_logs insert, no commit: a failed create leaves no trace.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateContentValidation(t *testing.T) {
	svc, _ := newMockService(t)

	_, err := svc.CreateContent(context.Background(), "admin@example.com", CreateContentInput{
		ExternalID: 0,
		MediaType:  "radio",
	})
	require.Error(t, err)
	var me *validate.MultiError
	require.ErrorAs(t, err, &me)
	assert.Len(t, me.Errors, 2)
}

func TestCreateContentIgnoresSeasonForMovies(t *testing.T) {
	svc, mock := newMockService(t)
	season := 3

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO contents").
		WithArgs(603, "movie", true, nil).
		WillReturnRows(contentRows(603))
	mock.ExpectExec("INSERT INTO admin_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM contents`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	_, err := svc.CreateContent(context.Background(), "admin@example.com", CreateContentInput{
		ExternalID:      603,
		MediaType:       "movie",
		AvailableSeason: &season,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateContentClearSeason(t *testing.T) {
	svc, mock := newMockService(t)
	zero := 0

	rows := sqlmock.NewRows([]string{"external_id", "media_type", "available", "available_season", "created_at", "updated_at"}).
		AddRow(1396, "tv", true, nil, time.Now(), time.Now())

	mock.ExpectBegin()
	mock.ExpectQuery(`UPDATE contents SET .*available_season = NULL`).
		WithArgs(1396, "tv").
		WillReturnRows(rows)
	mock.ExpectExec("INSERT INTO admin_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	c, err := svc.UpdateContent(context.Background(), "admin@example.com", 1396, "tv",
		ContentPatch{AvailableSeason: &zero})
	require.NoError(t, err)
	assert.Nil(t, c.AvailableSeason)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateContentNotFound(t *testing.T) {
	svc, mock := newMockService(t)
	avail := false

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE contents SET").
		WillReturnRows(sqlmock.NewRows([]string{"external_id", "media_type", "available", "available_season", "created_at", "updated_at"}))
	mock.ExpectRollback()

	_, err := svc.UpdateContent(context.Background(), "admin@example.com", 42, "movie",
		ContentPatch{Available: &avail})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteContentNotFound(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM contents").
		WithArgs(42, "movie").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := svc.DeleteContent(context.Background(), "admin@example.com", 42, "movie")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveMediaType(t *testing.T) {
	t.Run("single match", func(t *testing.T) {
		svc, mock := newMockService(t)
		mock.ExpectQuery("SELECT media_type FROM contents").
			WithArgs(603).
			WillReturnRows(sqlmock.NewRows([]string{"media_type"}).AddRow("movie"))

		mt, err := svc.ResolveMediaType(context.Background(), 603)
		require.NoError(t, err)
		assert.Equal(t, "movie", mt)
	})

	t.Run("absent", func(t *testing.T) {
		svc, mock := newMockService(t)
		mock.ExpectQuery("SELECT media_type FROM contents").
			WillReturnRows(sqlmock.NewRows([]string{"media_type"}))

		_, err := svc.ResolveMediaType(context.Background(), 42)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("ambiguous", func(t *testing.T) {
		svc, mock := newMockService(t)
		mock.ExpectQuery("SELECT media_type FROM contents").
			WillReturnRows(sqlmock.NewRows([]string{"media_type"}).AddRow("movie").AddRow("tv"))

		_, err := svc.ResolveMediaType(context.Background(), 100)
		var ve *validate.ValidationError
		assert.ErrorAs(t, err, &ve)
	})
}

func TestListContentDefaults(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM contents`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery("SELECT (.+) FROM contents").
		WithArgs(50, 0).
		WillReturnRows(contentRows(603, 550))

	items, total, err := svc.ListContent(context.Background(), ContentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, items, 2)
}
