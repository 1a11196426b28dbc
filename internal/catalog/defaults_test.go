package catalog

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDefaultSectionsSkipsCuratedInstall(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sections`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(4))

	require.NoError(t, svc.EnsureDefaultSections(context.Background()))
	// No inserts when sections already exist.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestEnsureDefaultSectionsInstallsOnEmpty(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM sections`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectBegin()
	for range defaultSections {
		mock.ExpectExec("INSERT INTO sections").
			WillReturnResult(sqlmock.NewResult(1, 1))
	}
	mock.ExpectCommit()

	require.NoError(t, svc.EnsureDefaultSections(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}
