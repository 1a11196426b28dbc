package handlers

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/marqueetv/marquee/internal/catalog"
	"github.com/marqueetv/marquee/internal/testutil"
)

func newPingServer(t *testing.T) (http.Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := New(db, catalog.New(db, nil), &fakeProvider{}, testSecret, 24*time.Hour, nil, nil)
	return s.Routes(), mock
}

func TestHealthOK(t *testing.T) {
	h, mock := newPingServer(t)
	mock.ExpectPing()

	rec := testutil.GetJSON(t, h, "/healthz")

	testutil.AssertStatus(t, rec, http.StatusOK)
	assert.Contains(t, rec.Body.String(), `"status":"ok"`)
}

func TestHealthDegradedWhenDBUnreachable(t *testing.T) {
	h, mock := newPingServer(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))

	rec := testutil.GetJSON(t, h, "/healthz")

	testutil.AssertStatus(t, rec, http.StatusServiceUnavailable)
	assert.Contains(t, rec.Body.String(), `"db":"unreachable"`)
}
