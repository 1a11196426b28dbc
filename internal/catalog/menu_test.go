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

const (
	menuID1 = "6e9c1c4e-3a42-4e83-b7a0-111111111111"
	menuID2 = "6e9c1c4e-3a42-4e83-b7a0-222222222222"
)

func menuRows(pairs ...[2]string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "path", "active", "sort_order", "created_at", "updated_at"})
	now := time.Now()
	for i, p := range pairs {
		rows.AddRow(p[0], p[1], "/"+p[1], true, i+1, now, now)
	}
	return rows
}

func TestCreateMenuItemValidation(t *testing.T) {
	svc, _ := newMockService(t)

	tests := []struct {
		name string
		in   MenuItemInput
	}{
		{"empty name", MenuItemInput{Name: "", Path: "/movies"}},
		{"bad path", MenuItemInput{Name: "Movies", Path: "movies"}},
		{"bad scheme", MenuItemInput{Name: "Ext", Path: "ftp://example.com"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateMenuItem(context.Background(), "admin@example.com", tt.in)
			var me *validate.MultiError
			assert.ErrorAs(t, err, &me)
		})
	}
}

func TestCreateMenuItemAppendsAtEnd(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO menu_items").
		WithArgs("Movies", "/movies", true).
		WillReturnRows(menuRows([2]string{menuID1, "Movies"}))
	mock.ExpectExec("INSERT INTO admin_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	item, err := svc.CreateMenuItem(context.Background(), "admin@example.com", MenuItemInput{
		Name: "Movies",
		Path: "/movies",
	})
	require.NoError(t, err)
	assert.Equal(t, menuID1, item.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateMenuItemRejectsBadID(t *testing.T) {
	svc, _ := newMockService(t)
	name := "Renamed"

	_, err := svc.UpdateMenuItem(context.Background(), "admin@example.com", "not-a-uuid",
		MenuItemPatch{Name: &name})
	var me *validate.MultiError
	assert.ErrorAs(t, err, &me)
}

func TestDeleteMenuItemNotFound(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM menu_items").
		WithArgs(menuID1).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := svc.DeleteMenuItem(context.Background(), "admin@example.com", menuID1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReorderMenuItems(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM menu_items FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(menuID1).AddRow(menuID2))
	mock.ExpectExec("UPDATE menu_items SET sort_order").
		WithArgs(2, menuID1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE menu_items SET sort_order").
		WithArgs(1, menuID2).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO admin_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM menu_items ORDER BY sort_order").
		WillReturnRows(menuRows([2]string{menuID2, "TV"}, [2]string{menuID1, "Movies"}))

	items, err := svc.ReorderMenuItems(context.Background(), "admin@example.com", []MenuItemOrder{
		{ID: menuID1, Order: 2},
		{ID: menuID2, Order: 1},
	})
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, menuID2, items[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderMenuItemsRejectsGap(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM menu_items FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(menuID1).AddRow(menuID2))
	mock.ExpectRollback()

	_, err := svc.ReorderMenuItems(context.Background(), "admin@example.com", []MenuItemOrder{
		{ID: menuID1, Order: 1},
		{ID: menuID2, Order: 3},
	})
	var me *validate.MultiError
	require.ErrorAs(t, err, &me)
	assert.NoError(t, mock.ExpectationsWereMet())
}
