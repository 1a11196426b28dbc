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

func TestCheckPermutation(t *testing.T) {
	current := map[string]bool{"a": true, "b": true, "c": true}

	tests := []struct {
		name    string
		keys    []string
		vals    []int
		wantErr bool
	}{
		{"valid permutation", []string{"a", "b", "c"}, []int{2, 1, 3}, false},
		{"identity", []string{"a", "b", "c"}, []int{1, 2, 3}, false},
		{"missing key", []string{"a", "b"}, []int{1, 2}, true},
		{"extra key", []string{"a", "b", "c", "d"}, []int{1, 2, 3, 4}, true},
		{"unknown key", []string{"a", "b", "x"}, []int{1, 2, 3}, true},
		{"duplicate key", []string{"a", "b", "b"}, []int{1, 2, 3}, true},
		{"gap in orders", []string{"a", "b", "c"}, []int{1, 2, 4}, true},
		{"duplicate order", []string{"a", "b", "c"}, []int{1, 2, 2}, true},
		{"zero order", []string{"a", "b", "c"}, []int{0, 1, 2}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkPermutation("name", tt.keys, tt.vals, current)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCheckPermutationEmptySet(t *testing.T) {
	assert.NoError(t, checkPermutation("name", nil, nil, map[string]bool{}))
}

func sectionRows(names ...string) *sqlmock.Rows {
	rows := sqlmock.NewRows([]string{"id", "name", "api_string", "media_type", "active", "sort_order", "created_at", "updated_at"})
	now := time.Now()
	for i, name := range names {
		rows.AddRow("00000000-0000-0000-0000-00000000000"+string(rune('1'+i)), name, "popular", "movie", true, i+1, now, now)
	}
	return rows
}

func TestCreateSectionConflict(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO sections").
		WillReturnError(errPQDuplicate)
	mock.ExpectRollback()

	_, err := svc.CreateSection(context.Background(), "admin@example.com", SectionInput{
		Name:      "Trending Now",
		APIString: "trending",
		MediaType: "movie",
	})
	require.Error(t, err)
	assert.True(t, IsConflict(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateSectionValidation(t *testing.T) {
	svc, _ := newMockService(t)

	_, err := svc.CreateSection(context.Background(), "admin@example.com", SectionInput{
		Name:      "",
		APIString: "not_a_category",
		MediaType: "podcast",
	})
	var me *validate.MultiError
	require.ErrorAs(t, err, &me)
	assert.GreaterOrEqual(t, len(me.Errors), 3)
}

func TestReorderSectionsRejectsPartialSet(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name FROM sections FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("a").AddRow("b").AddRow("c"))
	mock.ExpectRollback()

	_, err := svc.ReorderSections(context.Background(), "admin@example.com", []SectionOrder{
		{Name: "a", Order: 1},
		{Name: "b", Order: 2},
	})
	var me *validate.MultiError
	require.ErrorAs(t, err, &me)
	// No UPDATE, no admin_logs entry: validation happens before any write.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderSectionsRejectsUnknownName(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name FROM sections FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("a").AddRow("b"))
	mock.ExpectRollback()

	_, err := svc.ReorderSections(context.Background(), "admin@example.com", []SectionOrder{
		{Name: "a", Order: 1},
		{Name: "x", Order: 2},
	})
	var me *validate.MultiError
	require.ErrorAs(t, err, &me)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReorderSections(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT name FROM sections FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"name"}).AddRow("a").AddRow("b"))
	mock.ExpectExec("UPDATE sections SET sort_order").
		WithArgs(2, "a").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE sections SET sort_order").
		WithArgs(1, "b").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO admin_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()
	mock.ExpectQuery("SELECT (.+) FROM sections ORDER BY sort_order").
		WillReturnRows(sectionRows("b", "a"))

	sections, err := svc.ReorderSections(context.Background(), "admin@example.com", []SectionOrder{
		{Name: "a", Order: 2},
		{Name: "b", Order: 1},
	})
	require.NoError(t, err)
	require.Len(t, sections, 2)
	assert.Equal(t, "b", sections[0].Name)
	assert.Equal(t, "a", sections[1].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateSectionRename(t *testing.T) {
	svc, mock := newMockService(t)
	newName := "Fresh Picks"

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE sections SET").
		WithArgs(newName, "Trending Now").
		WillReturnRows(sectionRows(newName))
	mock.ExpectExec("INSERT INTO admin_logs").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	sec, err := svc.UpdateSection(context.Background(), "admin@example.com", "Trending Now",
		SectionPatch{Name: &newName})
	require.NoError(t, err)
	assert.Equal(t, newName, sec.Name)
}

func TestDeleteSectionNotFound(t *testing.T) {
	svc, mock := newMockService(t)

	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM sections").
		WithArgs("Nope").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := svc.DeleteSection(context.Background(), "admin@example.com", "Nope")
	assert.ErrorIs(t, err, ErrNotFound)
}
