package result

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// queryMock returns live *sql.Rows backed by sqlmock.
func queryMock(t *testing.T, rows *sqlmock.Rows) *sql.Rows {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	mock.ExpectQuery("SELECT").WillReturnRows(rows)
	r, err := db.Query("SELECT * FROM anything")
	require.NoError(t, err)
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestScan(t *testing.T) {
	rows := queryMock(t, sqlmock.NewRows([]string{"name", "age"}).
		AddRow("Alice", int64(25)).
		AddRow([]byte("Bob"), int64(30)))

	set, err := Scan(rows, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "age"}, set.Columns)
	assert.Equal(t, [][]any{{"Alice", int64(25)}, {"Bob", int64(30)}}, set.Rows)
	assert.False(t, set.Truncated)
	assert.Equal(t, 1, set.ColumnIndex("age"))
	assert.Equal(t, -1, set.ColumnIndex("missing"))
}

func TestScan_StopsAtCap(t *testing.T) {
	mockRows := sqlmock.NewRows([]string{"n"})
	for i := 0; i < 10; i++ {
		mockRows.AddRow(int64(i))
	}
	rows := queryMock(t, mockRows)

	set, err := Scan(rows, 3)
	require.NoError(t, err)

	assert.Len(t, set.Rows, 3)
	assert.True(t, set.Truncated)
}

func TestScan_ExactlyAtCapIsNotTruncated(t *testing.T) {
	rows := queryMock(t, sqlmock.NewRows([]string{"n"}).AddRow(int64(1)).AddRow(int64(2)))

	set, err := Scan(rows, 2)
	require.NoError(t, err)

	assert.Len(t, set.Rows, 2)
	assert.False(t, set.Truncated)
}

func TestScan_RowError(t *testing.T) {
	rows := queryMock(t, sqlmock.NewRows([]string{"n"}).
		AddRow(int64(1)).
		AddRow(int64(2)).
		RowError(1, errors.New("bad row")))

	_, err := Scan(rows, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad row")
}

func TestSetEmpty(t *testing.T) {
	var nilSet *Set
	assert.True(t, nilSet.Empty())
	assert.True(t, (&Set{}).Empty())
	assert.False(t, (&Set{Columns: []string{"a"}}).Empty())
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"nil", nil, "NULL"},
		{"bytes", []byte("abc"), "abc"},
		{"int", int64(25), "25"},
		{"float", 100.5, "100.5"},
		{"bool", true, "true"},
		{"date", time.Date(2021, 1, 2, 0, 0, 0, 0, time.UTC), "2021-01-02"},
		{"timestamp", time.Date(2021, 1, 2, 3, 4, 5, 0, time.UTC), "2021-01-02 03:04:05"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatValue(tt.in))
		})
	}
}
