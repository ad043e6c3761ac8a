package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapview/internal/catalog"
	"github.com/leapstack-labs/leapview/internal/testutil"
)

func TestCreateTablesFromDirectory(t *testing.T) {
	s, rec := openSession(t, Config{})
	dir := t.TempDir()

	testutil.WriteFiles(t, dir, map[string]string{
		"people.csv":         "id,name\n1,alice\n2,bob\n",
		"test-with-dash.csv": "x\n1\n",
		"notes.txt":          "not data",
	})
	testutil.WriteFile(t, filepath.Join(dir, "nested"), "deep.csv", "a\n1\n")

	report, err := s.CreateTablesFromDirectory(context.Background(), dir)
	require.NoError(t, err)

	assert.Equal(t, dir, report.Dir)
	assert.Empty(t, report.Failed)
	require.Len(t, report.Imported, 2)
	assert.Equal(t, "people", report.Imported[0].Name)
	assert.Equal(t, "test_with_dash", report.Imported[1].Name)

	assert.Equal(t, []string{"added:people", "added:test_with_dash"}, rec.kinds())
	assert.Equal(t, []catalog.Column{
		{Name: "id", Type: "BIGINT"},
		{Name: "name", Type: "VARCHAR"},
	}, rec.events[0].columns)

	set, err := s.Execute(context.Background(), "SELECT name FROM people ORDER BY id")
	require.NoError(t, err)
	require.NotNil(t, set)
	assert.Equal(t, [][]any{{"alice"}, {"bob"}}, set.Rows)

	// the follow-up refresh finds nothing new
	assert.Len(t, rec.events, 2)
}

func TestCreateTablesFromDirectory_FailureDoesNotStopImport(t *testing.T) {
	s, _ := openSession(t, Config{})
	ctx := context.Background()

	_, err := s.Execute(ctx, "CREATE TABLE people (id INTEGER)")
	require.NoError(t, err)

	rec := &recorder{}
	s.Subscribe(rec)

	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"animals.csv": "kind\ncat\n",
		"people.csv":  "id,name\n1,alice\n",
	})

	report, err := s.CreateTablesFromDirectory(ctx, dir)
	require.NoError(t, err)

	require.Len(t, report.Imported, 1)
	assert.Equal(t, "animals", report.Imported[0].Name)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, filepath.Join(dir, "people.csv"), report.Failed[0].Path)

	assert.Equal(t, []string{"added:animals", "error:"}, rec.kinds())
	assert.Contains(t, rec.events[1].message, "people.csv: ")
	assert.Contains(t, rec.events[1].message, "people")
	assert.Equal(t, rec.events[1].message, report.Failed[0].Message)

	// the existing table is untouched
	tbl, ok := s.Table("people")
	require.True(t, ok)
	assert.Equal(t, []catalog.Column{{Name: "id", Type: "INTEGER"}}, tbl.Columns)
}

func TestCreateTablesFromDirectory_EmptyDir(t *testing.T) {
	s, rec := openSession(t, Config{})

	report, err := s.CreateTablesFromDirectory(context.Background(), t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, report.Imported)
	assert.Empty(t, report.Failed)
	assert.Empty(t, rec.events)
}

func TestCreateTablesFromDirectory_MissingDir(t *testing.T) {
	s, rec := openSession(t, Config{})

	_, err := s.CreateTablesFromDirectory(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read data directory")
	assert.Empty(t, rec.events)
}

func TestCreateTableFromFile(t *testing.T) {
	s, rec := openSession(t, Config{})
	path := testutil.WriteFile(t, t.TempDir(), "test-with-dash.csv", "a,b\nx,1\n")

	tbl, ok := s.CreateTableFromFile(context.Background(), path)
	require.True(t, ok)
	require.NotNil(t, tbl)

	assert.Equal(t, "test_with_dash", tbl.Name)
	assert.Equal(t, []catalog.Column{{Name: "a", Type: "VARCHAR"}, {Name: "b", Type: "BIGINT"}}, tbl.Columns)
	assert.Equal(t, []string{"added:test_with_dash"}, rec.kinds())
}

func TestCreateTableFromFile_Twice(t *testing.T) {
	s, rec := openSession(t, Config{})
	path := testutil.WriteFile(t, t.TempDir(), "data.csv", "a\n1\n")

	_, ok := s.CreateTableFromFile(context.Background(), path)
	require.True(t, ok)
	tbl, ok := s.CreateTableFromFile(context.Background(), path)
	assert.False(t, ok)
	assert.Nil(t, tbl)

	assert.Equal(t, []string{"added:data", "error:"}, rec.kinds())
}

func TestCreateTableFromFile_Missing(t *testing.T) {
	s, rec := openSession(t, Config{})

	tbl, ok := s.CreateTableFromFile(context.Background(), filepath.Join(t.TempDir(), "ghost.csv"))
	assert.False(t, ok)
	assert.Nil(t, tbl)

	require.Len(t, rec.errors(), 1)
	assert.Contains(t, rec.errors()[0], "ghost.csv: ")
	assert.Empty(t, s.Tables())
}

func TestDataFiles(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFiles(t, dir, map[string]string{
		"b.csv":   "x\n",
		"a.CSV":   "x\n",
		"c.json":  "{}",
		"csv":     "",
		"d.csv.x": "",
	})

	files, err := DataFiles(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.CSV"), filepath.Join(dir, "b.csv")}, files)
}

func TestIsDataFile(t *testing.T) {
	assert.True(t, IsDataFile("x.csv"))
	assert.True(t, IsDataFile("/tmp/X.CSV"))
	assert.False(t, IsDataFile("x.tsv"))
	assert.False(t, IsDataFile("csv"))
}
