package catalog

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNameFromPath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"people.csv", "people"},
		{"/data/test-with-dash.csv", "test_with_dash"},
		{"dir/a-b-c.csv", "a_b_c"},
		{"no_extension", "no_extension"},
		{"archive.2024.csv", "archive.2024"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, TableNameFromPath(tt.path))
		})
	}
}

func TestSameSchema(t *testing.T) {
	a := Table{Name: "t", Columns: []Column{{"a", "INTEGER"}, {"b", "VARCHAR"}}}

	assert.True(t, a.SameSchema(Table{Name: "other", Columns: []Column{{"a", "INTEGER"}, {"b", "VARCHAR"}}}))
	assert.False(t, a.SameSchema(Table{Columns: []Column{{"b", "VARCHAR"}, {"a", "INTEGER"}}}), "order matters")
	assert.False(t, a.SameSchema(Table{Columns: []Column{{"a", "BIGINT"}, {"b", "VARCHAR"}}}))
	assert.False(t, a.SameSchema(Table{}))
}

func TestDescribe(t *testing.T) {
	src := newFakeSource()
	src.tables["people"] = []Column{{"name", "VARCHAR"}}

	tbl, err := Describe(context.Background(), src, "people")
	require.NoError(t, err)
	assert.Equal(t, Table{Name: "people", Columns: []Column{{"name", "VARCHAR"}}}, tbl)

	src.columnsErr["people"] = errors.New("nope")
	_, err = Describe(context.Background(), src, "people")
	assert.Error(t, err)
}
