package staging

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createSet(t *testing.T, db *gorm.DB, columns ...string) *Set {
	t.Helper()
	set := NewSet(columns)
	require.NoError(t, set.Create(context.Background(), db))
	return set
}

func count(t *testing.T, db *gorm.DB, table, where string) int64 {
	t.Helper()
	q := "SELECT COUNT(*) FROM " + table
	if where != "" {
		q += " WHERE " + where
	}
	var n int64
	require.NoError(t, db.Raw(q).Scan(&n).Error)
	return n
}

func TestLoader_CSVWithHeader(t *testing.T) {
	db := setupSQLite(t)
	set := createSet(t, db, "id", "name")

	input := "id,name\n1,Keyboard\n2,Mouse\n"
	loaded, err := NewLoader(DefaultOptions()).Load(context.Background(), db, set, strings.NewReader(input))
	assert.NoError(t, err)
	assert.Equal(t, 2, loaded)
	assert.Equal(t, int64(2), count(t, db, set.Table, ""))
}

func TestLoader_NoHeader(t *testing.T) {
	db := setupSQLite(t)
	set := createSet(t, db, "id", "name")

	opts := DefaultOptions()
	opts.Header = false

	loaded, err := NewLoader(opts).Load(context.Background(), db, set, strings.NewReader("1,A\n2,B\n3,C\n"))
	assert.NoError(t, err)
	assert.Equal(t, 3, loaded)
}

func TestLoader_EmptyInput(t *testing.T) {
	db := setupSQLite(t)
	set := createSet(t, db, "id")

	loaded, err := NewLoader(DefaultOptions()).Load(context.Background(), db, set, strings.NewReader(""))
	assert.NoError(t, err)
	assert.Equal(t, 0, loaded)
}

func TestLoader_NullToken(t *testing.T) {
	db := setupSQLite(t)
	set := createSet(t, db, "id", "name")

	t.Run("Default Empty Cell", func(t *testing.T) {
		loaded, err := NewLoader(DefaultOptions()).Load(context.Background(), db, set, strings.NewReader("id,name\n1,\n"))
		assert.NoError(t, err)
		assert.Equal(t, 1, loaded)
		assert.Equal(t, int64(1), count(t, db, set.Table, "name IS NULL"))
	})

	t.Run("Explicit Token", func(t *testing.T) {
		opts := DefaultOptions()
		opts.NullToken = `\N`

		loaded, err := NewLoader(opts).Load(context.Background(), db, set, strings.NewReader("id,name\n2,\\N\n3,\n"))
		assert.NoError(t, err)
		assert.Equal(t, 2, loaded)

		// Only the token is NULL; the empty cell stays an empty string
		assert.Equal(t, int64(1), count(t, db, set.Table, "id = '2' AND name IS NULL"))
		assert.Equal(t, int64(1), count(t, db, set.Table, "id = '3' AND name = ''"))
	})
}

func TestLoader_Delimiter(t *testing.T) {
	db := setupSQLite(t)
	set := createSet(t, db, "id", "name")

	opts := DefaultOptions()
	opts.Comma = ';'

	loaded, err := NewLoader(opts).Load(context.Background(), db, set, strings.NewReader("id;name\n1;Keyboard\n"))
	assert.NoError(t, err)
	assert.Equal(t, 1, loaded)
	assert.Equal(t, int64(1), count(t, db, set.Table, "name = 'Keyboard'"))
}

func TestLoader_BatchBoundaries(t *testing.T) {
	db := setupSQLite(t)
	set := createSet(t, db, "id")

	opts := DefaultOptions()
	opts.Header = false
	opts.BatchSize = 2

	loaded, err := NewLoader(opts).Load(context.Background(), db, set, strings.NewReader("1\n2\n3\n4\n5\n"))
	assert.NoError(t, err)
	assert.Equal(t, 5, loaded)
	assert.Equal(t, int64(5), count(t, db, set.Table, ""))
}

func TestLoader_FieldCountMismatch(t *testing.T) {
	db := setupSQLite(t)
	set := createSet(t, db, "id", "name")

	_, err := NewLoader(DefaultOptions()).Load(context.Background(), db, set, strings.NewReader("id,name\n1,A,extra\n"))
	assert.Error(t, err)
}
