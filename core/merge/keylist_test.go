package merge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildKeyList_CastWithPrefix(t *testing.T) {
	types := map[string]ColumnType{
		"id":         TypeInteger,
		"updated_at": TypeTimestamp,
	}

	exprs, err := BuildKeyList("mysql", []string{"id", "updated_at"}, "s", types)
	assert.NoError(t, err)
	assert.Equal(t, []string{
		"CAST(`s`.`id` AS SIGNED)",
		"CAST(`s`.`updated_at` AS DATETIME)",
	}, exprs)
}

func TestBuildKeyList_PlainTargetSide(t *testing.T) {
	// nil types means already-typed columns: no cast
	exprs, err := BuildKeyList("mysql", []string{"id", "name"}, "t", nil)
	assert.NoError(t, err)
	assert.Equal(t, []string{"`t`.`id`", "`t`.`name`"}, exprs)
}

func TestBuildKeyList_NoPrefix(t *testing.T) {
	exprs, err := BuildKeyList("sqlite", []string{"name"}, "", map[string]ColumnType{"name": TypeText})
	assert.NoError(t, err)
	assert.Equal(t, []string{`CAST("name" AS TEXT)`}, exprs)
}

func TestBuildKeyList_OrderPreserved(t *testing.T) {
	types := map[string]ColumnType{"a": TypeText, "b": TypeText}

	first, err := BuildKeyList("sqlite", []string{"a", "b"}, "s", types)
	assert.NoError(t, err)
	second, err := BuildKeyList("sqlite", []string{"b", "a"}, "s", types)
	assert.NoError(t, err)

	// Composite keys compare positionally, so order must survive
	assert.NotEqual(t, first, second)
	assert.Equal(t, first[0], second[1])
}

func TestBuildKeyList_UnresolvedColumn(t *testing.T) {
	_, err := BuildKeyList("mysql", []string{"missing"}, "s", map[string]ColumnType{"id": TypeInteger})
	assert.Error(t, err)

	var colErr *ColumnNotFoundError
	assert.True(t, errors.As(err, &colErr))
	assert.Equal(t, "missing", colErr.Column)
}
