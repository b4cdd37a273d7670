package merge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func testSpec(mode Mode) Spec {
	return Spec{
		Target:  "products",
		Staging: "staging_a1b2",
		Mapping: ColumnMapping{
			{Source: "id", Target: "id"},
			{Source: "name", Target: "name"},
		},
		Keys: []string{"id"},
		Mode: mode,
	}
}

func testTypes() map[string]ColumnType {
	return map[string]ColumnType{
		"id":   TypeInteger,
		"name": TypeText,
	}
}

func TestBuildPlan_Append_MySQL(t *testing.T) {
	plan, err := BuildPlan(testSpec(ModeAppend), testTypes(), "mysql")
	assert.NoError(t, err)
	assert.Len(t, plan, 1)
	assert.Equal(t, OpInsert, plan[0].Kind)
	assert.Equal(t,
		"INSERT INTO `products` (`id`, `name`) "+
			"SELECT CAST(`s`.`id` AS SIGNED), CAST(`s`.`name` AS CHAR) "+
			"FROM `staging_a1b2` AS `s` "+
			"WHERE NOT EXISTS (SELECT 1 FROM `products` AS `t` WHERE `t`.`id` = CAST(`s`.`id` AS SIGNED))",
		plan[0].SQL,
	)
}

func TestBuildPlan_Append_SQLite(t *testing.T) {
	plan, err := BuildPlan(testSpec(ModeAppend), testTypes(), "sqlite")
	assert.NoError(t, err)
	assert.Len(t, plan, 1)
	assert.Equal(t,
		`INSERT INTO "products" ("id", "name") `+
			`SELECT CAST("s"."id" AS INTEGER), CAST("s"."name" AS TEXT) `+
			`FROM "staging_a1b2" AS "s" `+
			`WHERE NOT EXISTS (SELECT 1 FROM "products" AS "t" WHERE "t"."id" = CAST("s"."id" AS INTEGER))`,
		plan[0].SQL,
	)
}

func TestBuildPlan_Update_FullDiff_MySQL(t *testing.T) {
	plan, err := BuildPlan(testSpec(ModeUpdate), testTypes(), "mysql")
	assert.NoError(t, err)
	assert.Len(t, plan, 2)
	assert.Equal(t, OpInsert, plan[0].Kind)
	assert.Equal(t, OpUpdate, plan[1].Kind)
	assert.Equal(t,
		"UPDATE `products` AS `t` JOIN `staging_a1b2` AS `s` "+
			"ON `t`.`id` = CAST(`s`.`id` AS SIGNED) "+
			"SET `t`.`id` = CAST(`s`.`id` AS SIGNED), `t`.`name` = CAST(`s`.`name` AS CHAR) "+
			"WHERE (NOT (`t`.`name` <=> CAST(`s`.`name` AS CHAR)))",
		plan[1].SQL,
	)
}

func TestBuildPlan_Update_FullDiff_SQLite(t *testing.T) {
	plan, err := BuildPlan(testSpec(ModeUpdate), testTypes(), "sqlite")
	assert.NoError(t, err)
	assert.Len(t, plan, 2)
	assert.Equal(t,
		`UPDATE "products" AS "t" `+
			`SET "id" = CAST("s"."id" AS INTEGER), "name" = CAST("s"."name" AS TEXT) `+
			`FROM "staging_a1b2" AS "s" `+
			`WHERE "t"."id" = CAST("s"."id" AS INTEGER) AND ("t"."name" IS NOT CAST("s"."name" AS TEXT))`,
		plan[1].SQL,
	)
}

func TestBuildPlan_Update_TimestampShortcut(t *testing.T) {
	spec := testSpec(ModeUpdate)
	spec.Mapping = append(spec.Mapping, ColumnPair{Source: "updated_at", Target: "updated_at"})
	types := testTypes()
	types["updated_at"] = TypeTimestamp

	plan, err := BuildPlan(spec, types, "mysql")
	assert.NoError(t, err)
	assert.Len(t, plan, 2)

	// The change test collapses to one monotonic comparison, no value diff
	assert.Contains(t, plan[1].SQL, "WHERE CAST(`s`.`updated_at` AS DATETIME) > `t`.`updated_at`")
	assert.NotContains(t, plan[1].SQL, "<=>")
}

func TestBuildPlan_Update_ExplicitUpdatedColumn(t *testing.T) {
	spec := testSpec(ModeUpdate)
	spec.Mapping = append(spec.Mapping, ColumnPair{Source: "modified", Target: "last_seen"})
	spec.UpdatedColumn = "last_seen"
	types := testTypes()
	types["last_seen"] = TypeTimestamp

	plan, err := BuildPlan(spec, types, "mysql")
	assert.NoError(t, err)
	assert.Contains(t, plan[1].SQL, "CAST(`s`.`modified` AS DATETIME) > `t`.`last_seen`")
}

func TestBuildPlan_Update_NothingToCompare(t *testing.T) {
	// Every mapped column is a key: no non-key tuple to diff, no update
	spec := Spec{
		Target:  "tags",
		Staging: "staging_ffff",
		Mapping: ColumnMapping{{Source: "tag", Target: "tag"}},
		Keys:    []string{"tag"},
		Mode:    ModeUpdate,
	}
	plan, err := BuildPlan(spec, map[string]ColumnType{"tag": TypeText}, "mysql")
	assert.NoError(t, err)
	assert.Len(t, plan, 1)
	assert.Equal(t, OpInsert, plan[0].Kind)
}

func TestBuildPlan_Replace(t *testing.T) {
	plan, err := BuildPlan(testSpec(ModeReplace), testTypes(), "mysql")
	assert.NoError(t, err)
	assert.Len(t, plan, 2)

	// Truncate strictly precedes the insert
	assert.Equal(t, OpTruncate, plan[0].Kind)
	assert.Equal(t, "DELETE FROM `products`", plan[0].SQL)
	assert.Equal(t, OpInsert, plan[1].Kind)
}

func TestBuildPlan_InvalidMode(t *testing.T) {
	spec := testSpec("sideways")
	_, err := BuildPlan(spec, testTypes(), "mysql")

	var modeErr *UnknownMergeModeError
	assert.True(t, errors.As(err, &modeErr))
}

func TestBuildPlan_KeyOutsideMapping(t *testing.T) {
	spec := testSpec(ModeAppend)
	spec.Keys = []string{"sku"}
	_, err := BuildPlan(spec, testTypes(), "mysql")

	var colErr *ColumnNotFoundError
	assert.True(t, errors.As(err, &colErr))
	assert.Equal(t, "sku", colErr.Column)
}

func TestBuildPlan_TargetColumnMissingFromSchema(t *testing.T) {
	spec := testSpec(ModeAppend)
	spec.Mapping = append(spec.Mapping, ColumnPair{Source: "price", Target: "price"})
	_, err := BuildPlan(spec, testTypes(), "mysql")

	var colErr *ColumnNotFoundError
	assert.True(t, errors.As(err, &colErr))
	assert.Equal(t, "price", colErr.Column)
}

func TestBuildPlan_DuplicateTarget(t *testing.T) {
	spec := testSpec(ModeAppend)
	spec.Mapping = append(spec.Mapping, ColumnPair{Source: "alias", Target: "name"})
	_, err := BuildPlan(spec, testTypes(), "mysql")

	var colErr *ColumnNotFoundError
	assert.True(t, errors.As(err, &colErr))
}
