package merge

import (
	"errors"
	"strings"

	"stage-merge/core/database"

	"gorm.io/gorm"
)

// ColumnType is the native type tag assigned to a target column. Staged
// text values are cast to this tag for comparison and storage.
type ColumnType string

const (
	TypeInteger   ColumnType = "integer"
	TypeFloat     ColumnType = "float"
	TypeBoolean   ColumnType = "boolean"
	TypeTimestamp ColumnType = "timestamp"
	TypeDate      ColumnType = "date"
	TypeText      ColumnType = "text"
)

// ResolveTypes queries the storage engine's schema metadata and returns the
// type tag for every column of the target table. A missing or unreadable
// relation fails with SchemaLookupError.
func ResolveTypes(db *gorm.DB, table string) (map[string]ColumnType, error) {
	columns, err := database.GetTableColumns(db, table)
	if err != nil {
		return nil, &SchemaLookupError{Table: table, Err: err}
	}
	// SQLite reports an empty column list instead of an error for an
	// unknown table, so an empty result also counts as missing.
	if len(columns) == 0 {
		return nil, &SchemaLookupError{Table: table, Err: errors.New("relation does not exist")}
	}

	types := make(map[string]ColumnType, len(columns))
	for _, col := range columns {
		types[col.Field] = normalizeType(col.Type)
	}
	return types, nil
}

// normalizeType folds a raw driver type string ("int(11)", "varchar(120)",
// "tinyint(1)", "datetime") into the closed ColumnType set. Anything
// unrecognized is treated as text, which leaves the staged value untouched.
func normalizeType(raw string) ColumnType {
	t := strings.ToLower(strings.TrimSpace(raw))

	// MySQL uses tinyint(1) for booleans.
	if t == "bool" || t == "boolean" || strings.HasPrefix(t, "tinyint(1)") {
		return TypeBoolean
	}

	base := t
	if i := strings.IndexAny(base, "( "); i >= 0 {
		base = base[:i]
	}

	switch base {
	case "int", "integer", "bigint", "smallint", "mediumint", "tinyint":
		return TypeInteger
	case "decimal", "numeric", "float", "double", "real":
		return TypeFloat
	case "datetime", "timestamp":
		return TypeTimestamp
	case "date":
		return TypeDate
	default:
		return TypeText
	}
}
