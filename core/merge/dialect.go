package merge

// Dialect-specific SQL fragments. Only the two drivers the database package
// opens are distinguished; anything that is not sqlite gets MySQL syntax,
// mirroring how the schema inspector branches.

// isSQLite reports whether the dialect name belongs to the SQLite driver.
func isSQLite(dialect string) bool {
	return dialect == "sqlite"
}

// quoteIdent quotes a single identifier for the dialect.
func quoteIdent(dialect, name string) string {
	if isSQLite(dialect) {
		return `"` + name + `"`
	}
	return "`" + name + "`"
}

// castType returns the type name usable inside CAST(... AS ...) for the
// given column type tag. SQLite has no datetime affinity, so timestamps
// and dates stay TEXT there; ISO-8601 strings compare correctly as text.
func castType(dialect string, t ColumnType) string {
	if isSQLite(dialect) {
		switch t {
		case TypeInteger, TypeBoolean:
			return "INTEGER"
		case TypeFloat:
			return "REAL"
		default:
			return "TEXT"
		}
	}
	switch t {
	case TypeInteger:
		return "SIGNED"
	case TypeBoolean:
		return "SIGNED"
	case TypeFloat:
		return "DOUBLE"
	case TypeTimestamp:
		return "DATETIME"
	case TypeDate:
		return "DATE"
	default:
		return "CHAR"
	}
}

// notEqual returns a null-safe inequality between two expressions, so a
// NULL on either side counts as a difference rather than unknown.
func notEqual(dialect, a, b string) string {
	if isSQLite(dialect) {
		return a + " IS NOT " + b
	}
	return "NOT (" + a + " <=> " + b + ")"
}
