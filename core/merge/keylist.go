package merge

// BuildKeyList builds the ordered per-column expressions of a composite
// comparison key. Each expression is optionally qualified by prefix and,
// when a type map is supplied, cast to the column's resolved type. The
// staging side passes types so text values compare against native ones;
// the target side passes nil because its columns are already typed.
//
// Two composite keys are equal iff they are equal positionally, so column
// order is preserved.
func BuildKeyList(dialect string, columns []string, prefix string, types map[string]ColumnType) ([]string, error) {
	exprs := make([]string, len(columns))
	for i, col := range columns {
		expr := quoteIdent(dialect, col)
		if prefix != "" {
			expr = quoteIdent(dialect, prefix) + "." + expr
		}
		if types != nil {
			t, ok := types[col]
			if !ok {
				return nil, &ColumnNotFoundError{Column: col}
			}
			expr = "CAST(" + expr + " AS " + castType(dialect, t) + ")"
		}
		exprs[i] = expr
	}
	return exprs, nil
}
