package merge

import "strings"

// OpKind tags a planned statement with the kind of mutation it performs.
type OpKind string

const (
	// OpInsert inserts selected staging rows into the target.
	OpInsert OpKind = "insert"
	// OpUpdate rewrites changed target rows from staging values.
	OpUpdate OpKind = "update"
	// OpTruncate clears the target ahead of a replace.
	OpTruncate OpKind = "truncate"
)

// Statement is one atomic mutating instruction of a plan. Order matters:
// later statements may depend on earlier ones having committed, e.g. the
// truncate preceding the insert in replace mode.
type Statement struct {
	Kind OpKind
	SQL  string
}

// Table aliases used inside planned statements.
const (
	stagingAlias = "s"
	targetAlias  = "t"
)

// BuildPlan transforms a validated spec into the ordered statement list for
// its merge mode. It is a pure function of (spec, types, dialect) and never
// touches the database, so the three strategies are testable without one.
func BuildPlan(spec Spec, types map[string]ColumnType, dialect string) ([]Statement, error) {
	if err := spec.validate(types); err != nil {
		return nil, err
	}

	insert, err := buildInsert(spec, types, dialect)
	if err != nil {
		return nil, err
	}

	switch spec.Mode {
	case ModeAppend:
		return []Statement{insert}, nil
	case ModeUpdate:
		// New rows land first, then drift among shared keys is reconciled.
		plan := []Statement{insert}
		update, ok, err := buildUpdate(spec, types, dialect)
		if err != nil {
			return nil, err
		}
		if ok {
			plan = append(plan, update)
		}
		return plan, nil
	case ModeReplace:
		// The clear is a set-based DELETE rather than TRUNCATE TABLE so it
		// stays inside the surrounding transaction; MySQL TRUNCATE is DDL
		// and would implicitly commit.
		clear := Statement{
			Kind: OpTruncate,
			SQL:  "DELETE FROM " + quoteIdent(dialect, spec.Target),
		}
		return []Statement{clear, insert}, nil
	default:
		return nil, &UnknownMergeModeError{Mode: string(spec.Mode)}
	}
}

// stagingTypes maps each staging source column to its target's type, so
// staging-side key lists cast text values to the native target type.
func stagingTypes(spec Spec, types map[string]ColumnType) map[string]ColumnType {
	out := make(map[string]ColumnType, len(spec.Mapping))
	for _, p := range spec.Mapping {
		out[p.Source] = types[p.Target]
	}
	return out
}

// keyMatch builds the positional identity predicate joining staging and
// target: cast staging key column = plain target key column, per key.
func keyMatch(spec Spec, types map[string]ColumnType, dialect string) (string, error) {
	srcTypes := stagingTypes(spec, types)
	stagingKeys, err := BuildKeyList(dialect, spec.Keys, stagingAlias, srcTypes)
	if err != nil {
		return "", err
	}
	targets, err := spec.keyTargets()
	if err != nil {
		return "", err
	}
	targetKeys, err := BuildKeyList(dialect, targets, targetAlias, nil)
	if err != nil {
		return "", err
	}

	parts := make([]string, len(stagingKeys))
	for i := range stagingKeys {
		parts[i] = targetKeys[i] + " = " + stagingKeys[i]
	}
	return strings.Join(parts, " AND "), nil
}

// buildInsert synthesizes the anti-join insert: staging rows whose composite
// key matches no target row are inserted under their mapped target names,
// every value cast to its target type.
func buildInsert(spec Spec, types map[string]ColumnType, dialect string) (Statement, error) {
	srcTypes := stagingTypes(spec, types)
	selectExprs, err := BuildKeyList(dialect, spec.Mapping.Sources(), stagingAlias, srcTypes)
	if err != nil {
		return Statement{}, err
	}

	targetCols := make([]string, len(spec.Mapping))
	for i, target := range spec.Mapping.Targets() {
		targetCols[i] = quoteIdent(dialect, target)
	}

	match, err := keyMatch(spec, types, dialect)
	if err != nil {
		return Statement{}, err
	}

	var b strings.Builder
	b.WriteString("INSERT INTO " + quoteIdent(dialect, spec.Target))
	b.WriteString(" (" + strings.Join(targetCols, ", ") + ")")
	b.WriteString(" SELECT " + strings.Join(selectExprs, ", "))
	b.WriteString(" FROM " + quoteIdent(dialect, spec.Staging) + " AS " + quoteIdent(dialect, stagingAlias))
	b.WriteString(" WHERE NOT EXISTS (SELECT 1 FROM " + quoteIdent(dialect, spec.Target) + " AS " + quoteIdent(dialect, targetAlias))
	b.WriteString(" WHERE " + match + ")")

	return Statement{Kind: OpInsert, SQL: b.String()}, nil
}

// buildUpdate synthesizes the single set-based update for rows whose key
// exists in both sets and whose values changed. With a designated
// update-timestamp column the change test is a cheap strictly-greater
// comparison; otherwise the ordered tuple of non-key mapped values is
// diffed null-safely. The second return is false when there is nothing to
// compare, i.e. every mapped column belongs to the key.
func buildUpdate(spec Spec, types map[string]ColumnType, dialect string) (Statement, bool, error) {
	srcTypes := stagingTypes(spec, types)

	changed, err := changePredicate(spec, types, srcTypes, dialect)
	if err != nil {
		return Statement{}, false, err
	}
	if changed == "" {
		return Statement{}, false, nil
	}

	match, err := keyMatch(spec, types, dialect)
	if err != nil {
		return Statement{}, false, err
	}

	// Every mapped target column is rewritten from the staging row's cast
	// value, matched by identity key.
	assignments := make([]string, len(spec.Mapping))
	for i, p := range spec.Mapping {
		exprs, err := BuildKeyList(dialect, []string{p.Source}, stagingAlias, srcTypes)
		if err != nil {
			return Statement{}, false, err
		}
		lhs := quoteIdent(dialect, p.Target)
		if !isSQLite(dialect) {
			lhs = quoteIdent(dialect, targetAlias) + "." + lhs
		}
		assignments[i] = lhs + " = " + exprs[0]
	}

	var b strings.Builder
	if isSQLite(dialect) {
		b.WriteString("UPDATE " + quoteIdent(dialect, spec.Target) + " AS " + quoteIdent(dialect, targetAlias))
		b.WriteString(" SET " + strings.Join(assignments, ", "))
		b.WriteString(" FROM " + quoteIdent(dialect, spec.Staging) + " AS " + quoteIdent(dialect, stagingAlias))
		b.WriteString(" WHERE " + match + " AND " + changed)
	} else {
		b.WriteString("UPDATE " + quoteIdent(dialect, spec.Target) + " AS " + quoteIdent(dialect, targetAlias))
		b.WriteString(" JOIN " + quoteIdent(dialect, spec.Staging) + " AS " + quoteIdent(dialect, stagingAlias))
		b.WriteString(" ON " + match)
		b.WriteString(" SET " + strings.Join(assignments, ", "))
		b.WriteString(" WHERE " + changed)
	}

	return Statement{Kind: OpUpdate, SQL: b.String()}, true, nil
}

// changePredicate returns the SQL deciding whether a matched row changed,
// or "" when no comparison is possible.
func changePredicate(spec Spec, types, srcTypes map[string]ColumnType, dialect string) (string, error) {
	if tsTarget := spec.timestampColumn(types); tsTarget != "" {
		tsSource, ok := spec.Mapping.SourceFor(tsTarget)
		if !ok {
			return "", &ColumnNotFoundError{Column: tsTarget}
		}
		staged, err := BuildKeyList(dialect, []string{tsSource}, stagingAlias, srcTypes)
		if err != nil {
			return "", err
		}
		stored, err := BuildKeyList(dialect, []string{tsTarget}, targetAlias, nil)
		if err != nil {
			return "", err
		}
		return staged[0] + " > " + stored[0], nil
	}

	var diffs []string
	for _, p := range spec.Mapping {
		if spec.isKeySource(p.Source) {
			continue
		}
		staged, err := BuildKeyList(dialect, []string{p.Source}, stagingAlias, srcTypes)
		if err != nil {
			return "", err
		}
		stored, err := BuildKeyList(dialect, []string{p.Target}, targetAlias, nil)
		if err != nil {
			return "", err
		}
		diffs = append(diffs, notEqual(dialect, stored[0], staged[0]))
	}
	if len(diffs) == 0 {
		return "", nil
	}
	return "(" + strings.Join(diffs, " OR ") + ")", nil
}
