package merge

// ColumnPair maps one staged source column to one target column.
type ColumnPair struct {
	// Source is the column label in the staging table.
	Source string
	// Target is the column identifier in the destination schema.
	Target string
}

// ColumnMapping is the ordered mapping from staged source columns to target
// columns. It defines both which source columns are read and which target
// columns are written. Target names must be unique.
type ColumnMapping []ColumnPair

// Sources returns the source column names in mapping order.
func (m ColumnMapping) Sources() []string {
	out := make([]string, len(m))
	for i, p := range m {
		out[i] = p.Source
	}
	return out
}

// Targets returns the target column names in mapping order.
func (m ColumnMapping) Targets() []string {
	out := make([]string, len(m))
	for i, p := range m {
		out[i] = p.Target
	}
	return out
}

// TargetFor returns the target column mapped from the given source column.
func (m ColumnMapping) TargetFor(source string) (string, bool) {
	for _, p := range m {
		if p.Source == source {
			return p.Target, true
		}
	}
	return "", false
}

// SourceFor returns the source column mapped to the given target column.
func (m ColumnMapping) SourceFor(target string) (string, bool) {
	for _, p := range m {
		if p.Target == target {
			return p.Source, true
		}
	}
	return "", false
}

// validate checks the mapping invariants: non-empty, unique target names.
func (m ColumnMapping) validate() error {
	if len(m) == 0 {
		return &ColumnNotFoundError{Column: "(empty column mapping)"}
	}
	seen := make(map[string]struct{}, len(m))
	for _, p := range m {
		if p.Source == "" || p.Target == "" {
			return &ColumnNotFoundError{Column: p.Source + ":" + p.Target}
		}
		if _, dup := seen[p.Target]; dup {
			return &ColumnNotFoundError{Column: p.Target + " (duplicate target)"}
		}
		seen[p.Target] = struct{}{}
	}
	return nil
}

// Spec bundles everything one reconciliation needs: the two tables, the
// column mapping, row identity, the merge mode, and the optional
// update-timestamp column.
type Spec struct {
	// Target is the persistent destination table.
	Target string

	// Staging is the ephemeral staging table holding text-typed rows.
	Staging string

	// Mapping is the ordered source-to-target column mapping.
	Mapping ColumnMapping

	// Keys lists the source columns that identify a row. Every key must
	// appear as a mapping source; its mapped target addresses the same
	// identity in the target table.
	Keys []string

	// Mode is the merge strategy.
	Mode Mode

	// UpdatedColumn optionally names the target column carrying a
	// last-modified timestamp. When set (or when a timestamp-typed
	// "updated_at" target is mapped), update mode compares only this
	// column instead of diffing every mapped value.
	UpdatedColumn string
}

// keyTargets resolves the key set to target column names, in key order.
func (s Spec) keyTargets() ([]string, error) {
	out := make([]string, len(s.Keys))
	for i, k := range s.Keys {
		target, ok := s.Mapping.TargetFor(k)
		if !ok {
			return nil, &ColumnNotFoundError{Column: k}
		}
		out[i] = target
	}
	return out, nil
}

// isKeySource reports whether the source column belongs to the key set.
func (s Spec) isKeySource(source string) bool {
	for _, k := range s.Keys {
		if k == source {
			return true
		}
	}
	return false
}

// validate checks the spec against the resolved target schema. All checks
// happen strictly before the first mutating statement.
func (s Spec) validate(types map[string]ColumnType) error {
	if err := s.Mode.Validate(); err != nil {
		return err
	}
	if err := s.Mapping.validate(); err != nil {
		return err
	}
	if len(s.Keys) == 0 {
		return &ColumnNotFoundError{Column: "(empty key set)"}
	}
	if _, err := s.keyTargets(); err != nil {
		return err
	}
	for _, target := range s.Mapping.Targets() {
		if _, ok := types[target]; !ok {
			return &ColumnNotFoundError{Column: target}
		}
	}
	if s.UpdatedColumn != "" {
		if _, ok := s.Mapping.SourceFor(s.UpdatedColumn); !ok {
			return &ColumnNotFoundError{Column: s.UpdatedColumn}
		}
	}
	return nil
}

// timestampColumn returns the target column used for the update-mode
// timestamp shortcut, or "" when update mode must fall back to a full
// value diff. An unset UpdatedColumn auto-detects a timestamp-typed
// "updated_at" mapping target.
func (s Spec) timestampColumn(types map[string]ColumnType) string {
	if s.UpdatedColumn != "" {
		return s.UpdatedColumn
	}
	if _, mapped := s.Mapping.SourceFor(defaultUpdatedColumn); mapped && types[defaultUpdatedColumn] == TypeTimestamp {
		return defaultUpdatedColumn
	}
	return ""
}

// defaultUpdatedColumn is the conventional last-modified column name.
const defaultUpdatedColumn = "updated_at"

// Result reports how many target rows a completed reconciliation touched.
// There is no partial-success value: a failed plan returns no Result.
type Result struct {
	// Inserted counts rows added to the target.
	Inserted int64
	// Updated counts rows rewritten in place.
	Updated int64
}

// Total returns the full affected-row count for the completed plan.
func (r Result) Total() int64 {
	return r.Inserted + r.Updated
}
