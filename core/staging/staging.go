package staging

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Set is an ephemeral staging table holding one text-typed column per
// staged source column. Its lifetime is scoped to a single reconciliation:
// created before the bulk load, dropped afterwards regardless of outcome.
// A Set is exclusively owned by the reconciliation that created it.
type Set struct {
	// Table is the unique staging table name.
	Table string
	// Columns are the staged source column names, in file order.
	Columns []string
}

// NewSet allocates a staging set with a unique table name for the given
// source columns. Nothing is created until Create runs.
func NewSet(columns []string) *Set {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return &Set{
		Table:   "staging_" + suffix,
		Columns: columns,
	}
}

// Create makes the staging table, every column TEXT. The bulk loader and
// the merge engine's casts do all typing later.
func (s *Set) Create(ctx context.Context, db *gorm.DB) error {
	if len(s.Columns) == 0 {
		return fmt.Errorf("staging set %s has no columns", s.Table)
	}
	defs := make([]string, len(s.Columns))
	for i, col := range s.Columns {
		defs[i] = quoteIdent(db, col) + " TEXT"
	}
	stmt := fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(db, s.Table), strings.Join(defs, ", "))
	if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to create staging table %s: %w", s.Table, err)
	}
	return nil
}

// Drop removes the staging table and any indexes on it. Safe to call
// whether or not Create succeeded, so callers can defer it.
func (s *Set) Drop(ctx context.Context, db *gorm.DB) error {
	stmt := "DROP TABLE IF EXISTS " + quoteIdent(db, s.Table)
	if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
		return fmt.Errorf("failed to drop staging table %s: %w", s.Table, err)
	}
	return nil
}

// quoteIdent quotes an identifier for the connection's dialect.
func quoteIdent(db *gorm.DB, name string) string {
	if db.Dialector.Name() == "sqlite" {
		return `"` + name + `"`
	}
	return "`" + name + "`"
}
