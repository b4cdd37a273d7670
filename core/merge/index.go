package merge

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// IndexAdvisor makes sure the staging table carries a supporting index on
// its key and comparison columns, keeping the anti-join near O(n log n)
// instead of a full scan per target row. Indexes live and die with the
// staging table, so the advisor only tracks one reconciliation's worth.
type IndexAdvisor struct {
	db      *gorm.DB
	ensured map[string]struct{}
}

// NewIndexAdvisor returns an advisor bound to the given connection.
func NewIndexAdvisor(db *gorm.DB) *IndexAdvisor {
	return &IndexAdvisor{
		db:      db,
		ensured: make(map[string]struct{}),
	}
}

// Ensure creates an index over the given columns of the staging table if
// one by the derived name does not exist yet. Calling it twice for the same
// columns within a reconciliation is a no-op.
func (a *IndexAdvisor) Ensure(table string, columns []string) error {
	if len(columns) == 0 {
		return nil
	}

	name := indexName(table, columns)
	if _, done := a.ensured[name]; done {
		return nil
	}

	dialect := a.db.Dialector.Name()
	quoted := make([]string, len(columns))
	for i, col := range columns {
		quoted[i] = quoteIdent(dialect, col)
	}
	columnList := strings.Join(quoted, ", ")

	if isSQLite(dialect) {
		stmt := fmt.Sprintf("CREATE INDEX IF NOT EXISTS %s ON %s (%s)",
			quoteIdent(dialect, name), quoteIdent(dialect, table), columnList)
		if err := a.db.Exec(stmt).Error; err != nil {
			return &StorageOperationError{Op: "create index " + name, Err: err}
		}
		a.ensured[name] = struct{}{}
		return nil
	}

	// MySQL has no CREATE INDEX IF NOT EXISTS; probe the statistics view.
	var count int64
	err := a.db.Raw(
		"SELECT COUNT(*) FROM information_schema.statistics WHERE table_schema = DATABASE() AND table_name = ? AND index_name = ?",
		table, name,
	).Scan(&count).Error
	if err != nil {
		return &StorageOperationError{Op: "probe index " + name, Err: err}
	}
	if count == 0 {
		stmt := fmt.Sprintf("CREATE INDEX %s ON %s (%s)",
			quoteIdent(dialect, name), quoteIdent(dialect, table), columnList)
		if err := a.db.Exec(stmt).Error; err != nil {
			return &StorageOperationError{Op: "create index " + name, Err: err}
		}
	}
	a.ensured[name] = struct{}{}
	return nil
}

// indexName derives a deterministic index name from table and columns.
func indexName(table string, columns []string) string {
	return "idx_" + table + "_" + strings.Join(columns, "_")
}
