package database

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// ColumnInfo matches one row of SHOW COLUMNS output.
type ColumnInfo struct {
	Field   string
	Type    string
	Null    string
	Key     string
	Default *string // NULL default is possible
	Extra   string
}

// GetTableColumns retrieves the column definitions for a table. Field and
// type names are normalized to lowercase so callers can compare them
// without caring which driver answered.
func GetTableColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	if db.Dialector.Name() == "sqlite" {
		return sqliteColumns(db, tableName)
	}

	// Raw SHOW COLUMNS gives the exact type strings; GORM's migrator
	// abstraction rewrites them.
	var columns []ColumnInfo
	err := db.Raw(fmt.Sprintf("SHOW COLUMNS FROM `%s`", tableName)).Scan(&columns).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}
	for i := range columns {
		columns[i].Field = strings.ToLower(columns[i].Field)
		columns[i].Type = strings.ToLower(columns[i].Type)
	}
	return columns, nil
}

// sqliteColumns reads column metadata via PRAGMA table_info. An unknown
// table yields an empty result rather than an error.
func sqliteColumns(db *gorm.DB, tableName string) ([]ColumnInfo, error) {
	type pragmaColumn struct {
		Cid        int
		Name       string
		Type       string
		Notnull    int
		DefaultVal *string
		Pk         int
	}
	var rows []pragmaColumn
	if err := db.Raw(fmt.Sprintf("PRAGMA table_info('%s')", tableName)).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to get columns for table %s: %w", tableName, err)
	}

	columns := make([]ColumnInfo, 0, len(rows))
	for _, row := range rows {
		info := ColumnInfo{
			Field:   strings.ToLower(row.Name),
			Type:    strings.ToLower(row.Type),
			Default: row.DefaultVal,
		}
		if row.Notnull == 1 {
			info.Null = "NO"
		} else {
			info.Null = "YES"
		}
		if row.Pk > 0 {
			info.Key = "PRI"
		}
		columns = append(columns, info)
	}
	return columns, nil
}
