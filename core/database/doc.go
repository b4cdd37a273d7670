// Package database handles database connections and schema inspection.
//
// It wraps GORM to configure MySQL connections (pool sizing, DSN timeouts)
// and supports sqlite for fast in-memory testing. The schema inspector
// feeds the merge engine's type catalog: reconciliation casts staged text
// values to each target column's native type, so exact type strings matter.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	columns, err := database.GetTableColumns(db, "products")
package database
