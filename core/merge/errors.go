package merge

import "fmt"

// UnknownMergeModeError reports a merge mode outside {append, update, replace}.
// It is a configuration error: detected before planning, never retried.
type UnknownMergeModeError struct {
	Mode string
}

func (e *UnknownMergeModeError) Error() string {
	return fmt.Sprintf("unknown merge mode %q (supported: append, update, replace)", e.Mode)
}

// ColumnNotFoundError reports a column referenced by the mapping or key set
// that does not resolve against the target schema or the column mapping.
type ColumnNotFoundError struct {
	Column string
}

func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found", e.Column)
}

// SchemaLookupError reports that the target relation is missing or its
// schema metadata could not be read.
type SchemaLookupError struct {
	Table string
	Err   error
}

func (e *SchemaLookupError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("schema lookup failed for table %q: %v", e.Table, e.Err)
	}
	return fmt.Sprintf("schema lookup failed for table %q", e.Table)
}

func (e *SchemaLookupError) Unwrap() error { return e.Err }

// StorageOperationError reports a failure during a mutating statement or
// index creation. Bulk statements are not safely idempotent when partially
// applied, so these are surfaced with their cause and never auto-retried.
type StorageOperationError struct {
	Op  string
	Err error
}

func (e *StorageOperationError) Error() string {
	return fmt.Sprintf("storage operation %q failed: %v", e.Op, e.Err)
}

func (e *StorageOperationError) Unwrap() error { return e.Err }
