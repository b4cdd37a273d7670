// Package merge reconciles a freshly bulk-loaded staging table of
// text-typed rows against an existing typed target table, synthesizing the
// minimal ordered sequence of insert/update/truncate statements and running
// it inside one transaction.
//
// # Merge modes
//
// Three strategies are supported:
//
//  1. Append: staging rows whose composite key matches no target row are
//     inserted; existing keys are never duplicated.
//  2. Update: append first, then rewrite target rows whose shared key
//     carries changed values. With a designated last-modified column the
//     change test is a strictly-greater timestamp comparison; otherwise the
//     ordered tuple of non-key mapped values is diffed.
//  3. Replace: clear the target, then append everything. Replace reuses the
//     append path so casting and mapping logic stays singular.
//
// # Type-aware comparison
//
// Staging columns are all text. The TypeCatalog (ResolveTypes) reads the
// target's schema metadata and assigns each column a type tag; BuildKeyList
// casts staging-side expressions to that tag, so a staged "007" matches an
// integer 7 in the target.
//
// # Planning vs execution
//
// BuildPlan is a pure transform from spec to statement list, testable
// without a live database. Engine.Reconcile executes a plan sequentially in
// a single transaction: either every planned statement is visible, or none.
//
// # Usage
//
//	engine := merge.NewEngine(db, log)
//	result, err := engine.Reconcile(ctx, merge.Spec{
//	    Target:  "products",
//	    Staging: set.Table,
//	    Mapping: merge.ColumnMapping{{Source: "id", Target: "id"}, {Source: "name", Target: "name"}},
//	    Keys:    []string{"id"},
//	    Mode:    merge.ModeUpdate,
//	})
package merge
