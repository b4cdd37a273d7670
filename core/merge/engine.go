package merge

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Engine is the reconciliation planner and executor. It owns no state
// beyond its storage handle and logger; every call carries its own Spec,
// so one Engine may serve many reconciliations (never sharing a staging
// table between concurrent calls).
type Engine struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewEngine returns an engine bound to an explicit storage handle. Passing
// the handle in keeps the engine substitutable with test doubles.
func NewEngine(db *gorm.DB, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{db: db, log: log}
}

// Reconcile plans and executes one reconciliation: it validates the mode
// and mapping, resolves target column types, makes sure supporting indexes
// exist on the staging side, then runs the planned statements sequentially
// inside a single transaction. Either every planned operation commits, or
// none are visible.
//
// All validation and schema lookup failures surface strictly before the
// first mutating statement; a failure mid-plan rolls the transaction back
// and returns a StorageOperationError with the underlying cause.
func (e *Engine) Reconcile(ctx context.Context, spec Spec) (Result, error) {
	if err := spec.Mode.Validate(); err != nil {
		return Result{}, err
	}

	types, err := ResolveTypes(e.db, spec.Target)
	if err != nil {
		return Result{}, err
	}
	if err := spec.validate(types); err != nil {
		return Result{}, err
	}

	plan, err := BuildPlan(spec, types, e.db.Dialector.Name())
	if err != nil {
		return Result{}, err
	}

	// Index the staging key columns, plus the staging timestamp column when
	// update mode takes the monotonic shortcut. DDL runs outside the write
	// transaction; it touches only the ephemeral staging table.
	advisor := NewIndexAdvisor(e.db)
	if err := advisor.Ensure(spec.Staging, spec.Keys); err != nil {
		return Result{}, err
	}
	if spec.Mode == ModeUpdate {
		if tsTarget := spec.timestampColumn(types); tsTarget != "" {
			if tsSource, ok := spec.Mapping.SourceFor(tsTarget); ok {
				if err := advisor.Ensure(spec.Staging, []string{tsSource}); err != nil {
					return Result{}, err
				}
			}
		}
	}

	e.log.Debug("reconciliation planned",
		zap.String("target", spec.Target),
		zap.String("staging", spec.Staging),
		zap.String("mode", string(spec.Mode)),
		zap.Int("statements", len(plan)),
	)

	var result Result
	err = e.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, stmt := range plan {
			res := tx.Exec(stmt.SQL)
			if res.Error != nil {
				return &StorageOperationError{Op: string(stmt.Kind), Err: res.Error}
			}
			switch stmt.Kind {
			case OpInsert:
				result.Inserted += res.RowsAffected
			case OpUpdate:
				result.Updated += res.RowsAffected
			}
		}
		return nil
	})
	if err != nil {
		return Result{}, err
	}

	e.log.Info("reconciliation complete",
		zap.String("target", spec.Target),
		zap.String("mode", string(spec.Mode)),
		zap.Int64("inserted", result.Inserted),
		zap.Int64("updated", result.Updated),
	)

	return result, nil
}
