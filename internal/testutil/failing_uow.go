package testutil

import (
	"context"
	"database/sql"
	"fmt"
	"sync/atomic"

	"github.com/DEFRA/fc-apply-for-a-tree-felling-licence-sub001/internal/db"
)

// FailOnNthExecUoW is a test UoW that injects Err on the Nth ExecContext
// call within each transaction, simulating a save that fails part way
// through a multi-write operation. Counting starts at 1; reads are not
// counted. FailOn of 0 never fails.
type FailOnNthExecUoW struct {
	DB     *sql.DB
	FailOn int32
	Err    error
}

func (u *FailOnNthExecUoW) WithinTx(ctx context.Context, fn func(ctx context.Context, tx db.DBTX) error) error {
	tx, err := u.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	wrapped := &failOnNthExec{DBTX: tx, failOn: u.FailOn, err: u.Err}
	if fnErr := fn(ctx, wrapped); fnErr != nil {
		_ = tx.Rollback()
		return fnErr
	}
	return tx.Commit()
}

type failOnNthExec struct {
	db.DBTX
	count  atomic.Int32
	failOn int32
	err    error
}

func (f *failOnNthExec) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	n := f.count.Add(1)
	if n == f.failOn {
		return nil, f.err
	}
	return f.DBTX.ExecContext(ctx, query, args...)
}

// PanicUoW panics with Value inside WithinTx, standing in for a
// collaborator that throws.
type PanicUoW struct {
	Value any
}

func (u PanicUoW) WithinTx(context.Context, func(ctx context.Context, tx db.DBTX) error) error {
	panic(u.Value)
}
