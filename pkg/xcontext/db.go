package xcontext

import (
	"context"

	"gorm.io/gorm"
)

type dbTransaction struct {
	tx       *gorm.DB
	finished bool
}

func WithDB(ctx context.Context, db *gorm.DB) context.Context {
	return context.WithValue(ctx, dbKey{}, db)
}

// DB returns the running transaction if there is one, otherwise the database
// handle. Every query of a transactional operation must go through DB(ctx).
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(dbTxKey{}).(*dbTransaction); ok && !t.finished {
		return t.tx.WithContext(ctx)
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("xcontext: no database in context")
	}

	return db.WithContext(ctx)
}

// WithDBTransaction begins a transaction on top of DB(ctx). The returned
// context must be finished by WithCommitDBTransaction, and
// WithRollbackDBTransaction should be deferred right after this call.
func WithDBTransaction(ctx context.Context) context.Context {
	return context.WithValue(ctx, dbTxKey{}, &dbTransaction{tx: DB(ctx).Begin()})
}

func WithCommitDBTransaction(ctx context.Context) error {
	t, ok := ctx.Value(dbTxKey{}).(*dbTransaction)
	if !ok || t.finished {
		return nil
	}

	t.finished = true
	return t.tx.Commit().Error
}

// WithRollbackDBTransaction is a no-op if the transaction was already
// committed.
func WithRollbackDBTransaction(ctx context.Context) {
	t, ok := ctx.Value(dbTxKey{}).(*dbTransaction)
	if !ok || t.finished {
		return
	}

	t.finished = true
	if err := t.tx.Rollback().Error; err != nil {
		Logger(ctx).Errorf("Cannot rollback transaction: %v", err)
	}
}
